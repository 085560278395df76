package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/rasterdoc"
	"github.com/gogpu/rasterdoc/script"
)

// job is the YAML description of a document and the edits applied to it.
//
//	document: {name: poster, width: 200, height: 100}
//	layers:
//	  - name: photo
//	    source: photo.png
//	    x: 10
//	    y: 10
//	extensions: [tint.js]
//	steps:
//	  - op: invert
//	    layer: photo
//	  - op: rotate
//	    degrees: 90
type job struct {
	Document   documentSpec `yaml:"document"`
	Layers     []layerSpec  `yaml:"layers"`
	Extensions []string     `yaml:"extensions"`
	Steps      []stepSpec   `yaml:"steps"`

	// dir resolves relative paths in the job.
	dir string
}

type documentSpec struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	XRes   int    `yaml:"xres"`
	YRes   int    `yaml:"yres"`
}

type rectSpec struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (r rectSpec) rect() rasterdoc.Rect {
	return rasterdoc.R(r.X, r.Y, r.Width, r.Height)
}

type layerSpec struct {
	Name     string      `yaml:"name"`
	X        int         `yaml:"x"`
	Y        int         `yaml:"y"`
	Width    int         `yaml:"width"`
	Height   int         `yaml:"height"`
	Channels int         `yaml:"channels"`
	Source   string      `yaml:"source"`
	Fill     []int       `yaml:"fill"`
	Visible  *bool       `yaml:"visible"`
	Opacity  *float64    `yaml:"opacity"`
	Children []layerSpec `yaml:"children"`
}

type stepSpec struct {
	Op       string    `yaml:"op"`
	Layer    string    `yaml:"layer"`
	Region   *rectSpec `yaml:"region"`
	Rect     *rectSpec `yaml:"rect"`
	Degrees  float64   `yaml:"degrees"`
	Width    int       `yaml:"width"`
	Height   int       `yaml:"height"`
	XRes     int       `yaml:"xres"`
	YRes     int       `yaml:"yres"`
	Strategy string    `yaml:"strategy"`
	Source   string    `yaml:"source"`
	File     string    `yaml:"file"`
}

var errJob = errors.New("invalid job")

func loadJob(path string) (*job, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read job: %w", err)
	}
	j, err := parseJob(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	j.dir = filepath.Dir(path)
	return j, nil
}

func parseJob(data []byte) (*job, error) {
	var j job
	if err := yaml.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("%w: %v", errJob, err)
	}
	if j.Document.Name == "" {
		j.Document.Name = "untitled"
	}
	if j.Document.XRes == 0 {
		j.Document.XRes = rasterdoc.DefaultResolution
	}
	if j.Document.YRes == 0 {
		j.Document.YRes = rasterdoc.DefaultResolution
	}
	for i, s := range j.Steps {
		if _, ok := stepOps[s.Op]; !ok {
			return nil, fmt.Errorf("%w: step %d: unknown op %q", errJob, i+1, s.Op)
		}
	}
	return &j, nil
}

func (j *job) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(j.dir, p)
}

// build creates the document and its layer tree.
func (j *job) build() (*rasterdoc.Document, error) {
	doc, err := rasterdoc.NewDocument(j.Document.Name, j.Document.Width, j.Document.Height)
	if err != nil {
		return nil, err
	}
	doc.SetResolution(j.Document.XRes, j.Document.YRes)
	for _, ls := range j.Layers {
		l, err := j.buildLayer(ls)
		if err != nil {
			return nil, err
		}
		if err := doc.AddLayer(l); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (j *job) buildLayer(ls layerSpec) (*rasterdoc.Layer, error) {
	channels := ls.Channels
	if channels == 0 {
		channels = 4
	}

	var l *rasterdoc.Layer
	switch {
	case ls.Source != "":
		buf, err := rasterdoc.LoadPNG(j.path(ls.Source), channels)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", ls.Name, err)
		}
		l = rasterdoc.NewPixelLayer(ls.Name, ls.X, ls.Y, buf)
	case len(ls.Fill) > 0 || ls.Channels > 0:
		buf, err := rasterdoc.NewPixelBuffer(ls.Width, ls.Height, channels)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", ls.Name, err)
		}
		if len(ls.Fill) > 0 {
			fill := make([]uint8, len(ls.Fill))
			for i, v := range ls.Fill {
				fill[i] = uint8(min(max(v, 0), 255))
			}
			if err := buf.Fill(fill...); err != nil {
				return nil, fmt.Errorf("layer %q: %w", ls.Name, err)
			}
		}
		l = rasterdoc.NewPixelLayer(ls.Name, ls.X, ls.Y, buf)
	default:
		l = rasterdoc.NewLayer(ls.Name, rasterdoc.R(ls.X, ls.Y, ls.Width, ls.Height))
	}
	if ls.Visible != nil {
		l.SetVisible(*ls.Visible)
	}
	if ls.Opacity != nil {
		l.SetOpacity(*ls.Opacity)
	}
	for _, cs := range ls.Children {
		child, err := j.buildLayer(cs)
		if err != nil {
			return nil, err
		}
		if err := l.AddChild(child); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// setup runs the job's extensions through a registry.
func (j *job) setup(ctx context.Context, doc *rasterdoc.Document) error {
	reg := rasterdoc.NewRegistry()
	for _, p := range j.Extensions {
		ext, err := script.LoadExtension(j.path(p))
		if err != nil {
			return err
		}
		if err := reg.Register(ext); err != nil {
			return err
		}
	}
	return reg.SetupAll(ctx, doc)
}

type stepFunc func(ctx context.Context, j *job, doc *rasterdoc.Document, s stepSpec) error

var stepOps = map[string]stepFunc{
	"invert":           invertStep,
	"resize":           resizeStep,
	"resize-to-layers": resizeToLayersStep,
	"rotate":           rotateStep,
	"scale":            scaleStep,
	"script":           scriptStep,
}

// run applies every step in order and stops at the first failure.
func (j *job) run(ctx context.Context, doc *rasterdoc.Document) error {
	for i, s := range j.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := stepOps[s.Op](ctx, j, doc, s); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, s.Op, err)
		}
		rasterdoc.Logger().Info("rasterdoc: step done", "step", i+1, "op", s.Op,
			"canvas", doc.Canvas().String())
	}
	return nil
}

func invertStep(_ context.Context, _ *job, doc *rasterdoc.Document, s stepSpec) error {
	l, err := doc.FindLayer(s.Layer)
	if err != nil {
		return err
	}
	buf := l.Pixels()
	if buf == nil {
		return fmt.Errorf("%w: layer %q has no pixels", errJob, s.Layer)
	}
	r := buf.Rect()
	if s.Region != nil {
		r = s.Region.rect()
	}
	return rasterdoc.InvertRegion(buf, r)
}

func resizeStep(_ context.Context, _ *job, doc *rasterdoc.Document, s stepSpec) error {
	if s.Rect == nil {
		return fmt.Errorf("%w: resize needs rect", errJob)
	}
	return doc.Resize(s.Rect.rect())
}

func resizeToLayersStep(_ context.Context, _ *job, doc *rasterdoc.Document, _ stepSpec) error {
	_, err := doc.ResizeToLayers()
	return err
}

func rotateStep(_ context.Context, _ *job, doc *rasterdoc.Document, s stepSpec) error {
	_, err := doc.Rotate(s.Degrees)
	return err
}

func scaleStep(_ context.Context, _ *job, doc *rasterdoc.Document, s stepSpec) error {
	xRes, yRes := doc.Resolution()
	if s.XRes != 0 {
		xRes = s.XRes
	}
	if s.YRes != 0 {
		yRes = s.YRes
	}
	strategy := s.Strategy
	if strategy == "" {
		strategy = rasterdoc.StrategyBicubic.String()
	}
	p, err := rasterdoc.ScaleAdjust(s.Width, s.Height, xRes, yRes, strategy)
	if err != nil {
		return err
	}
	return doc.Scale(p)
}

func scriptStep(ctx context.Context, j *job, doc *rasterdoc.Document, s stepSpec) error {
	src := s.Source
	if s.File != "" {
		data, err := os.ReadFile(j.path(s.File))
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		src = string(data)
	}
	e, err := script.NewEngine(doc)
	if err != nil {
		return err
	}
	_, err = e.Execute(ctx, src)
	return err
}
