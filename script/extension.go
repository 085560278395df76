package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/rasterdoc"
)

// Extension is a named script that runs once against a document when a
// rasterdoc.Registry sets it up.
type Extension struct {
	name   string
	source string
}

var _ rasterdoc.Extension = (*Extension)(nil)

// NewExtension creates an extension from script source.
func NewExtension(name, source string) *Extension {
	return &Extension{name: name, source: source}
}

// LoadExtension reads a script file. The extension is named after the file
// without its extension.
func LoadExtension(path string) (*Extension, error) {
	src, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewExtension(name, string(src)), nil
}

// Name implements rasterdoc.Extension.
func (x *Extension) Name() string {
	return x.name
}

// Setup runs the script in a fresh engine bound to doc.
func (x *Extension) Setup(ctx context.Context, doc *rasterdoc.Document) error {
	e, err := NewEngine(doc)
	if err != nil {
		return err
	}
	_, err = e.Execute(ctx, x.source)
	return err
}
