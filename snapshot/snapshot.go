package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/gogpu/rasterdoc"
)

// Snapshot errors.
var (
	// ErrUnknownCompression is returned for a compression name or tag
	// this package does not implement.
	ErrUnknownCompression = errors.New("snapshot: unknown compression")

	// ErrUnsupportedVersion is returned when decoding a snapshot written
	// by an incompatible format version.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported format version")

	// ErrCorrupt is returned when a snapshot is structurally invalid.
	ErrCorrupt = errors.New("snapshot: corrupt data")

	// ErrChecksumMismatch is returned when a decoded pixel payload does
	// not match its stored hash.
	ErrChecksumMismatch = errors.New("snapshot: pixel checksum mismatch")
)

// FormatVersion is written into every snapshot.
const FormatVersion = 1

// MaxPixelBytes bounds the uncompressed size of one layer's pixel payload
// accepted by Decode.
const MaxPixelBytes = 1 << 30

type documentRecord struct {
	Version int           `cbor:"version"`
	Name    string        `cbor:"name"`
	Width   int           `cbor:"width"`
	Height  int           `cbor:"height"`
	XRes    int           `cbor:"xres"`
	YRes    int           `cbor:"yres"`
	Layers  []layerRecord `cbor:"layers,omitempty"`
}

type layerRecord struct {
	Name     string        `cbor:"name"`
	Bounds   [4]int        `cbor:"bounds"`
	Visible  bool          `cbor:"visible"`
	Opacity  float64       `cbor:"opacity"`
	Pixels   *pixelRecord  `cbor:"pixels,omitempty"`
	Children []layerRecord `cbor:"children,omitempty"`
}

type pixelRecord struct {
	Width       int         `cbor:"width"`
	Height      int         `cbor:"height"`
	Channels    int         `cbor:"channels"`
	Compression Compression `cbor:"compression"`
	Hash        Hash        `cbor:"hash"`
	Data        []byte      `cbor:"data"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode writes doc to w.
func Encode(w io.Writer, doc *rasterdoc.Document, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.compression > CompressionZstd {
		return fmt.Errorf("%w: tag %d", ErrUnknownCompression, o.compression)
	}

	xRes, yRes := doc.Resolution()
	rec := documentRecord{
		Version: FormatVersion,
		Name:    doc.Name(),
		Width:   doc.Width(),
		Height:  doc.Height(),
		XRes:    xRes,
		YRes:    yRes,
	}
	for _, l := range doc.TopLevelNodes() {
		lr, err := encodeLayer(l, o.compression)
		if err != nil {
			return err
		}
		rec.Layers = append(rec.Layers, lr)
	}
	if err := encMode.NewEncoder(w).Encode(rec); err != nil {
		return fmt.Errorf("snapshot: encode %q: %w", doc.Name(), err)
	}
	rasterdoc.Logger().Debug("snapshot: encoded", "document", doc.Name(),
		"layers", len(rec.Layers), "compression", o.compression.String())
	return nil
}

// Marshal returns the snapshot bytes of doc.
func Marshal(doc *rasterdoc.Document, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeLayer(l *rasterdoc.Layer, c Compression) (layerRecord, error) {
	b := l.Bounds()
	lr := layerRecord{
		Name:    l.Name(),
		Bounds:  [4]int{b.X, b.Y, b.Width, b.Height},
		Visible: l.Visible(),
		Opacity: l.Opacity(),
	}
	if buf := l.Pixels(); buf != nil {
		data, used, err := compress(buf.Data(), c)
		if err != nil {
			return layerRecord{}, fmt.Errorf("snapshot: layer %q: %w", l.Name(), err)
		}
		lr.Pixels = &pixelRecord{
			Width:       buf.Width(),
			Height:      buf.Height(),
			Channels:    buf.Channels(),
			Compression: used,
			Hash:        HashPixels(buf.Data()),
			Data:        data,
		}
	}
	for _, child := range l.Children() {
		cr, err := encodeLayer(child, c)
		if err != nil {
			return layerRecord{}, err
		}
		lr.Children = append(lr.Children, cr)
	}
	return lr, nil
}

// Decode reads a snapshot from r and rebuilds the document. The result has
// no resampler installed.
func Decode(r io.Reader) (*rasterdoc.Document, error) {
	var rec documentRecord
	if err := decMode.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if rec.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.Version)
	}
	if err := rasterdoc.ValidateSize(rec.Width, rec.Height, rasterdoc.MaxChannels); err != nil {
		return nil, fmt.Errorf("%w: canvas: %v", ErrCorrupt, err)
	}
	doc, err := rasterdoc.NewDocument(rec.Name, rec.Width, rec.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	doc.SetResolution(rec.XRes, rec.YRes)
	for i := range rec.Layers {
		l, err := decodeLayer(&rec.Layers[i])
		if err != nil {
			return nil, err
		}
		if err := doc.AddLayer(l); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	return doc, nil
}

// Unmarshal decodes a snapshot held in memory.
func Unmarshal(data []byte) (*rasterdoc.Document, error) {
	return Decode(bytes.NewReader(data))
}

func decodeLayer(lr *layerRecord) (*rasterdoc.Layer, error) {
	l := rasterdoc.NewLayer(lr.Name, rasterdoc.R(lr.Bounds[0], lr.Bounds[1], lr.Bounds[2], lr.Bounds[3]))
	l.SetVisible(lr.Visible)
	l.SetOpacity(lr.Opacity)
	if p := lr.Pixels; p != nil {
		buf, err := decodePixels(p)
		if err != nil {
			return nil, fmt.Errorf("snapshot: layer %q: %w", lr.Name, err)
		}
		l.SetPixels(buf)
	}
	for i := range lr.Children {
		child, err := decodeLayer(&lr.Children[i])
		if err != nil {
			return nil, err
		}
		if err := l.AddChild(child); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	return l, nil
}

func decodePixels(p *pixelRecord) (*rasterdoc.PixelBuffer, error) {
	if err := rasterdoc.ValidateSize(p.Width, p.Height, p.Channels); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if p.Width != 0 && p.Height > MaxPixelBytes/p.Width/p.Channels {
		return nil, fmt.Errorf("%w: %dx%dx%d pixels exceed %d bytes",
			ErrCorrupt, p.Width, p.Height, p.Channels, MaxPixelBytes)
	}
	buf, err := rasterdoc.NewPixelBuffer(p.Width, p.Height, p.Channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	raw, err := decompress(p.Data, p.Compression, len(buf.Data()))
	if err != nil {
		return nil, err
	}
	if got := HashPixels(raw); got != p.Hash {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrChecksumMismatch, got, p.Hash)
	}
	copy(buf.Data(), raw)
	return buf, nil
}
