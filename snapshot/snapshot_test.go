package snapshot

import (
	"bytes"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gogpu/rasterdoc"
)

func sampleDocument(t *testing.T) *rasterdoc.Document {
	t.Helper()
	doc, err := rasterdoc.NewDocument("sample", 64, 48)
	if err != nil {
		t.Fatal(err)
	}
	doc.SetResolution(300, 150)

	flat, _ := rasterdoc.NewPixelBuffer(32, 32, 4)
	_ = flat.Fill(200, 100, 50, 255)
	bg := rasterdoc.NewPixelLayer("background", 0, 0, flat)

	group := rasterdoc.NewLayer("group", rasterdoc.R(-5, 10, 80, 20))
	group.SetOpacity(0.5)
	noise, _ := rasterdoc.NewPixelBuffer(16, 16, 1)
	rng := rand.New(rand.NewPCG(1, 2))
	for i := range noise.Data() {
		noise.Data()[i] = uint8(rng.UintN(256))
	}
	child := rasterdoc.NewPixelLayer("noise", 3, 4, noise)
	child.SetVisible(false)
	if err := group.AddChild(child); err != nil {
		t.Fatal(err)
	}
	if err := group.AddChild(rasterdoc.NewLayer("empty", rasterdoc.R(0, 0, 0, 0))); err != nil {
		t.Fatal(err)
	}

	for _, l := range []*rasterdoc.Layer{bg, group} {
		if err := doc.AddLayer(l); err != nil {
			t.Fatal(err)
		}
	}
	return doc
}

func assertSameLayer(t *testing.T, want, got *rasterdoc.Layer) {
	t.Helper()
	if got.Name() != want.Name() || got.Bounds() != want.Bounds() ||
		got.Visible() != want.Visible() || got.Opacity() != want.Opacity() {
		t.Errorf("layer %q: got name=%q bounds=%v visible=%v opacity=%v",
			want.Name(), got.Name(), got.Bounds(), got.Visible(), got.Opacity())
	}
	wp, gp := want.Pixels(), got.Pixels()
	switch {
	case wp == nil && gp == nil:
	case wp == nil || gp == nil:
		t.Errorf("layer %q: pixels presence differs", want.Name())
	default:
		if gp.Width() != wp.Width() || gp.Height() != wp.Height() || gp.Channels() != wp.Channels() ||
			!bytes.Equal(gp.Data(), wp.Data()) {
			t.Errorf("layer %q: pixel data differs", want.Name())
		}
	}
	wc, gc := want.Children(), got.Children()
	if len(wc) != len(gc) {
		t.Fatalf("layer %q: %d children, want %d", want.Name(), len(gc), len(wc))
	}
	for i := range wc {
		assertSameLayer(t, wc[i], gc[i])
	}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			doc := sampleDocument(t)
			data, err := Marshal(doc, WithCompression(c))
			if err != nil {
				t.Fatal(err)
			}
			got, err := Unmarshal(data)
			if err != nil {
				t.Fatal(err)
			}
			if got.Name() != "sample" || got.Canvas() != doc.Canvas() {
				t.Errorf("document = %q %v", got.Name(), got.Canvas())
			}
			if x, y := got.Resolution(); x != 300 || y != 150 {
				t.Errorf("resolution = %d,%d", x, y)
			}
			assertSameLayer(t, doc.Root(), got.Root())
		})
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	a, err := Marshal(sampleDocument(t))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Marshal(sampleDocument(t))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two encodings of the same document differ")
	}
}

func decodeRecord(t *testing.T, data []byte) documentRecord {
	t.Helper()
	var rec documentRecord
	if err := decMode.Unmarshal(data, &rec); err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestIncompressibleFallsBackToNone(t *testing.T) {
	for _, c := range []Compression{CompressionLZ4, CompressionZstd} {
		data, err := Marshal(sampleDocument(t), WithCompression(c))
		if err != nil {
			t.Fatal(err)
		}
		rec := decodeRecord(t, data)
		if got := rec.Layers[0].Pixels.Compression; got != c {
			t.Errorf("%v: flat layer stored as %v", c, got)
		}
		if got := rec.Layers[1].Children[0].Pixels.Compression; got != CompressionNone {
			t.Errorf("%v: noise layer stored as %v, want none", c, got)
		}
	}
}

func TestChecksumMismatch(t *testing.T) {
	data, err := Marshal(sampleDocument(t), WithCompression(CompressionNone))
	if err != nil {
		t.Fatal(err)
	}
	rec := decodeRecord(t, data)
	rec.Layers[0].Pixels.Data[7] ^= 0xff
	tampered, err := encMode.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Unmarshal(tampered); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Unmarshal(tampered) error = %v, want ErrChecksumMismatch", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	good, err := Marshal(sampleDocument(t), WithCompression(CompressionLZ4))
	if err != nil {
		t.Fatal(err)
	}

	rec := decodeRecord(t, good)
	rec.Version = FormatVersion + 1
	future, _ := encMode.Marshal(rec)

	rec = decodeRecord(t, good)
	rec.Layers[0].Pixels.Data = rec.Layers[0].Pixels.Data[:len(rec.Layers[0].Pixels.Data)/2]
	truncated, _ := encMode.Marshal(rec)

	rec = decodeRecord(t, good)
	rec.Layers[0].Pixels.Compression = 9
	unknown, _ := encMode.Marshal(rec)

	rec = decodeRecord(t, good)
	rec.Layers[1].Name = rec.Layers[0].Name
	duplicate, _ := encMode.Marshal(rec)

	rec = decodeRecord(t, good)
	rec.Layers[0].Pixels.Width, rec.Layers[0].Pixels.Height = 1<<16, 1<<16
	rec.Layers[0].Pixels.Compression = CompressionNone
	rec.Layers[0].Pixels.Data = nil
	rec.Layers[0].Pixels.Hash = HashPixels(nil)
	oversized, _ := encMode.Marshal(rec)

	rec = decodeRecord(t, good)
	rec.Layers[0].Pixels.Width, rec.Layers[0].Pixels.Height = math.MaxInt/2, 3
	rec.Layers[0].Pixels.Data = nil
	rec.Layers[0].Pixels.Hash = HashPixels(nil)
	overflowing, _ := encMode.Marshal(rec)

	rec = decodeRecord(t, good)
	rec.Width, rec.Height = math.MaxInt>>10, math.MaxInt>>10
	hugeCanvas, _ := encMode.Marshal(rec)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"oversized payload", oversized, ErrCorrupt},
		{"overflowing dimensions", overflowing, ErrCorrupt},
		{"huge canvas", hugeCanvas, ErrCorrupt},
		{"garbage", []byte{0xff, 0x00, 0x13}, ErrCorrupt},
		{"empty", nil, ErrCorrupt},
		{"future version", future, ErrUnsupportedVersion},
		{"truncated payload", truncated, ErrCorrupt},
		{"unknown compression", unknown, ErrUnknownCompression},
		{"duplicate layer", duplicate, ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeRejectsUnknownCompression(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, sampleDocument(t), WithCompression(Compression(7)))
	if !errors.Is(err, ErrUnknownCompression) {
		t.Errorf("Encode() error = %v, want ErrUnknownCompression", err)
	}
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		got, err := ParseCompression(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCompression(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCompression("gzip"); !errors.Is(err, ErrUnknownCompression) {
		t.Errorf("ParseCompression(gzip) error = %v", err)
	}
	if s := Compression(42).String(); s != "unknown(42)" {
		t.Errorf("String() = %q", s)
	}
}

func TestHashPixelsIsKeyed(t *testing.T) {
	a := HashPixels([]byte("pixels"))
	if a != HashPixels([]byte("pixels")) {
		t.Error("hash is not stable")
	}
	if a == HashPixels([]byte("pixelz")) {
		t.Error("different inputs share a hash")
	}
	if len(a.String()) != 64 {
		t.Errorf("String() length = %d", len(a.String()))
	}
}
