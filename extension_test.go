package rasterdoc

import (
	"context"
	"errors"
	"testing"
)

type recordingExtension struct {
	name string
	log  *[]string
	err  error
}

func (e recordingExtension) Name() string { return e.name }

func (e recordingExtension) Setup(_ context.Context, doc *Document) error {
	*e.log = append(*e.log, e.name+"@"+doc.Name())
	return e.err
}

func TestRegistry(t *testing.T) {
	var log []string
	reg := NewRegistry()
	for _, n := range []string{"invert", "resize", "rotate"} {
		if err := reg.Register(recordingExtension{name: n, log: &log}); err != nil {
			t.Fatal(err)
		}
	}
	if err := reg.Register(recordingExtension{name: "resize", log: &log}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate Register error = %v", err)
	}
	if reg.Len() != 3 {
		t.Errorf("Len() = %d", reg.Len())
	}
	if _, err := reg.Lookup("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(missing) error = %v", err)
	}
	if ext, err := reg.Lookup("rotate"); err != nil || ext.Name() != "rotate" {
		t.Errorf("Lookup(rotate) = %v, %v", ext, err)
	}

	doc, _ := NewDocument("doc", 1, 1)
	if err := reg.SetupAll(context.Background(), doc); err != nil {
		t.Fatal(err)
	}
	want := []string{"invert@doc", "resize@doc", "rotate@doc"}
	if len(log) != len(want) {
		t.Fatalf("setup order %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("setup order %v, want %v", log, want)
		}
	}
	names := reg.Names()
	names[0] = "changed"
	if reg.Names()[0] != "invert" {
		t.Error("Names() must return a copy")
	}
}

func TestRegistrySetupStops(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	reg := NewRegistry()
	_ = reg.Register(recordingExtension{name: "a", log: &log, err: boom})
	_ = reg.Register(recordingExtension{name: "b", log: &log})

	doc, _ := NewDocument("doc", 1, 1)
	if err := reg.SetupAll(context.Background(), doc); !errors.Is(err, boom) {
		t.Errorf("SetupAll() error = %v, want boom", err)
	}
	if len(log) != 1 {
		t.Errorf("setup continued after failure: %v", log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	log = nil
	if err := reg.SetupAll(ctx, doc); !errors.Is(err, context.Canceled) {
		t.Errorf("SetupAll(canceled) error = %v", err)
	}
	if len(log) != 0 {
		t.Errorf("setup ran with canceled context: %v", log)
	}
}
