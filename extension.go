package rasterdoc

import (
	"context"
	"fmt"
)

// Extension is a named add-on that a host sets up against a document at
// startup, in registration order.
type Extension interface {
	// Name returns the key the extension is registered under.
	Name() string

	// Setup prepares the extension for doc. It may inspect or modify the
	// document.
	Setup(ctx context.Context, doc *Document) error
}

// Registry maps names to extensions and remembers registration order.
// A host creates one and passes it around explicitly; there is no
// process-wide instance. Registry is not safe for concurrent use.
type Registry struct {
	order []string
	exts  map[string]Extension
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{exts: make(map[string]Extension)}
}

// Register adds ext. A second extension with the same name returns
// ErrDuplicateName.
func (r *Registry) Register(ext Extension) error {
	name := ext.Name()
	if _, ok := r.exts[name]; ok {
		return fmt.Errorf("%w: extension %q", ErrDuplicateName, name)
	}
	r.exts[name] = ext
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the extension registered under name.
func (r *Registry) Lookup(name string) (Extension, error) {
	ext, ok := r.exts[name]
	if !ok {
		return nil, fmt.Errorf("%w: extension %q", ErrNotFound, name)
	}
	return ext, nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered extensions.
func (r *Registry) Len() int {
	return len(r.order)
}

// SetupAll calls Setup on every extension in registration order and
// stops at the first failure or when ctx is done.
func (r *Registry) SetupAll(ctx context.Context, doc *Document) error {
	for _, name := range r.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.exts[name].Setup(ctx, doc); err != nil {
			return fmt.Errorf("rasterdoc: setup extension %q: %w", name, err)
		}
		Logger().Info("rasterdoc: extension set up", "extension", name, "document", doc.Name())
	}
	return nil
}
