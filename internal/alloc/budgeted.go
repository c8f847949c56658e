package alloc

import (
	"github.com/hupe1980/packet/internal/layout"
	"github.com/hupe1980/packet/internal/resource"
)

// Budgeted wraps an Allocator with the limits of a resource.Controller.
// Every Alloc consumes an allocation token and reserves l.Size bytes; Free
// returns the bytes.
type Budgeted struct {
	inner Allocator
	rc    *resource.Controller
}

var _ Allocator = (*Budgeted)(nil)

// NewBudgeted wraps inner. A nil inner defaults to Heap; a nil controller
// imposes no limits.
func NewBudgeted(inner Allocator, rc *resource.Controller) *Budgeted {
	if inner == nil {
		inner = Heap{}
	}
	return &Budgeted{inner: inner, rc: rc}
}

// Alloc implements Allocator.
func (b *Budgeted) Alloc(l layout.Layout) ([]byte, error) {
	if err := b.rc.AllowAlloc(); err != nil {
		return nil, err
	}

	size := int64(l.Size) //nolint:gosec // layout sizes never exceed math.MaxInt
	if err := b.rc.AcquireMemory(size); err != nil {
		return nil, err
	}

	block, err := b.inner.Alloc(l)
	if err != nil {
		b.rc.ReleaseMemory(size)
		return nil, err
	}
	return block, nil
}

// Free implements Allocator.
func (b *Budgeted) Free(block []byte, l layout.Layout) error {
	if err := b.inner.Free(block, l); err != nil {
		return err
	}
	b.rc.ReleaseMemory(int64(l.Size)) //nolint:gosec // layout sizes never exceed math.MaxInt
	return nil
}

// Controller returns the controller enforcing the limits.
func (b *Budgeted) Controller() *resource.Controller {
	return b.rc
}
