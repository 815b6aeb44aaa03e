package cas

import "rulerbuild.com/ruler/internal/core/ports"

var _ ports.StoreFactory = (*Factory)(nil)

// Factory implements ports.StoreFactory, opening directory-backed stores.
type Factory struct{}

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Open opens the store rooted at the given state directory.
func (f *Factory) Open(dir string) (ports.CacheStore, error) {
	return NewStore(dir)
}
