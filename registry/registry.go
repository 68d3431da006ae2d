package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	micrortu "github.com/yobol/go-micrortu"
)

var (
	ErrInvalid   = errors.New("invalid block")
	ErrDuplicate = errors.New("block already registered")
	ErrFinalized = errors.New("registry already finalized")
	ErrNotFound  = errors.New("no such block")
)

// Option configures a Registry.
type Option struct {
	// AllowOverwrite lets Register replace a block of the same name instead of failing with ErrDuplicate.
	AllowOverwrite bool
}

// Registry collects blocks until Finalize. It is safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	opt       Option
	blocks    map[string]Block
	finalized bool
}

func New(opt Option) *Registry {
	return &Registry{opt: opt, blocks: make(map[string]Block)}
}

// Register validates b and adds it.
func (r *Registry) Register(b Block) error {
	if err := b.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalized {
		return ErrFinalized
	}
	if _, ok := r.blocks[b.Name]; ok {
		if !r.opt.AllowOverwrite {
			return fmt.Errorf("%w: %s", ErrDuplicate, b.Name)
		}
		micrortu.Logger().Warnf("block %s registered again, replacing", b.Name)
	}
	r.blocks[b.Name] = b
	return nil
}

// RegisterManifest registers every block of m and stops at the first failure.
func (r *Registry) RegisterManifest(m Manifest) error {
	for _, b := range m.Blocks {
		if err := r.Register(b); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Lookup(name string) (Block, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.blocks[name]
	if !ok {
		return Block{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return b, nil
}

// Blocks returns the registered blocks sorted by name.
func (r *Registry) Blocks() []Block {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted()
}

func (r *Registry) sorted() []Block {
	names := make([]string, 0, len(r.blocks))
	for name := range r.blocks {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]Block, len(names))
	for i, name := range names {
		out[i] = r.blocks[name]
	}
	return out
}

// Finalize freezes the registry and lays the blocks out as a Blob. It succeeds once; later calls, and later
// Register calls, fail with ErrFinalized.
func (r *Registry) Finalize() (*Blob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalized {
		return nil, ErrFinalized
	}
	blob, err := newBlob(r.sorted())
	if err != nil {
		return nil, err
	}
	r.finalized = true
	return blob, nil
}
