// Package loads holds the static catalog of controllable loads and the
// mutable per-load state owned by the controller.
package loads

import (
	"errors"
	"fmt"

	"github.com/kilianp07/adms/core/model"
)

var (
	// ErrDuplicateLoad is returned when two loads share a name.
	ErrDuplicateLoad = errors.New("duplicate load")
	// ErrInvalidLoad is returned when a load fails validation.
	ErrInvalidLoad = errors.New("invalid load")
	// ErrUnknownLoad is returned when a name is not in the registry.
	ErrUnknownLoad = errors.New("unknown load")
)

// Registry is an immutable, ordered catalog of loads. Registry order drives
// the order of every emitted action.
type Registry struct {
	loads []model.Load
	index map[string]int
}

// NewRegistry validates the loads and returns a registry preserving their order.
func NewRegistry(list []model.Load) (*Registry, error) {
	r := &Registry{
		loads: make([]model.Load, len(list)),
		index: make(map[string]int, len(list)),
	}
	for i, l := range list {
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLoad, err)
		}
		if _, ok := r.index[l.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLoad, l.Name)
		}
		r.index[l.Name] = i
		r.loads[i] = l
	}
	return r, nil
}

// Loads returns a copy of the catalog in registry order.
func (r *Registry) Loads() []model.Load {
	out := make([]model.Load, len(r.loads))
	copy(out, r.loads)
	return out
}

// Get returns the load with the given name.
func (r *Registry) Get(name string) (model.Load, bool) {
	i, ok := r.index[name]
	if !ok {
		return model.Load{}, false
	}
	return r.loads[i], true
}

// Len returns the number of registered loads.
func (r *Registry) Len() int { return len(r.loads) }

func (r *Registry) position(name string) (int, error) {
	i, ok := r.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownLoad, name)
	}
	return i, nil
}
