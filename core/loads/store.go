package loads

import (
	"errors"
	"fmt"

	"github.com/kilianp07/adms/core/model"
)

// ErrInvalidTransition is returned when a shed or restore does not match
// the current phase of the load.
var ErrInvalidTransition = errors.New("invalid state transition")

// Store keeps one LoadState per registered load, in registry order.
// It is owned by a single controller and is not safe for concurrent use.
type Store struct {
	reg    *Registry
	states []model.LoadState
}

// NewStore returns a store with every load ON and no cooldown.
func NewStore(reg *Registry) *Store {
	s := &Store{reg: reg, states: make([]model.LoadState, reg.Len())}
	for i, l := range reg.loads {
		s.states[i] = model.LoadState{Name: l.Name, On: true}
	}
	return s
}

// Tick decrements every cooldown by one, floored at zero.
func (s *Store) Tick() {
	for i := range s.states {
		if s.states[i].Cooldown > 0 {
			s.states[i].Cooldown--
		}
	}
}

// OnLoads returns the loads currently ON, in registry order.
func (s *Store) OnLoads() []model.Load {
	var out []model.Load
	for i, st := range s.states {
		if st.On {
			out = append(out, s.reg.loads[i])
		}
	}
	return out
}

// Shed moves a load from ON to OFF_COOLING.
func (s *Store) Shed(name string, cooldown int) error {
	i, err := s.reg.position(name)
	if err != nil {
		return err
	}
	st := &s.states[i]
	if st.Phase() != model.PhaseOn {
		return fmt.Errorf("%w: shed %s in phase %s", ErrInvalidTransition, name, st.Phase())
	}
	if cooldown < 0 {
		cooldown = 0
	}
	st.On = false
	st.Cooldown = cooldown
	return nil
}

// Restore moves a load from OFF_ELIGIBLE to ON.
func (s *Store) Restore(name string) error {
	i, err := s.reg.position(name)
	if err != nil {
		return err
	}
	st := &s.states[i]
	if st.Phase() != model.PhaseEligible {
		return fmt.Errorf("%w: restore %s in phase %s", ErrInvalidTransition, name, st.Phase())
	}
	st.On = true
	return nil
}

// Get returns the state of one load.
func (s *Store) Get(name string) (model.LoadState, error) {
	i, err := s.reg.position(name)
	if err != nil {
		return model.LoadState{}, err
	}
	return s.states[i], nil
}

// Snapshot returns a copy of all states in registry order.
func (s *Store) Snapshot() []model.LoadState {
	out := make([]model.LoadState, len(s.states))
	copy(out, s.states)
	return out
}

// OffCount returns the number of loads currently off.
func (s *Store) OffCount() int {
	n := 0
	for _, st := range s.states {
		if !st.On {
			n++
		}
	}
	return n
}
