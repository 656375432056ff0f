package loads

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/adms/core/model"
)

func testLoads() []model.Load {
	return []model.Load{
		{Name: "EV_charger", PowerMW: 5, Priority: 3},
		{Name: "AC_unit", PowerMW: 3, Priority: 2},
		{Name: "Industrial_pump", PowerMW: 7, Priority: 1},
	}
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry([]model.Load{{Name: "a", PowerMW: 1}, {Name: "a", PowerMW: 2}})
	assert.ErrorIs(t, err, ErrDuplicateLoad)

	_, err = NewRegistry([]model.Load{{Name: "a", PowerMW: 0}})
	assert.ErrorIs(t, err, ErrInvalidLoad)
}

func TestRegistry_Order(t *testing.T) {
	reg, err := NewRegistry(testLoads())
	require.NoError(t, err)
	names := []string{}
	for _, l := range reg.Loads() {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"EV_charger", "AC_unit", "Industrial_pump"}, names)
	l, ok := reg.Get("AC_unit")
	assert.True(t, ok)
	assert.Equal(t, 3.0, l.PowerMW)
	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestStore_InitialState(t *testing.T) {
	reg, err := NewRegistry(testLoads())
	require.NoError(t, err)
	s := NewStore(reg)
	for _, st := range s.Snapshot() {
		assert.True(t, st.On)
		assert.Zero(t, st.Cooldown)
	}
	assert.Len(t, s.OnLoads(), 3)
	assert.Zero(t, s.OffCount())
}

func TestStore_CooldownLifecycle(t *testing.T) {
	reg, err := NewRegistry(testLoads())
	require.NoError(t, err)
	s := NewStore(reg)

	require.NoError(t, s.Shed("AC_unit", 3))
	st, err := s.Get("AC_unit")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseCooling, st.Phase())
	assert.Equal(t, 3, st.Cooldown)

	// Cannot shed twice or restore while cooling.
	assert.ErrorIs(t, s.Shed("AC_unit", 3), ErrInvalidTransition)
	assert.ErrorIs(t, s.Restore("AC_unit"), ErrInvalidTransition)

	for i := 0; i < 3; i++ {
		s.Tick()
	}
	st, _ = s.Get("AC_unit")
	assert.Equal(t, model.PhaseEligible, st.Phase())

	// Extra ticks never push the counter negative.
	s.Tick()
	st, _ = s.Get("AC_unit")
	assert.Equal(t, 0, st.Cooldown)

	require.NoError(t, s.Restore("AC_unit"))
	st, _ = s.Get("AC_unit")
	assert.Equal(t, model.PhaseOn, st.Phase())
	assert.ErrorIs(t, s.Restore("AC_unit"), ErrInvalidTransition)
}

func TestStore_UnknownLoad(t *testing.T) {
	reg, err := NewRegistry(testLoads())
	require.NoError(t, err)
	s := NewStore(reg)
	assert.ErrorIs(t, s.Shed("nope", 1), ErrUnknownLoad)
	assert.ErrorIs(t, s.Restore("nope"), ErrUnknownLoad)
	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownLoad)
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	reg, err := NewRegistry(testLoads())
	require.NoError(t, err)
	s := NewStore(reg)
	snap := s.Snapshot()
	snap[0].On = false
	st, _ := s.Get("EV_charger")
	assert.True(t, st.On)
}
