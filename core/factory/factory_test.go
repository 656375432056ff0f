package factory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	A       int
	Timeout time.Duration
}

type sampleConf struct {
	A       int           `json:"a"`
	Timeout time.Duration `json:"timeout"`
}

func newSample(conf map[string]any) (*sample, error) {
	var c sampleConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &sample{A: c.A, Timeout: c.Timeout}, nil
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	require.NoError(t, reg.Register("s", newSample))

	inst, err := reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"a": 3, "timeout": "250ms"}})
	require.NoError(t, err)
	assert.Equal(t, 3, inst.A)
	assert.Equal(t, 250*time.Millisecond, inst.Timeout)
}

func TestRegistry_CreateNilConf(t *testing.T) {
	reg := NewRegistry[*sample]()
	reg.MustRegister("s", newSample)
	inst, err := reg.Create(ModuleConfig{Type: "s"})
	require.NoError(t, err)
	assert.Zero(t, inst.A)
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	require.NoError(t, reg.Register("x", func(map[string]any) (int, error) { return 1, nil }))
	assert.Error(t, reg.Register("x", func(map[string]any) (int, error) { return 2, nil }))
	assert.Error(t, reg.Register("z", nil))
	assert.Error(t, reg.Register("", func(map[string]any) (int, error) { return 0, nil }))

	_, err := reg.Create(ModuleConfig{Type: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x")
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	reg := NewRegistry[int]()
	reg.MustRegister("x", func(map[string]any) (int, error) { return 1, nil })
	assert.Panics(t, func() {
		reg.MustRegister("x", func(map[string]any) (int, error) { return 1, nil })
	})
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry[int]()
	for _, n := range []string{"sqlite", "jsonl", "memory"} {
		reg.MustRegister(n, func(map[string]any) (int, error) { return 0, nil })
	}
	assert.Equal(t, []string{"jsonl", "memory", "sqlite"}, reg.Names())
}

func TestDecode_WeakTypes(t *testing.T) {
	var c sampleConf
	require.NoError(t, Decode(map[string]any{"a": "7"}, &c))
	assert.Equal(t, 7, c.A)
}
