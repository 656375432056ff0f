package balance

import (
	"testing"

	"github.com/kilianp07/adms/core/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name       string
		demand     float64
		generation float64
		buffer     float64
		want       model.Regime
	}{
		{"deficit", 56, 50, 2, model.Deficit},
		{"surplus", 45, 50, 2, model.Surplus},
		{"balanced", 51, 50, 2, model.Balanced},
		{"deficit boundary", 52, 50, 2, model.Balanced},
		{"surplus boundary", 48, 50, 2, model.Balanced},
		{"equal", 50, 50, 0, model.Balanced},
		{"zero buffer deficit", 50.01, 50, 0, model.Deficit},
	}
	for _, tc := range cases {
		if got := Classify(tc.demand, tc.generation, tc.buffer); got != tc.want {
			t.Errorf("%s: expected %s got %s", tc.name, tc.want, got)
		}
	}
}
