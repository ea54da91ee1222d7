package sweep

import (
	"testing"
)

func TestCombinationsCount(t *testing.T) {
	cases := []struct {
		name   string
		params []Parameter
		want   int
	}{
		{
			name: "three by two",
			params: []Parameter{
				{Name: "learning_rate", Values: []float64{0.1, 0.5, 0.9}},
				{Name: "epochs", Values: []float64{100, 200}},
			},
			want: 6,
		},
		{
			name: "single parameter",
			params: []Parameter{
				{Name: "learning_rate", Values: []float64{0.1, 0.9}},
			},
			want: 2,
		},
		{
			name: "three axes",
			params: []Parameter{
				{Name: "a", Values: []float64{1, 2}},
				{Name: "b", Values: []float64{1, 2, 3}},
				{Name: "c", Values: []float64{1, 2}},
			},
			want: 12,
		},
		{
			name:   "no parameters",
			params: nil,
			want:   0,
		},
		{
			name: "empty candidate list",
			params: []Parameter{
				{Name: "learning_rate", Values: []float64{0.1}},
				{Name: "epochs", Values: nil},
			},
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			combos := Combinations(tc.params)
			if len(combos) != tc.want {
				t.Fatalf("got %d combinations, want %d", len(combos), tc.want)
			}
		})
	}
}

func TestCombinationsOrder(t *testing.T) {
	params := []Parameter{
		{Name: "learning_rate", Values: []float64{0.1, 0.9}},
		{Name: "epochs", Values: []float64{100, 200}},
	}

	combos := Combinations(params)

	// The first parameter varies slowest.
	want := []struct{ lr, epochs float64 }{
		{0.1, 100}, {0.1, 200}, {0.9, 100}, {0.9, 200},
	}

	if len(combos) != len(want) {
		t.Fatalf("got %d combinations, want %d", len(combos), len(want))
	}

	for i, w := range want {
		if combos[i].Values["learning_rate"] != w.lr || combos[i].Values["epochs"] != w.epochs {
			t.Errorf("combination %d = %v, want lr=%v epochs=%v", i, combos[i].Values, w.lr, w.epochs)
		}
	}
}

func TestCombinationsPreserveParameterOrder(t *testing.T) {
	params := []Parameter{
		{Name: "epochs", Values: []float64{100}},
		{Name: "learning_rate", Values: []float64{0.1}},
	}

	combos := Combinations(params)
	if len(combos) != 1 {
		t.Fatalf("got %d combinations, want 1", len(combos))
	}

	if combos[0].Names[0] != "epochs" || combos[0].Names[1] != "learning_rate" {
		t.Errorf("names = %v, want configured order", combos[0].Names)
	}
}
