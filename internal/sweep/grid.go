package sweep

// Parameter is one hyperparameter axis of the sweep.
type Parameter struct {
	Name   string
	Values []float64
}

// Combination is one point of the Cartesian product. Names preserves the
// configured parameter order, which the product iteration and job naming
// depend on.
type Combination struct {
	Names  []string
	Values map[string]float64
}

// Combinations enumerates the Cartesian product of the candidate values.
// The first parameter varies slowest. A parameter with no candidate values
// makes the product empty.
func Combinations(params []Parameter) []Combination {
	if len(params) == 0 {
		return nil
	}

	total := 1
	for _, p := range params {
		if len(p.Values) == 0 {
			return nil
		}
		total *= len(p.Values)
	}

	combos := make([]Combination, 0, total)
	idx := make([]int, len(params))

	for {
		names := make([]string, len(params))
		values := make(map[string]float64, len(params))
		for i, p := range params {
			names[i] = p.Name
			values[p.Name] = p.Values[idx[i]]
		}
		combos = append(combos, Combination{Names: names, Values: values})

		i := len(params) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(params[i].Values) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			break
		}
	}

	return combos
}
