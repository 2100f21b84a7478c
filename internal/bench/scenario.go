package bench

import (
	"fmt"
	"slices"
	"strings"
)

// Scenario is one timed pass over a list of inputs.
type Scenario struct {
	Name string
	// Clear empties the table before the pass.
	Clear bool
	// Inputs builds the pass's inputs from the dataset.
	Inputs func(ds Dataset, iterations int) [][]byte
}

func addresses(ds Dataset, _ int) [][]byte { return ds.Addresses }
func words(ds Dataset, _ int) [][]byte     { return ds.Words }

// Scenarios returns the built-in scenarios in their default order. A warm
// pass relies on the cold pass of the same size class running right before it.
func Scenarios() []Scenario {
	return []Scenario{
		{Name: "cold-20", Clear: true, Inputs: addresses},
		{Name: "warm-20", Inputs: addresses},
		{Name: "cold-32", Clear: true, Inputs: words},
		{Name: "warm-32", Inputs: words},
		{Name: "mixed", Clear: true, Inputs: MixedWorkload},
	}
}

// ScenarioNames lists the names accepted by [Select].
func ScenarioNames() []string {
	all := Scenarios()
	names := make([]string, len(all))

	for i, s := range all {
		names[i] = s.Name
	}

	return names
}

// Select returns the named scenarios in default order. No names selects all.
// Asking for a warm scenario also runs its cold counterpart first.
func Select(names []string) ([]Scenario, error) {
	all := Scenarios()
	if len(names) == 0 {
		return all, nil
	}

	want := make(map[string]bool, len(names))

	for _, name := range names {
		if !slices.Contains(ScenarioNames(), name) {
			return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScenario, name, strings.Join(ScenarioNames(), ", "))
		}

		want[name] = true

		if cold, ok := strings.CutPrefix(name, "warm-"); ok {
			want["cold-"+cold] = true
		}
	}

	selected := make([]Scenario, 0, len(want))

	for _, s := range all {
		if want[s.Name] {
			selected = append(selected, s)
		}
	}

	return selected, nil
}
