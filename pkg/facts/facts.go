package facts

import "math/rand/v2"

// Default is the built-in list of space facts
var Default = []string{
	"Neutron stars can spin 600+ times per second.",
	"Venus rotates backward—its day is longer than its year.",
	"Jupiter’s Great Red Spot is a storm larger than Earth.",
	"A day on Mercury has two sunrises.",
	"There are more trees on Earth than stars in the Milky Way (best estimates say ~3T vs. 100–400B).",
}

const prefix = "Did you know? "

// Random returns one of the facts, chosen uniformly, ready for display.
// An empty list falls back to Default.
func Random(list []string) string {
	if len(list) == 0 {
		list = Default
	}
	return prefix + list[rand.IntN(len(list))]
}
