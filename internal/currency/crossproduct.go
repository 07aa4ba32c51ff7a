package currency

import (
	"sort"

	"github.com/Harshitk-cp/currency/internal/domain"
)

// Assignment maps a parent attribute to one of its belief keys.
type Assignment map[string]string

// jointBelief is the independent joint distribution of several categorical
// parents, enumerated one assignment at a time.
type jointBelief struct {
	attributes []string
	keys       [][]string
	probs      [][]float64

	mask []int
	done bool
}

// newJointBelief orders parents by attribute and each belief by key. A
// parent without any belief makes the product empty.
func newJointBelief(beliefs map[string]map[string]float64) *jointBelief {
	j := &jointBelief{}
	for attr := range beliefs {
		j.attributes = append(j.attributes, attr)
	}
	sort.Strings(j.attributes)

	for _, attr := range j.attributes {
		b := beliefs[attr]
		keys := make([]string, 0, len(b))
		for k := range b {
			keys = append(keys, k)
		}
		domain.SortKeys(keys)
		probs := make([]float64, len(keys))
		for i, k := range keys {
			probs[i] = b[k]
		}
		if len(keys) == 0 {
			j.done = true
		}
		j.keys = append(j.keys, keys)
		j.probs = append(j.probs, probs)
	}
	j.mask = make([]int, len(j.attributes))
	return j
}

// next returns the following assignment with its joint probability. ok is
// false once the product is exhausted.
func (j *jointBelief) next() (Assignment, float64, bool) {
	if j.done {
		return nil, 0, false
	}

	a := make(Assignment, len(j.attributes))
	prior := 1.0
	for i, attr := range j.attributes {
		a[attr] = j.keys[i][j.mask[i]]
		prior *= j.probs[i][j.mask[i]]
	}
	j.advance()
	return a, prior, true
}

// advance increments the mask like an odometer, first attribute fastest.
func (j *jointBelief) advance() {
	for i := range j.mask {
		if j.mask[i] < len(j.keys[i])-1 {
			j.mask[i]++
			return
		}
		j.mask[i] = 0
	}
	j.done = true
}

// size returns the number of joint assignments.
func (j *jointBelief) size() int {
	n := 1
	for _, k := range j.keys {
		n *= len(k)
	}
	return n
}
