package currency

import "math"

// AgeDistribution maps a candidate age (the index) to its probability mass.
type AgeDistribution []float64

// certain returns the distribution that puts all mass on age 0.
func certain() AgeDistribution {
	return AgeDistribution{1.0}
}

// Mass returns the probability of age, zero outside the support.
func (d AgeDistribution) Mass(age int) float64 {
	if age < 0 || age >= len(d) {
		return 0
	}
	return d[age]
}

// Total returns the sum of all masses.
func (d AgeDistribution) Total() float64 {
	var sum float64
	for _, m := range d {
		sum += m
	}
	return sum
}

// Normalized reports whether masses are non-negative and sum to one within tol.
func (d AgeDistribution) Normalized(tol float64) bool {
	for _, m := range d {
		if m < -tol {
			return false
		}
	}
	return math.Abs(d.Total()-1) <= tol
}

// Clone returns a copy that does not share storage with d.
func (d AgeDistribution) Clone() AgeDistribution {
	if d == nil {
		return nil
	}
	out := make(AgeDistribution, len(d))
	copy(out, d)
	return out
}

// shift moves every mass one age up and inserts an empty age 0. It reuses
// the storage of d, so d must not be read afterwards.
func (d AgeDistribution) shift() AgeDistribution {
	d = append(d, 0)
	copy(d[1:], d[:len(d)-1])
	d[0] = 0
	return d
}

// grow extends d so that index age exists.
func (d AgeDistribution) grow(age int) AgeDistribution {
	if n := age + 1 - len(d); n > 0 {
		d = append(d, make(AgeDistribution, n)...)
	}
	return d
}

// reset returns a distribution with all mass on age, reusing the storage
// of d.
func (d AgeDistribution) reset(age int) AgeDistribution {
	d = d.grow(age)[:age+1]
	clear(d)
	d[age] = 1
	return d
}

// moveToZero moves up to amount of mass from age to age 0 and returns the
// amount actually moved. Mass is never taken below zero.
func (d AgeDistribution) moveToZero(age int, amount float64) float64 {
	if amount <= 0 || age <= 0 || age >= len(d) {
		return 0
	}
	if amount > d[age] {
		amount = d[age]
	}
	d[age] -= amount
	d[0] += amount
	return amount
}
