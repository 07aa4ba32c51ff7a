package currency

// Redistribute advances dist by one step for a node whose tracked age is age.
//
// Every age moves up by one and age 0 starts empty. next is the model's
// updated belief that a reset has happened by now. When it exceeds the mass
// already held below age, the excess moves from age to age 0. dist is not
// modified.
func Redistribute(dist AgeDistribution, age int, next float64) AgeDistribution {
	return redistribute(dist.Clone(), age, next)
}

// redistribute is Redistribute working in the storage of dist.
func redistribute(dist AgeDistribution, age int, next float64) AgeDistribution {
	out := dist.shift().grow(age)

	var current float64
	for k := 0; k < age && k < len(out); k++ {
		current += out[k]
	}

	if next > current {
		out.moveToZero(age, next-current)
	}
	return out
}
