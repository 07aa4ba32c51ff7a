// Package currency estimates how current the tracked attributes of a
// time-indexed dataset are.
//
// Every node runs a two-phase update per integer time step: UpdateState
// absorbs the step's observation, UpdateBelief recomputes a distribution over
// the age since the last true change. A Network orders nodes so parents are
// always advanced before their children within the same step and collects
// each age-tracking node's Currency, the probability mass at the
// deterministically tracked age.
//
// Node families:
//
//   - AgeNode and DataNode track observed values directly.
//   - ShelfLife, DynamicShelfLife and ConditionalShelfLife apply a hazard
//     (survival) recursion.
//   - CUSUM detects change-points with a Poisson or Normal log-likelihood
//     ratio.
//   - Aggregator combines the change probabilities of its parents through a
//     fuzzy quantifier.
//
// A Network is not safe for concurrent use.
package currency
