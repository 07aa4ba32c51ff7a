package currency

import "errors"

var (
	// ErrConfiguration marks an invalid node parameter, raised at construction.
	ErrConfiguration = errors.New("invalid node configuration")
	// ErrDependency marks a cyclic or unresolvable parent graph.
	ErrDependency = errors.New("unresolvable node dependencies")
	// ErrMissingAttribute marks a node attribute absent from the dataset schema.
	ErrMissingAttribute = errors.New("attribute not in dataset")
	// ErrNumericDomain marks an observation outside a likelihood model's domain.
	ErrNumericDomain = errors.New("value outside numeric domain")
)
