package domain

// NetworkDefinition declares a currency network. It is read from YAML files
// or from API request bodies.
type NetworkDefinition struct {
	Name            string           `json:"name" yaml:"name" validate:"required,max=128"`
	TimeColumn      string           `json:"time_column" yaml:"time_column" validate:"required"`
	SkipNullObjects bool             `json:"skip_null_objects" yaml:"skip_null_objects"`
	Nodes           []NodeDefinition `json:"nodes" yaml:"nodes" validate:"required,min=1,max=1024,dive"`
}

// NodeDefinition declares one node. Only the fields relevant to Kind are
// read.
type NodeDefinition struct {
	Attribute string   `json:"attribute" yaml:"attribute" validate:"required"`
	Kind      string   `json:"kind" yaml:"kind" validate:"required,node_kind"`
	Parents   []string `json:"parents,omitempty" yaml:"parents,omitempty" validate:"omitempty,dive,required"`

	// shelf_life
	Hazard *HazardDefinition `json:"hazard,omitempty" yaml:"hazard,omitempty"`

	// dynamic_shelf_life
	InitialHazard float64 `json:"initial_hazard,omitempty" yaml:"initial_hazard,omitempty" validate:"omitempty,gt=0,lte=1"`
	Smoothing     float64 `json:"smoothing,omitempty" yaml:"smoothing,omitempty" validate:"gte=0,lte=1"`

	// conditional_shelf_life
	HazardTable []HazardTableEntry `json:"hazard_table,omitempty" yaml:"hazard_table,omitempty" validate:"omitempty,dive"`

	// data
	Prior map[string]float64 `json:"prior,omitempty" yaml:"prior,omitempty" validate:"omitempty,dive,gte=0,lte=1"`

	// cusum_poisson, cusum_normal
	CUSUM *CUSUMDefinition `json:"cusum,omitempty" yaml:"cusum,omitempty"`

	// aggregator
	Quantifier string `json:"quantifier,omitempty" yaml:"quantifier,omitempty"`
}

// HazardDefinition selects a hazard function for a shelf life node.
type HazardDefinition struct {
	Type        string  `json:"type" yaml:"type" validate:"required,oneof=constant weibull"`
	Probability float64 `json:"probability,omitempty" yaml:"probability,omitempty" validate:"gte=0,lte=1"`
	Scale       float64 `json:"scale,omitempty" yaml:"scale,omitempty" validate:"omitempty,gt=0"`
	Shape       float64 `json:"shape,omitempty" yaml:"shape,omitempty" validate:"omitempty,gt=0"`
}

// HazardTableEntry assigns a geometric parameter to one joint assignment of
// parent values.
type HazardTableEntry struct {
	When   map[string]any `json:"when" yaml:"when" validate:"required"`
	Hazard float64        `json:"hazard" yaml:"hazard" validate:"gte=0,lte=1"`
}

// CUSUMDefinition holds the hypotheses of a CUSUM node. Zero squash
// parameters default to 1.
type CUSUMDefinition struct {
	A float64 `json:"a,omitempty" yaml:"a,omitempty" validate:"gte=0"`
	B float64 `json:"b,omitempty" yaml:"b,omitempty" validate:"gte=0"`

	GroundRate      float64 `json:"ground_rate,omitempty" yaml:"ground_rate,omitempty"`
	AlternativeRate float64 `json:"alternative_rate,omitempty" yaml:"alternative_rate,omitempty"`

	GroundMean      float64 `json:"ground_mean,omitempty" yaml:"ground_mean,omitempty"`
	GroundStd       float64 `json:"ground_std,omitempty" yaml:"ground_std,omitempty"`
	AlternativeMean float64 `json:"alternative_mean,omitempty" yaml:"alternative_mean,omitempty"`
	AlternativeStd  float64 `json:"alternative_std,omitempty" yaml:"alternative_std,omitempty"`
}

// TableSource points at a stored table of observations.
type TableSource struct {
	Table      string   `json:"table" validate:"required,max=63"`
	TimeColumn string   `json:"time_column" validate:"required,max=63"`
	Columns    []string `json:"columns" validate:"required,min=1,dive,required,max=63"`
}
