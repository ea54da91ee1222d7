package tracking

import "time"

// Experiment, Trial and TrialComponent are handles to records owned by the
// tracking service. The authoritative state lives remotely; these structs only
// carry identifiers and whatever the service returned with them.

type Experiment struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type Trial struct {
	Name           string            `json:"name"`
	ExperimentName string            `json:"experiment_name"`
	Description    string            `json:"description,omitempty"`
	Tags           map[string]string `json:"tags,omitempty"`
	CreatedAt      time.Time         `json:"created_at,omitempty"`
}

type Metric struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}

type TrialComponent struct {
	Name        string             `json:"name"`
	DisplayName string             `json:"display_name"`
	TrialName   string             `json:"trial_name,omitempty"`
	Parameters  map[string]float64 `json:"parameters,omitempty"`
	Metrics     []Metric           `json:"metrics,omitempty"`
	Status      string             `json:"status,omitempty"`
}

// ResultRow is one row of the analytics query result: one trial component with
// its recorded hyperparameters and final metric values.
type ResultRow struct {
	TrialName   string             `json:"trial_name"`
	Component   string             `json:"component_name"`
	DisplayName string             `json:"display_name"`
	Parameters  map[string]float64 `json:"parameters"`
	Metrics     map[string]float64 `json:"metrics"`
}
