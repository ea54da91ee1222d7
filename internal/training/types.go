package training

import "time"

type MetricDefinition struct {
	Name  string `json:"name"`
	Regex string `json:"regex"`
}

// ExperimentConfig links a training job to the tracking records it should
// report into.
type ExperimentConfig struct {
	ExperimentName            string `json:"experiment_name"`
	TrialName                 string `json:"trial_name"`
	TrialComponentDisplayName string `json:"trial_component_display_name"`
}

type InputData struct {
	TrainUri string `json:"train_uri"`
	TestUri  string `json:"test_uri"`
}

// JobConfig is consumed once per submission. JobName must be unique within
// the training service.
type JobConfig struct {
	JobName           string             `json:"job_name"`
	EntryPoint        string             `json:"entry_point"`
	FrameworkVersion  string             `json:"framework_version"`
	InstanceType      string             `json:"instance_type"`
	InstanceCount     int                `json:"instance_count"`
	Hyperparameters   map[string]float64 `json:"hyperparameters"`
	MetricDefinitions []MetricDefinition `json:"metric_definitions"`
	InputData         InputData          `json:"input_data"`
	Tags              map[string]string  `json:"tags,omitempty"`
	ExperimentConfig  ExperimentConfig   `json:"experiment_config"`
}

type JobSummary struct {
	JobName     string    `json:"job_name"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}
