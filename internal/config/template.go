package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `
environment: dev
filesystem_type: local

db:
  driver: sqlite
  dsn: "file:%s?cache=shared"

dataset:
  url: "https://archive.ics.uci.edu/ml/machine-learning-databases/abalone/abalone.data"
  test_fraction: 0.33
  seed: 42
  key_prefix: "sweep-data"

tracking:
  base_url: "http://localhost:8930"
  timeout_seconds: 30

training:
  base_url: "http://localhost:8930"
  entry_point: "train.py"
  framework_version: "1.9"
  instance_type: "ml.m5.xlarge"
  instance_count: 1
  metric_definitions:
    - name: "train:mse"
      regex: "train mse: ([0-9\\.]+)"
    - name: "test:mse"
      regex: "test mse: ([0-9\\.]+)"
  tags:
    project: "sweep-demo"

sweep:
  experiment: "regression-sweep"
  description: "Hyperparameter sweep over a tabular regression model"
  base_job_name: "reg-sweep"
  sort_metric: "test:mse"
  label_params: ["learning_rate", "epochs"]
  parameters:
    - name: "learning_rate"
      values: [0.1, 0.5, 0.9]
    - name: "epochs"
      values: [100, 200]

# s3:
#   endpoint_url: "https://s3.us-east-1.amazonaws.com"
#   region_name: "us-east-1"
#   bucket_name: "my-sweep-bucket"
#   access_key: ""
#   secret_key: ""
`

// GetConfigTemplate renders the default config with paths resolved under the
// given sweep home, so the written file works without further editing.
func GetConfigTemplate(sweepHome string) string {
	return fmt.Sprintf(configTemplate, filepath.Join(sweepHome, "sweeprun.db"))
}

func WriteConfig(path, sweepHome string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(GetConfigTemplate(sweepHome))
	if err != nil {
		return err
	}

	return nil
}
