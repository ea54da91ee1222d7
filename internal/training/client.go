package training

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/driftml/sweep-runner/internal/config"
	"go.uber.org/zap"
)

type Client struct {
	baseUrl string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(cfg *config.TrainingConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || cfg.BaseUrl == "" {
		return nil, fmt.Errorf("training config is not set")
	}

	return &Client{
		baseUrl: cfg.BaseUrl,
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}, nil
}

// SubmitJob hands the job to the training service and blocks until the
// submission is accepted or rejected. It does not wait for the job to finish.
func (c *Client) SubmitJob(ctx context.Context, job JobConfig) (*JobSummary, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job config: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/api/v1/training-jobs", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	if c.logger != nil {
		c.logger.Info("submitting training job", zap.String("job_name", job.JobName))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit training job %q: %w", job.JobName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		message := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			message = apiErr.Error
		}
		return nil, fmt.Errorf("training service rejected job %q: %s", job.JobName, message)
	}

	var summary JobSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode job summary: %w", err)
	}

	return &summary, nil
}
