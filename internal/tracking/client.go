package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/driftml/sweep-runner/internal/config"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("tracking: not found")

// ErrStillAssociated is returned when the service refuses to delete a trial
// component because another trial still references it.
var ErrStillAssociated = errors.New("tracking: component still associated")

type Client struct {
	baseUrl string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(cfg *config.TrackingConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || cfg.BaseUrl == "" {
		return nil, fmt.Errorf("tracking config is not set")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseUrl: cfg.BaseUrl,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

func (c *Client) CreateExperiment(ctx context.Context, name, description string) (*Experiment, error) {
	in := Experiment{Name: name, Description: description}
	var out Experiment
	if err := c.do(ctx, http.MethodPost, "/api/v1/experiments", &in, &out); err != nil {
		return nil, fmt.Errorf("failed to create experiment %q: %w", name, err)
	}

	return &out, nil
}

func (c *Client) LoadExperiment(ctx context.Context, name string) (*Experiment, error) {
	var out Experiment
	if err := c.do(ctx, http.MethodGet, "/api/v1/experiments/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// CreateOrLoadExperiment loads the experiment when it already exists and
// creates it otherwise.
func (c *Client) CreateOrLoadExperiment(ctx context.Context, name, description string) (*Experiment, error) {
	exp, err := c.LoadExperiment(ctx, name)
	if err == nil {
		return exp, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return c.CreateExperiment(ctx, name, description)
}

func (c *Client) DeleteExperiment(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/experiments/"+url.PathEscape(name), nil, nil)
}

func (c *Client) CreateTrial(ctx context.Context, trial *Trial) (*Trial, error) {
	if trial == nil {
		return nil, fmt.Errorf("trial is nil")
	}

	var out Trial
	if err := c.do(ctx, http.MethodPost, "/api/v1/trials", trial, &out); err != nil {
		return nil, fmt.Errorf("failed to create trial %q: %w", trial.Name, err)
	}

	return &out, nil
}

func (c *Client) DeleteTrial(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/trials/"+url.PathEscape(name), nil, nil)
}

func (c *Client) ListTrials(ctx context.Context, experimentName string) ([]Trial, error) {
	var out struct {
		Trials []Trial `json:"trials"`
	}

	path := "/api/v1/experiments/" + url.PathEscape(experimentName) + "/trials"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	return out.Trials, nil
}

func (c *Client) ListTrialComponents(ctx context.Context, trialName string) ([]TrialComponent, error) {
	var out struct {
		Components []TrialComponent `json:"components"`
	}

	path := "/api/v1/trials/" + url.PathEscape(trialName) + "/components"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	return out.Components, nil
}

// DisassociateTrialComponent detaches the component from the trial without
// deleting either record.
func (c *Client) DisassociateTrialComponent(ctx context.Context, trialName, componentName string) error {
	path := "/api/v1/trials/" + url.PathEscape(trialName) +
		"/components/" + url.PathEscape(componentName) + "/disassociate"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) DeleteTrialComponent(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/components/"+url.PathEscape(name), nil, nil)
}

// Search returns the analytics table for the experiment, one row per trial
// component.
func (c *Client) Search(ctx context.Context, experimentName string) ([]ResultRow, error) {
	var out struct {
		Rows []ResultRow `json:"rows"`
	}

	path := "/api/v1/analytics?experiment=" + url.QueryEscape(experimentName)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	return out.Rows, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseUrl+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if c.logger != nil {
		c.logger.Debug("tracking request", zap.String("method", method), zap.String("path", path))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}

	message := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		message = payload.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrStillAssociated, message)
	}

	return fmt.Errorf("tracking service returned %d: %s", resp.StatusCode, message)
}
