package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"
	"time"

	"github.com/driftml/sweep-runner/internal/db/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	store  *Store
	logger *zap.Logger
}

func NewHandlers(store *Store, logger *zap.Logger) *Handlers {
	return &Handlers{store: store, logger: logger}
}

type experimentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handlers) CreateExperiment(c *gin.Context) {
	var req experimentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "experiment name is required"})
		return
	}

	experiment, err := h.store.CreateExperiment(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, experimentJSON(experiment))
}

func (h *Handlers) GetExperiment(c *gin.Context) {
	experiment, err := h.store.GetExperiment(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, experimentJSON(experiment))
}

func (h *Handlers) DeleteExperiment(c *gin.Context) {
	if err := h.store.DeleteExperiment(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handlers) ListTrials(c *gin.Context) {
	trials, err := h.store.ListTrials(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(trials))
	for i := range trials {
		row, err := trialJSON(&trials[i])
		if err != nil {
			respondError(c, err)
			return
		}
		out = append(out, row)
	}

	c.JSON(http.StatusOK, gin.H{"trials": out})
}

type trialRequest struct {
	Name           string            `json:"name"`
	ExperimentName string            `json:"experiment_name"`
	Description    string            `json:"description"`
	Tags           map[string]string `json:"tags"`
}

func (h *Handlers) CreateTrial(c *gin.Context) {
	var req trialRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.ExperimentName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trial name and experiment name are required"})
		return
	}

	trial, err := h.store.CreateTrial(c.Request.Context(), req.Name, req.ExperimentName, req.Description, req.Tags)
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := trialJSON(trial)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, out)
}

func (h *Handlers) DeleteTrial(c *gin.Context) {
	if err := h.store.DeleteTrial(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handlers) ListTrialComponents(c *gin.Context) {
	components, err := h.store.ListTrialComponents(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(components))
	for i := range components {
		row, err := componentJSON(&components[i])
		if err != nil {
			respondError(c, err)
			return
		}
		out = append(out, row)
	}

	c.JSON(http.StatusOK, gin.H{"components": out})
}

func (h *Handlers) DisassociateTrialComponent(c *gin.Context) {
	err := h.store.DisassociateTrialComponent(c.Request.Context(), c.Param("name"), c.Param("component"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "disassociated"})
}

func (h *Handlers) DeleteTrialComponent(c *gin.Context) {
	if err := h.store.DeleteTrialComponent(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handlers) Analytics(c *gin.Context) {
	experimentName := c.Query("experiment")
	if experimentName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "experiment query parameter is required"})
		return
	}

	rows, err := h.store.Analytics(c.Request.Context(), experimentName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

type trainingJobRequest struct {
	JobName           string             `json:"job_name"`
	Hyperparameters   map[string]float64 `json:"hyperparameters"`
	MetricDefinitions []struct {
		Name  string `json:"name"`
		Regex string `json:"regex"`
	} `json:"metric_definitions"`
	ExperimentConfig struct {
		ExperimentName            string `json:"experiment_name"`
		TrialName                 string `json:"trial_name"`
		TrialComponentDisplayName string `json:"trial_component_display_name"`
	} `json:"experiment_config"`
}

// SubmitTrainingJob stands in for the managed training service. It does not
// train anything: it records a trial component for the job, with metric values
// synthesized deterministically from the job name so results queries have
// something to compare.
func (h *Handlers) SubmitTrainingJob(c *gin.Context) {
	var req trainingJobRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.JobName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job name is required"})
		return
	}

	if req.ExperimentConfig.TrialName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "experiment config is required"})
		return
	}

	if _, err := h.store.GetExperiment(c.Request.Context(), req.ExperimentConfig.ExperimentName); err != nil {
		respondError(c, err)
		return
	}

	parameters, err := json.Marshal(req.Hyperparameters)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hyperparameters"})
		return
	}

	metrics := make(map[string]float64, len(req.MetricDefinitions))
	for _, def := range req.MetricDefinitions {
		metrics[def.Name] = syntheticMetric(req.JobName, def.Name)
	}
	encodedMetrics, err := json.Marshal(metrics)
	if err != nil {
		respondError(c, err)
		return
	}

	component := &models.TrialComponent{
		Name:        req.JobName,
		DisplayName: req.ExperimentConfig.TrialComponentDisplayName,
		TrialName:   req.ExperimentConfig.TrialName,
		Parameters:  parameters,
		Metrics:     encodedMetrics,
		Status:      models.ComponentStatusCompleted,
	}
	if _, err := h.store.CreateTrialComponent(c.Request.Context(), component); err != nil {
		respondError(c, err)
		return
	}

	h.logger.Info("accepted training job",
		zap.String("job_name", req.JobName),
		zap.String("trial_name", req.ExperimentConfig.TrialName),
	)

	c.JSON(http.StatusCreated, gin.H{
		"job_name":     req.JobName,
		"status":       string(models.ComponentStatusCompleted),
		"submitted_at": time.Now().UTC(),
	})
}

func syntheticMetric(jobName, metricName string) float64 {
	hash := fnv.New64a()
	hash.Write([]byte(jobName))
	hash.Write([]byte(metricName))
	return float64(hash.Sum64()%10000) / 10000
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, ErrNotFound) {
		status = http.StatusNotFound
	} else if errors.Is(err, ErrConflict) {
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func experimentJSON(experiment *models.Experiment) gin.H {
	return gin.H{
		"name":        experiment.Name,
		"description": experiment.Description,
		"created_at":  experiment.CreatedAt.Time,
	}
}

func trialJSON(trial *models.Trial) (gin.H, error) {
	tags := map[string]string{}
	if len(trial.Tags) > 0 {
		if err := json.Unmarshal(trial.Tags, &tags); err != nil {
			return nil, fmt.Errorf("trial %q has corrupt tags: %w", trial.Name, err)
		}
	}

	return gin.H{
		"name":            trial.Name,
		"experiment_name": trial.ExperimentName,
		"description":     trial.Description,
		"tags":            tags,
		"created_at":      trial.CreatedAt.Time,
	}, nil
}

func componentJSON(component *models.TrialComponent) (gin.H, error) {
	parameters := map[string]float64{}
	if len(component.Parameters) > 0 {
		if err := json.Unmarshal(component.Parameters, &parameters); err != nil {
			return nil, fmt.Errorf("component %q has corrupt parameters: %w", component.Name, err)
		}
	}

	metricValues := map[string]float64{}
	if len(component.Metrics) > 0 {
		if err := json.Unmarshal(component.Metrics, &metricValues); err != nil {
			return nil, fmt.Errorf("component %q has corrupt metrics: %w", component.Name, err)
		}
	}

	metrics := make([]gin.H, 0, len(metricValues))
	for name, value := range metricValues {
		metrics = append(metrics, gin.H{
			"name":      name,
			"value":     value,
			"timestamp": component.UpdatedAt.Time.UnixMilli(),
		})
	}

	return gin.H{
		"name":         component.Name,
		"display_name": component.DisplayName,
		"trial_name":   component.TrialName,
		"parameters":   parameters,
		"metrics":      metrics,
		"status":       string(component.Status),
	}, nil
}
