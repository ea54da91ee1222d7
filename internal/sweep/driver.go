package sweep

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/driftml/sweep-runner/internal/config"
	"github.com/driftml/sweep-runner/internal/db/models"
	"github.com/driftml/sweep-runner/internal/db/repository"
	"github.com/driftml/sweep-runner/internal/tracking"
	"github.com/driftml/sweep-runner/internal/training"
	"go.uber.org/zap"
)

const trialComponentDisplayName = "Training"

// Driver runs a hyperparameter sweep: one trial and one training job per
// combination, submitted strictly one at a time. A failed submission aborts
// the remainder of the sweep.
type Driver struct {
	cfg         *config.Config
	tracking    *tracking.Client
	trainer     *training.Client
	submissions repository.ISubmissionRepository
	logger      *zap.Logger

	// Clock and Sleep are swapped out by tests.
	Clock func() time.Time
	Sleep func(time.Duration)
}

type Result struct {
	ExperimentName string
	TrialNames     []string
	JobNames       []string
}

func NewDriver(cfg *config.Config, trk *tracking.Client, trainer *training.Client, submissions repository.ISubmissionRepository, logger *zap.Logger) *Driver {
	return &Driver{
		cfg:         cfg,
		tracking:    trk,
		trainer:     trainer,
		submissions: submissions,
		logger:      logger,
		Clock:       time.Now,
		Sleep:       time.Sleep,
	}
}

// Run enumerates every combination of the configured hyperparameters and, for
// each one in order: creates a trial, builds a uniquely named job config
// referencing the staged train/test data, submits it, then pauses briefly so
// the submission API is not hammered. The pause is a courtesy, not a
// correctness requirement.
func (d *Driver) Run(ctx context.Context, trainUri, testUri string) (*Result, error) {
	sweepCfg := d.cfg.Sweep
	if sweepCfg == nil {
		return nil, fmt.Errorf("sweep config is not set")
	}

	exp, err := d.tracking.CreateOrLoadExperiment(ctx, sweepCfg.Experiment, sweepCfg.Description)
	if err != nil {
		return nil, err
	}

	params := make([]Parameter, 0, len(sweepCfg.Parameters))
	for _, p := range sweepCfg.Parameters {
		params = append(params, Parameter{Name: p.Name, Values: p.Values})
	}

	combos := Combinations(params)
	if len(combos) == 0 {
		return nil, fmt.Errorf("sweep has no hyperparameter combinations")
	}

	d.logger.Info("starting sweep",
		zap.String("experiment", exp.Name),
		zap.Int("combinations", len(combos)),
	)

	pause := time.Duration(sweepCfg.SubmitPauseSeconds) * time.Second
	result := &Result{ExperimentName: exp.Name}

	for i, combo := range combos {
		runNumber := i + 1
		jobName, trialName := BuildNames(sweepCfg.BaseJobName, combo, runNumber, d.Clock())

		trial := &tracking.Trial{
			Name:           trialName,
			ExperimentName: exp.Name,
			Description:    describeCombination(combo),
		}
		if _, err := d.tracking.CreateTrial(ctx, trial); err != nil {
			return result, err
		}

		job := training.JobConfig{
			JobName:          jobName,
			EntryPoint:       d.cfg.Training.EntryPoint,
			FrameworkVersion: d.cfg.Training.FrameworkVersion,
			InstanceType:     d.cfg.Training.InstanceType,
			InstanceCount:    d.cfg.Training.InstanceCount,
			Hyperparameters:  combo.Values,
			InputData:        training.InputData{TrainUri: trainUri, TestUri: testUri},
			Tags:             d.cfg.Training.Tags,
			ExperimentConfig: training.ExperimentConfig{
				ExperimentName:            exp.Name,
				TrialName:                 trialName,
				TrialComponentDisplayName: trialComponentDisplayName,
			},
		}
		for _, m := range d.cfg.Training.MetricDefinitions {
			job.MetricDefinitions = append(job.MetricDefinitions, training.MetricDefinition{Name: m.Name, Regex: m.Regex})
		}

		if _, err := d.trainer.SubmitJob(ctx, job); err != nil {
			d.record(ctx, exp.Name, trialName, jobName, runNumber, combo, models.SubmissionStatusFailed)
			return result, err
		}

		d.record(ctx, exp.Name, trialName, jobName, runNumber, combo, models.SubmissionStatusSubmitted)
		result.TrialNames = append(result.TrialNames, trialName)
		result.JobNames = append(result.JobNames, jobName)

		d.logger.Info("submitted training job",
			zap.String("job_name", jobName),
			zap.String("trial_name", trialName),
			zap.Int("run_number", runNumber),
		)

		d.Sleep(pause)
	}

	return result, nil
}

// record writes the ledger row. The ledger is advisory; a write failure must
// not fail the sweep.
func (d *Driver) record(ctx context.Context, experimentName, trialName, jobName string, runNumber int, combo Combination, status models.SubmissionStatus) {
	if d.submissions == nil {
		return
	}

	hyperparams, err := json.Marshal(combo.Values)
	if err != nil {
		return
	}

	submission := models.NewSubmission(experimentName, trialName, jobName, runNumber, hyperparams)
	submission.Status = status
	if _, err := d.submissions.Create(ctx, submission); err != nil {
		d.logger.Warn("failed to record submission", zap.String("job_name", jobName), zap.Error(err))
	}
}

func describeCombination(combo Combination) string {
	desc := "Training run with"
	for _, name := range combo.Names {
		desc += fmt.Sprintf(" %s=%s", name, FormatValue(combo.Values[name]))
	}
	return desc
}
