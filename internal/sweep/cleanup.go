package sweep

import (
	"context"
	"time"

	"github.com/driftml/sweep-runner/internal/tracking"
	"go.uber.org/zap"
)

// Cleaner tears an experiment down best-effort: components are detached and
// deleted first, then trials, then the experiment itself. A component whose
// deletion fails is assumed to still be referenced by another trial and is
// skipped rather than aborting the teardown.
type Cleaner struct {
	tracking *tracking.Client
	logger   *zap.Logger
	pause    time.Duration

	Sleep func(time.Duration)
}

func NewCleaner(trk *tracking.Client, logger *zap.Logger, pause time.Duration) *Cleaner {
	return &Cleaner{
		tracking: trk,
		logger:   logger,
		pause:    pause,
		Sleep:    time.Sleep,
	}
}

func (c *Cleaner) Run(ctx context.Context, experimentName string) error {
	trials, err := c.tracking.ListTrials(ctx, experimentName)
	if err != nil {
		return err
	}

	for _, trial := range trials {
		components, err := c.tracking.ListTrialComponents(ctx, trial.Name)
		if err != nil {
			return err
		}

		for _, component := range components {
			if err := c.tracking.DisassociateTrialComponent(ctx, trial.Name, component.Name); err != nil {
				return err
			}

			if err := c.tracking.DeleteTrialComponent(ctx, component.Name); err != nil {
				c.logger.Warn("trial component still associated, skipping delete",
					zap.String("component", component.Name),
					zap.Error(err),
				)
			}

			// Pause between deletions so we do not trip the service's rate limits.
			c.Sleep(c.pause)
		}

		if err := c.tracking.DeleteTrial(ctx, trial.Name); err != nil {
			return err
		}

		c.logger.Info("deleted trial", zap.String("trial", trial.Name))
	}

	if err := c.tracking.DeleteExperiment(ctx, experimentName); err != nil {
		return err
	}

	c.logger.Info("deleted experiment", zap.String("experiment", experimentName))
	return nil
}
