package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/driftml/sweep-runner/internal/db/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflict")
)

// Store backs the serve-mode tracking API with the local database.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateExperiment(ctx context.Context, name, description string) (*models.Experiment, error) {
	exists, err := s.db.NewSelect().Model((*models.Experiment)(nil)).Where("name = ?", name).Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: experiment %q already exists", ErrConflict, name)
	}

	experiment := &models.Experiment{
		ID:          uuid.Must(uuid.NewRandom()),
		Name:        name,
		Description: description,
	}
	if err := s.db.NewInsert().Model(experiment).Returning("*").Scan(ctx); err != nil {
		return nil, err
	}

	return experiment, nil
}

func (s *Store) GetExperiment(ctx context.Context, name string) (*models.Experiment, error) {
	var experiment models.Experiment
	if err := s.db.NewSelect().Model(&experiment).Where("name = ?", name).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: experiment %q", ErrNotFound, name)
		}
		return nil, err
	}

	return &experiment, nil
}

// DeleteExperiment refuses to delete an experiment that still has trials.
func (s *Store) DeleteExperiment(ctx context.Context, name string) error {
	if _, err := s.GetExperiment(ctx, name); err != nil {
		return err
	}

	hasTrials, err := s.db.NewSelect().Model((*models.Trial)(nil)).Where("experiment_name = ?", name).Exists(ctx)
	if err != nil {
		return err
	}
	if hasTrials {
		return fmt.Errorf("%w: experiment %q still has trials", ErrConflict, name)
	}

	_, err = s.db.NewDelete().Model((*models.Experiment)(nil)).Where("name = ?", name).Exec(ctx)
	return err
}

func (s *Store) CreateTrial(ctx context.Context, name, experimentName, description string, tags map[string]string) (*models.Trial, error) {
	if _, err := s.GetExperiment(ctx, experimentName); err != nil {
		return nil, err
	}

	exists, err := s.db.NewSelect().Model((*models.Trial)(nil)).Where("name = ?", name).Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: trial %q already exists", ErrConflict, name)
	}

	trial := &models.Trial{
		ID:             uuid.Must(uuid.NewRandom()),
		Name:           name,
		ExperimentName: experimentName,
		Description:    description,
	}
	if len(tags) > 0 {
		encoded, err := json.Marshal(tags)
		if err != nil {
			return nil, err
		}
		trial.Tags = encoded
	}

	if err := s.db.NewInsert().Model(trial).Returning("*").Scan(ctx); err != nil {
		return nil, err
	}

	return trial, nil
}

func (s *Store) DeleteTrial(ctx context.Context, name string) error {
	hasComponents, err := s.db.NewSelect().Model((*models.TrialComponent)(nil)).Where("trial_name = ?", name).Exists(ctx)
	if err != nil {
		return err
	}
	if hasComponents {
		return fmt.Errorf("%w: trial %q still has associated components", ErrConflict, name)
	}

	result, err := s.db.NewDelete().Model((*models.Trial)(nil)).Where("name = ?", name).Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: trial %q", ErrNotFound, name)
	}

	return nil
}

func (s *Store) ListTrials(ctx context.Context, experimentName string) ([]models.Trial, error) {
	if _, err := s.GetExperiment(ctx, experimentName); err != nil {
		return nil, err
	}

	var trials []models.Trial
	err := s.db.NewSelect().
		Model(&trials).
		Where("experiment_name = ?", experimentName).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return trials, nil
}

func (s *Store) ListTrialComponents(ctx context.Context, trialName string) ([]models.TrialComponent, error) {
	var components []models.TrialComponent
	err := s.db.NewSelect().
		Model(&components).
		Where("trial_name = ?", trialName).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return components, nil
}

func (s *Store) CreateTrialComponent(ctx context.Context, component *models.TrialComponent) (*models.TrialComponent, error) {
	if component.ID == uuid.Nil {
		component.ID = uuid.Must(uuid.NewRandom())
	}

	if err := s.db.NewInsert().Model(component).Returning("*").Scan(ctx); err != nil {
		return nil, err
	}

	return component, nil
}

func (s *Store) DisassociateTrialComponent(ctx context.Context, trialName, componentName string) error {
	result, err := s.db.NewUpdate().
		Model((*models.TrialComponent)(nil)).
		Where("name = ? AND trial_name = ?", componentName, trialName).
		Set("trial_name = NULL").
		Exec(ctx)
	if err != nil {
		return err
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: component %q is not associated with trial %q", ErrNotFound, componentName, trialName)
	}

	return nil
}

// DeleteTrialComponent fails while the component is still associated with a
// trial. Callers are expected to disassociate first.
func (s *Store) DeleteTrialComponent(ctx context.Context, name string) error {
	var component models.TrialComponent
	if err := s.db.NewSelect().Model(&component).Where("name = ?", name).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: component %q", ErrNotFound, name)
		}
		return err
	}

	if component.TrialName != "" {
		return fmt.Errorf("%w: component %q is still associated with trial %q", ErrConflict, name, component.TrialName)
	}

	_, err := s.db.NewDelete().Model((*models.TrialComponent)(nil)).Where("name = ?", name).Exec(ctx)
	return err
}

// Analytics joins trials and components into one row per component for the
// experiment.
func (s *Store) Analytics(ctx context.Context, experimentName string) ([]AnalyticsRow, error) {
	trials, err := s.ListTrials(ctx, experimentName)
	if err != nil {
		return nil, err
	}

	rows := make([]AnalyticsRow, 0)
	for _, trial := range trials {
		components, err := s.ListTrialComponents(ctx, trial.Name)
		if err != nil {
			return nil, err
		}

		for _, component := range components {
			row := AnalyticsRow{
				TrialName:   trial.Name,
				Component:   component.Name,
				DisplayName: component.DisplayName,
				Parameters:  map[string]float64{},
				Metrics:     map[string]float64{},
			}

			if len(component.Parameters) > 0 {
				if err := json.Unmarshal(component.Parameters, &row.Parameters); err != nil {
					return nil, err
				}
			}
			if len(component.Metrics) > 0 {
				if err := json.Unmarshal(component.Metrics, &row.Metrics); err != nil {
					return nil, err
				}
			}

			rows = append(rows, row)
		}
	}

	return rows, nil
}

type AnalyticsRow struct {
	TrialName   string             `json:"trial_name"`
	Component   string             `json:"component_name"`
	DisplayName string             `json:"display_name"`
	Parameters  map[string]float64 `json:"parameters"`
	Metrics     map[string]float64 `json:"metrics"`
}
