package repository

import (
	"context"
	"fmt"

	"github.com/driftml/sweep-runner/internal/db/models"
	"github.com/uptrace/bun"
)

type ISubmissionRepository interface {
	WithTx(tx *bun.Tx) ISubmissionRepository
	WithDB(db *bun.DB) ISubmissionRepository
	Create(ctx context.Context, submission *models.Submission) (*models.Submission, error)
	GetByJobName(ctx context.Context, jobName string) (*models.Submission, error)
	ListByExperiment(ctx context.Context, experimentName string) ([]models.Submission, error)
	UpdateStatusByJobName(ctx context.Context, jobName string, status models.SubmissionStatus) error
	DeleteByExperiment(ctx context.Context, experimentName string) error
}

type SubmissionRepository struct {
	db bun.IDB
}

func NewSubmissionRepository(db *bun.DB) ISubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	if submission == nil {
		return nil, fmt.Errorf("submission model is nil")
	}

	if err := r.db.NewInsert().Model(submission).Returning("*").Scan(ctx); err != nil {
		return nil, err
	}

	return submission, nil
}

func (r *SubmissionRepository) GetByJobName(ctx context.Context, jobName string) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.NewSelect().Model(&submission).Where("job_name = ?", jobName).Scan(ctx); err != nil {
		return nil, err
	}

	return &submission, nil
}

func (r *SubmissionRepository) ListByExperiment(ctx context.Context, experimentName string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.NewSelect().
		Model(&submissions).
		Where("experiment_name = ?", experimentName).
		Order("run_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *SubmissionRepository) UpdateStatusByJobName(ctx context.Context, jobName string, status models.SubmissionStatus) error {
	_, err := r.db.NewUpdate().
		Model(&models.Submission{}).
		Where("job_name = ?", jobName).
		Set("status = ?", status).
		Exec(ctx)
	return err
}

func (r *SubmissionRepository) DeleteByExperiment(ctx context.Context, experimentName string) error {
	_, err := r.db.NewDelete().
		Model(&models.Submission{}).
		Where("experiment_name = ?", experimentName).
		Exec(ctx)
	return err
}

func (r *SubmissionRepository) WithTx(tx *bun.Tx) ISubmissionRepository {
	return &SubmissionRepository{db: tx}
}

func (r *SubmissionRepository) WithDB(db *bun.DB) ISubmissionRepository {
	return &SubmissionRepository{db: db}
}
