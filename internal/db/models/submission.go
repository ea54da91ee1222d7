package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type SubmissionStatus string

const (
	SubmissionStatusFailed    SubmissionStatus = "FAILED"
	SubmissionStatusSubmitted SubmissionStatus = "SUBMITTED"
)

// Submission is the local ledger record for one training job handed to the
// training service during a sweep.
type Submission struct {
	bun.BaseModel `bun:"table:submissions"`

	ID              uuid.UUID        `bun:",pk"`
	ExperimentName  string           `bun:",notnull"`
	TrialName       string           `bun:",notnull"`
	JobName         string           `bun:",unique,notnull"`
	RunNumber       int              `bun:",notnull"`
	Hyperparameters json.RawMessage  `bun:",type:jsonb,notnull"`
	Status          SubmissionStatus `bun:",notnull"`
	UpdatedAt       bun.NullTime     `bun:",nullzero,notnull,default:current_timestamp"`
	CreatedAt       bun.NullTime     `bun:",nullzero,notnull,default:current_timestamp"`
}

func NewSubmission(experimentName, trialName, jobName string, runNumber int, hyperparams json.RawMessage) *Submission {
	return &Submission{
		ID:              uuid.Must(uuid.NewRandom()),
		ExperimentName:  experimentName,
		TrialName:       trialName,
		JobName:         jobName,
		RunNumber:       runNumber,
		Hyperparameters: hyperparams,
		Status:          SubmissionStatusSubmitted,
	}
}
