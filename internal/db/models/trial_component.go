package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ComponentStatus string

const (
	ComponentStatusFailed    ComponentStatus = "FAILED"
	ComponentStatusRunning   ComponentStatus = "IN_PROGRESS"
	ComponentStatusCompleted ComponentStatus = "COMPLETED"
)

// TrialComponent records the parameters and metrics of one training job run.
// TrialName is empty once the component has been disassociated.
type TrialComponent struct {
	bun.BaseModel `bun:"table:trial_components"`

	ID          uuid.UUID       `bun:",pk"`
	Name        string          `bun:",unique,notnull"`
	DisplayName string          `bun:",notnull"`
	TrialName   string          `bun:",nullzero"`
	Parameters  json.RawMessage `bun:",type:jsonb,nullzero"`
	Metrics     json.RawMessage `bun:",type:jsonb,nullzero"`
	Status      ComponentStatus `bun:",notnull"`
	UpdatedAt   bun.NullTime    `bun:",nullzero,notnull,default:current_timestamp"`
	CreatedAt   bun.NullTime    `bun:",nullzero,notnull,default:current_timestamp"`
}
