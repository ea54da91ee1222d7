package models

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Experiment is the serve-mode record backing a tracking-service experiment.
type Experiment struct {
	bun.BaseModel `bun:"table:experiments"`

	ID          uuid.UUID    `bun:",pk"`
	Name        string       `bun:",unique,notnull"`
	Description string       `bun:",nullzero"`
	UpdatedAt   bun.NullTime `bun:",nullzero,notnull,default:current_timestamp"`
	CreatedAt   bun.NullTime `bun:",nullzero,notnull,default:current_timestamp"`
}
