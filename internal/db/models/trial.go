package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Trial struct {
	bun.BaseModel `bun:"table:trials"`

	ID             uuid.UUID       `bun:",pk"`
	Name           string          `bun:",unique,notnull"`
	ExperimentName string          `bun:",notnull"`
	Description    string          `bun:",nullzero"`
	Tags           json.RawMessage `bun:",type:jsonb,nullzero"`
	UpdatedAt      bun.NullTime    `bun:",nullzero,notnull,default:current_timestamp"`
	CreatedAt      bun.NullTime    `bun:",nullzero,notnull,default:current_timestamp"`
}
