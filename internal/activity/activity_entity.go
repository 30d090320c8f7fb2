package activity

import (
	"time"

	"github.com/google/uuid"
)

// Log is an append-only audit entry. Rows are never updated or deleted.
type Log struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Action      string    `gorm:"type:varchar(50);not null"`
	Description string    `gorm:"type:text"`

	RelatedEntityType *string `gorm:"type:varchar(30)"`
	RelatedEntityID   *uuid.UUID

	CreatedAt time.Time
}
