package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProcessingSession is the persisted form of a finished (or failed) run.
// The syllabus and stats are stored as JSON snapshots: history views render
// them verbatim and never query inside the tree.
type ProcessingSession struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ProjectId      uuid.UUID      `gorm:"type:uuid;index"`
	ResearchReport string         `gorm:"type:text"`
	Stats          datatypes.JSON `gorm:"type:jsonb"`
	Syllabus       datatypes.JSON `gorm:"type:jsonb"`
	FailureMessage string         `gorm:"type:text"`
	StartedAt      time.Time
	CompletedAt    *time.Time

	Entries []SessionLogEntry `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
}

// SessionLogEntry preserves arrival order through the Position column; the
// repository always loads entries ordered by it, never by timestamp.
type SessionLogEntry struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId uuid.UUID      `gorm:"type:uuid;index:idx_session_entries_session_position,priority:1"`
	Position  int            `gorm:"index:idx_session_entries_session_position,priority:2"`
	Type      string         `gorm:"type:varchar(32);not null"`
	Phase     string         `gorm:"type:varchar(32)"`
	Title     string         `gorm:"type:text"`
	Content   string         `gorm:"type:text"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
}
