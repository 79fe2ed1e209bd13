package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Specification narrows a query. Repositories apply them in order.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

type ByProjectID struct {
	ProjectID uuid.UUID
}

func (s ByProjectID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("project_id = ?", s.ProjectID)
}

// CompletedOnly keeps sessions that reached the complete terminal event;
// failed sessions have no completion timestamp.
type CompletedOnly struct{}

func (CompletedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("completed_at IS NOT NULL")
}

// NewestFirst orders history views by start time. Log entries inside one
// session keep their arrival order regardless.
type NewestFirst struct{}

func (NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("started_at DESC")
}
