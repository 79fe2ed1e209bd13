package dto

import (
	"time"

	"github.com/google/uuid"

	"ai-curriculum-be/internal/entity"
)

// GenerateSyllabusRequest starts a streamed generation run. An empty locator
// list is rejected before any streaming begins.
type GenerateSyllabusRequest struct {
	DocumentLocators []string `json:"documentLocators" validate:"required,min=1,dive,required,url"`
	TitleHint        string   `json:"titleHint"`
	ProjectId        string   `json:"projectId"`
}

type SessionSummaryResponse struct {
	Id             uuid.UUID            `json:"id"`
	ProjectId      uuid.UUID            `json:"project_id"`
	SyllabusTitle  string               `json:"syllabus_title,omitempty"`
	FailureMessage string               `json:"failure_message,omitempty"`
	Stats          *entity.SessionStats `json:"stats,omitempty"`
	StartedAt      time.Time            `json:"started_at"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty"`
}

type SessionLogEntryResponse struct {
	Id        uuid.UUID         `json:"id"`
	Type      string            `json:"type"`
	Phase     string            `json:"phase,omitempty"`
	Title     string            `json:"title,omitempty"`
	Content   string            `json:"content,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type ShowSessionResponse struct {
	Id             uuid.UUID                  `json:"id"`
	ProjectId      uuid.UUID                  `json:"project_id"`
	Entries        []*SessionLogEntryResponse `json:"entries"`
	ResearchReport string                     `json:"research_report,omitempty"`
	Stats          *entity.SessionStats       `json:"stats,omitempty"`
	Syllabus       *entity.Syllabus           `json:"syllabus,omitempty"`
	FailureMessage string                     `json:"failure_message,omitempty"`
	StartedAt      time.Time                  `json:"started_at"`
	CompletedAt    *time.Time                 `json:"completed_at,omitempty"`
}

// SessionArchivedMessage crosses the internal bus from the SSE handler to the
// archiver once a terminal event was observed.
type SessionArchivedMessage struct {
	SessionId uuid.UUID `json:"session_id"`
}
