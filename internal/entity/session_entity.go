package entity

import (
	"time"

	"github.com/google/uuid"
)

// LogEntryType is the closed taxonomy of progress log entries. The type tag
// decides which optional fields of a LogEntry carry meaning.
type LogEntryType string

const (
	LogStatus      LogEntryType = "status"
	LogThought     LogEntryType = "thought"
	LogToolCall    LogEntryType = "tool_call"
	LogSearch      LogEntryType = "search"
	LogRead        LogEntryType = "read"
	LogContent     LogEntryType = "content"
	LogSection     LogEntryType = "research_output"
	LogStructuring LogEntryType = "structuring"
	LogComplete    LogEntryType = "complete"
	LogError       LogEntryType = "error"
)

type LogEntry struct {
	Id        uuid.UUID
	Type      LogEntryType
	Phase     string
	Title     string
	Content   string
	Metadata  map[string]string
	CreatedAt time.Time
}

// SessionStats is the aggregate emitted just before the terminal event.
type SessionStats struct {
	SearchQueries     int   `json:"searchQueries"`
	DocumentsAnalyzed int   `json:"documentsAnalyzed"`
	ProcessingTimeMs  int64 `json:"processingTimeMs"`
}

// ProcessingSession is the consumer-side aggregate folded from stream events.
// Entries are append-only in arrival order; once CompletedAt is set the
// session is immutable.
type ProcessingSession struct {
	Id             uuid.UUID
	ProjectId      uuid.UUID
	Entries        []*LogEntry
	ResearchReport string
	Stats          *SessionStats
	Syllabus       *Syllabus
	FailureMessage string
	StartedAt      time.Time
	CompletedAt    *time.Time
}

func (s *ProcessingSession) Completed() bool { return s.CompletedAt != nil }

func (s *ProcessingSession) Failed() bool { return s.FailureMessage != "" }

// Append adds a log entry preserving arrival order. Completed sessions
// silently drop further entries.
func (s *ProcessingSession) Append(entry *LogEntry) {
	if s.Completed() {
		return
	}
	s.Entries = append(s.Entries, entry)
}
