package stream

import (
	"time"

	"ai-curriculum-be/internal/entity"

	"github.com/google/uuid"
)

// SessionSink receives fold results as events reconstruct a session.
// Injected so the fold never touches ambient global state; implementations
// index live sessions or persist finished ones.
type SessionSink interface {
	Created(session *entity.ProcessingSession)
	Appended(session *entity.ProcessingSession, entry *entity.LogEntry)
	Terminated(session *entity.ProcessingSession)
}

// NopSink discards fold notifications.
type NopSink struct{}

func (NopSink) Created(*entity.ProcessingSession)                    {}
func (NopSink) Appended(*entity.ProcessingSession, *entity.LogEntry) {}
func (NopSink) Terminated(*entity.ProcessingSession)                 {}

// Folder applies decoded events to a ProcessingSession aggregate, one event
// at a time, in arrival order. It is shared by the byte-stream Consumer and
// by the producer-side handler that mirrors its own emissions into the live
// session index.
type Folder struct {
	sink     SessionSink
	session  *entity.ProcessingSession
	phase    string
	terminal bool
}

func NewFolder(sink SessionSink) *Folder {
	if sink == nil {
		sink = NopSink{}
	}
	return &Folder{sink: sink}
}

// Session returns the aggregate folded so far; nil before the first event.
func (f *Folder) Session() *entity.ProcessingSession {
	return f.session
}

// Terminal reports whether a complete or error event was folded. No event
// follows the terminal one.
func (f *Folder) Terminal() bool {
	return f.terminal
}

// Fold applies one event. Arrival order is authoritative; entries are never
// re-sorted by timestamp.
func (f *Folder) Fold(event *Event) {
	if f.terminal {
		return
	}
	if f.session == nil {
		f.session = &entity.ProcessingSession{StartedAt: time.Now()}
	}

	switch event.Type {
	case EventSessionStart:
		if id, err := uuid.Parse(event.SessionId); err == nil {
			f.session.Id = id
		}
		f.sink.Created(f.session)
		return
	case EventStats:
		f.session.Stats = event.Stats
		return
	case EventStatus:
		f.phase = event.Phase
	}

	entry := f.toLogEntry(event)
	f.session.Append(entry)
	f.sink.Appended(f.session, entry)

	switch event.Type {
	case EventComplete:
		now := time.Now()
		f.session.Syllabus = event.Syllabus
		f.session.ResearchReport = event.ResearchReport
		f.session.CompletedAt = &now
		f.terminal = true
		f.sink.Terminated(f.session)
	case EventError:
		// Failed sessions keep CompletedAt unset so history views can tell
		// "failed" from "finished".
		f.session.FailureMessage = event.Message
		f.terminal = true
		f.sink.Terminated(f.session)
	}
}

func (f *Folder) toLogEntry(event *Event) *entity.LogEntry {
	entry := &entity.LogEntry{
		Id:        uuid.New(),
		Phase:     f.phase,
		CreatedAt: time.Now(),
	}

	switch event.Type {
	case EventStatus:
		entry.Type = entity.LogStatus
		entry.Phase = event.Phase
		entry.Title = event.Title
		entry.Content = event.Message
	case EventThought:
		entry.Type = entity.LogThought
		entry.Title = event.Title
		entry.Content = event.Content
	case EventToolCall:
		entry.Type = entity.LogToolCall
		entry.Title = event.ToolName
		entry.Content = event.Description
	case EventSearch:
		entry.Type = entity.LogSearch
		entry.Title = event.Query
		entry.Content = event.Results
		entry.Metadata = map[string]string{"query": event.Query}
	case EventRead:
		entry.Type = entity.LogRead
		entry.Title = event.Source
		entry.Content = event.Preview
		entry.Metadata = map[string]string{"source": event.Source}
	case EventResearchOutput:
		entry.Type = entity.LogSection
		entry.Title = event.Section
		entry.Content = event.Content
	case EventStructuring:
		entry.Type = entity.LogStructuring
		entry.Content = event.Message
	case EventComplete:
		entry.Type = entity.LogComplete
		entry.Title = "Syllabus ready"
	case EventError:
		entry.Type = entity.LogError
		entry.Content = event.Message
	}
	return entry
}
