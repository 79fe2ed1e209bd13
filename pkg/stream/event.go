// Package stream defines the event taxonomy and wire framing shared between
// the generation pipeline (producer) and any client reconstructing a session
// from the byte stream (consumer). One frame carries exactly one event; the
// "type" field discriminates the union.
package stream

import "ai-curriculum-be/internal/entity"

type EventType string

const (
	EventSessionStart   EventType = "session_start"
	EventStatus         EventType = "status"
	EventThought        EventType = "thought"
	EventToolCall       EventType = "tool_call"
	EventSearch         EventType = "search"
	EventRead           EventType = "read"
	EventResearchOutput EventType = "research_output"
	EventStructuring    EventType = "structuring"
	EventStats          EventType = "stats"
	EventComplete       EventType = "complete"
	EventError          EventType = "error"
)

// Phase labels carried in status events.
const (
	PhaseFetching         = "fetching"
	PhaseDocumentsLoaded  = "documents_loaded"
	PhaseResearching      = "researching"
	PhaseResearchComplete = "research_complete"
	PhaseFallback         = "fallback"
	PhaseStructuring      = "structuring"
)

// Event is the wire-level tagged union. Only the fields meaningful for the
// event's Type are populated; everything else is omitted on the wire.
type Event struct {
	Type EventType `json:"type"`

	SessionId string `json:"sessionId,omitempty"`

	Phase   string `json:"phase,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
	Content string `json:"content,omitempty"`

	ToolName    string `json:"toolName,omitempty"`
	Description string `json:"description,omitempty"`

	Query   string `json:"query,omitempty"`
	Results string `json:"results,omitempty"`

	Source  string `json:"source,omitempty"`
	Preview string `json:"preview,omitempty"`

	Section string `json:"section,omitempty"`

	Stats          *entity.SessionStats `json:"stats,omitempty"`
	Syllabus       *entity.Syllabus     `json:"syllabus,omitempty"`
	ResearchReport string               `json:"researchReport,omitempty"`
}

// Terminal reports whether the event ends the session. Exactly one terminal
// event is emitted per session and nothing follows it.
func (e *Event) Terminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

func NewSessionStart(sessionId string) *Event {
	return &Event{Type: EventSessionStart, SessionId: sessionId}
}

func NewStatus(phase, title, message string) *Event {
	return &Event{Type: EventStatus, Phase: phase, Title: title, Message: message}
}

func NewThought(title, content string) *Event {
	return &Event{Type: EventThought, Title: title, Content: content}
}

func NewToolCall(toolName, description string) *Event {
	return &Event{Type: EventToolCall, ToolName: toolName, Description: description}
}

func NewSearch(query, results string) *Event {
	return &Event{Type: EventSearch, Query: query, Results: results}
}

func NewRead(source, preview string) *Event {
	return &Event{Type: EventRead, Source: source, Preview: preview}
}

func NewResearchOutput(section, content string) *Event {
	return &Event{Type: EventResearchOutput, Section: section, Content: content}
}

func NewStructuring(message string) *Event {
	return &Event{Type: EventStructuring, Message: message}
}

func NewStats(stats *entity.SessionStats) *Event {
	return &Event{Type: EventStats, Stats: stats}
}

func NewComplete(syllabus *entity.Syllabus, researchReport string) *Event {
	return &Event{Type: EventComplete, Syllabus: syllabus, ResearchReport: researchReport}
}

func NewError(message string) *Event {
	return &Event{Type: EventError, Message: message}
}

var knownTypes = map[EventType]struct{}{
	EventSessionStart:   {},
	EventStatus:         {},
	EventThought:        {},
	EventToolCall:       {},
	EventSearch:         {},
	EventRead:           {},
	EventResearchOutput: {},
	EventStructuring:    {},
	EventStats:          {},
	EventComplete:       {},
	EventError:          {},
}
