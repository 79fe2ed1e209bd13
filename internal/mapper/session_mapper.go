package mapper

import (
	"encoding/json"

	"ai-curriculum-be/internal/entity"
	"ai-curriculum-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToModel(s *entity.ProcessingSession) *model.ProcessingSession {
	if s == nil {
		return nil
	}

	out := &model.ProcessingSession{
		Id:             s.Id,
		ProjectId:      s.ProjectId,
		ResearchReport: s.ResearchReport,
		Stats:          toJSON(s.Stats),
		Syllabus:       toJSON(s.Syllabus),
		FailureMessage: s.FailureMessage,
		StartedAt:      s.StartedAt,
		CompletedAt:    s.CompletedAt,
		Entries:        make([]model.SessionLogEntry, 0, len(s.Entries)),
	}

	for i, entry := range s.Entries {
		out.Entries = append(out.Entries, model.SessionLogEntry{
			Id:        entry.Id,
			SessionId: s.Id,
			Position:  i,
			Type:      string(entry.Type),
			Phase:     entry.Phase,
			Title:     entry.Title,
			Content:   entry.Content,
			Metadata:  toJSON(entry.Metadata),
			CreatedAt: entry.CreatedAt,
		})
	}
	return out
}

func (m *SessionMapper) ToEntity(s *model.ProcessingSession) *entity.ProcessingSession {
	if s == nil {
		return nil
	}

	out := &entity.ProcessingSession{
		Id:             s.Id,
		ProjectId:      s.ProjectId,
		ResearchReport: s.ResearchReport,
		FailureMessage: s.FailureMessage,
		StartedAt:      s.StartedAt,
		CompletedAt:    s.CompletedAt,
		Entries:        make([]*entity.LogEntry, 0, len(s.Entries)),
	}

	if !isNullJSON(s.Stats) {
		var stats entity.SessionStats
		if err := json.Unmarshal(s.Stats, &stats); err == nil {
			out.Stats = &stats
		}
	}
	if !isNullJSON(s.Syllabus) {
		var syllabus entity.Syllabus
		if err := json.Unmarshal(s.Syllabus, &syllabus); err == nil {
			out.Syllabus = &syllabus
		}
	}

	for _, entry := range s.Entries {
		var metadata map[string]string
		if !isNullJSON(entry.Metadata) {
			_ = json.Unmarshal(entry.Metadata, &metadata)
		}
		out.Entries = append(out.Entries, &entity.LogEntry{
			Id:        entry.Id,
			Type:      entity.LogEntryType(entry.Type),
			Phase:     entry.Phase,
			Title:     entry.Title,
			Content:   entry.Content,
			Metadata:  metadata,
			CreatedAt: entry.CreatedAt,
		})
	}
	return out
}

// toJSON marshals v, storing absent values as NULL columns. The nil check
// must happen on the marshaled output: a typed-nil pointer inside the
// interface is non-nil but still marshals to JSON null.
func toJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return nil
	}
	return datatypes.JSON(data)
}

func isNullJSON(data datatypes.JSON) bool {
	return len(data) == 0 || string(data) == "null"
}
