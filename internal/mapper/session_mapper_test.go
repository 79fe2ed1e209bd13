package mapper

import (
	"testing"
	"time"

	"ai-curriculum-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripCompletedSession(t *testing.T) {
	m := NewSessionMapper()
	now := time.Now().Truncate(time.Millisecond)
	done := now.Add(3 * time.Second)

	session := &entity.ProcessingSession{
		Id:        uuid.New(),
		ProjectId: uuid.New(),
		Entries: []*entity.LogEntry{
			{
				Id:        uuid.New(),
				Type:      entity.LogStatus,
				Phase:     "fetching",
				Title:     "Fetching documents",
				CreatedAt: now,
			},
			{
				Id:        uuid.New(),
				Type:      entity.LogSearch,
				Phase:     "researching",
				Title:     "looking for definitions",
				Metadata:  map[string]string{"query": "looking for definitions"},
				CreatedAt: now,
			},
		},
		ResearchReport: "## Report\n\nbody",
		Stats:          &entity.SessionStats{SearchQueries: 1, DocumentsAnalyzed: 2, ProcessingTimeMs: 3000},
		Syllabus:       &entity.Syllabus{Id: "s1", Title: "Intro to Go"},
		StartedAt:      now,
		CompletedAt:    &done,
	}

	out := m.ToEntity(m.ToModel(session))
	require.NotNil(t, out)

	assert.Equal(t, session.Id, out.Id)
	assert.Equal(t, session.ProjectId, out.ProjectId)
	assert.Equal(t, session.ResearchReport, out.ResearchReport)
	require.NotNil(t, out.Stats)
	assert.Equal(t, *session.Stats, *out.Stats)
	require.NotNil(t, out.Syllabus)
	assert.Equal(t, "Intro to Go", out.Syllabus.Title)
	require.NotNil(t, out.CompletedAt)

	require.Len(t, out.Entries, 2)
	assert.Equal(t, entity.LogStatus, out.Entries[0].Type)
	assert.Equal(t, entity.LogSearch, out.Entries[1].Type)
	assert.Equal(t, map[string]string{"query": "looking for definitions"}, out.Entries[1].Metadata)
	assert.Nil(t, out.Entries[0].Metadata)
}

func TestRoundTripFailedSessionKeepsNils(t *testing.T) {
	m := NewSessionMapper()

	session := &entity.ProcessingSession{
		Id:             uuid.New(),
		FailureMessage: "fetch failed",
		StartedAt:      time.Now(),
	}

	stored := m.ToModel(session)
	// Absent syllabus and stats persist as NULL columns, not JSON "null".
	assert.Nil(t, stored.Stats)
	assert.Nil(t, stored.Syllabus)

	out := m.ToEntity(stored)
	require.NotNil(t, out)
	assert.Equal(t, "fetch failed", out.FailureMessage)
	assert.Nil(t, out.Syllabus)
	assert.Nil(t, out.Stats)
	assert.Nil(t, out.CompletedAt)
}

func TestToEntitySkipsStoredNullPayloads(t *testing.T) {
	m := NewSessionMapper()

	stored := m.ToModel(&entity.ProcessingSession{Id: uuid.New()})
	// Rows written before the NULL-column handling may carry literal null.
	stored.Stats = []byte("null")
	stored.Syllabus = []byte("null")

	out := m.ToEntity(stored)
	require.NotNil(t, out)
	assert.Nil(t, out.Stats)
	assert.Nil(t, out.Syllabus)
}

func TestMapperPreservesArrivalOrder(t *testing.T) {
	m := NewSessionMapper()

	session := &entity.ProcessingSession{Id: uuid.New(), StartedAt: time.Now()}
	for i := 0; i < 5; i++ {
		session.Entries = append(session.Entries, &entity.LogEntry{
			Id:      uuid.New(),
			Type:    entity.LogThought,
			Title:   string(rune('a' + i)),
			Content: "step",
		})
	}

	stored := m.ToModel(session)
	require.Len(t, stored.Entries, 5)
	for i, entry := range stored.Entries {
		assert.Equal(t, i, entry.Position)
		assert.Equal(t, session.Id, entry.SessionId)
	}
}
