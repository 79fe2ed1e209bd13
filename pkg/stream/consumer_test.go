package stream

import (
	"bytes"
	"context"
	"io"
	"testing"

	"ai-curriculum-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionId = "8cbf5a2e-3f7e-4d0a-9a3f-6a1f2b3c4d5e"

// chunkReader hands out at most size bytes per Read, forcing frames to split
// at arbitrary offsets.
type chunkReader struct {
	data []byte
	size int
	pos  int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := r.size
	if n > len(p) {
		n = len(p)
	}
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

func sessionFixture(t *testing.T) []byte {
	t.Helper()
	events := []*Event{
		NewSessionStart(testSessionId),
		NewStatus(PhaseFetching, "Fetching documents", "Retrieving 1 document(s)"),
		NewRead("https://example.com/doc.pdf", "https://example.com/doc.pdf"),
		NewStatus(PhaseResearching, "Analyzing documents", ""),
		NewThought("Considering structure", "Considering structure of the material"),
		NewSearch("looking for definitions", ""),
		NewResearchOutput("Key Concepts", "Recursion, iteration and the call stack"),
		NewStats(&entity.SessionStats{SearchQueries: 1, DocumentsAnalyzed: 1, ProcessingTimeMs: 900}),
		NewComplete(&entity.Syllabus{Id: "s1", Title: "Intro to Go"}, "## Report\n\nbody"),
	}

	var buf bytes.Buffer
	for _, event := range events {
		frame, err := Encode(event)
		require.NoError(t, err)
		buf.Write(frame)
	}
	return buf.Bytes()
}

func assertFixtureSession(t *testing.T, session *entity.ProcessingSession) {
	t.Helper()
	require.NotNil(t, session)
	assert.Equal(t, testSessionId, session.Id.String())
	require.NotNil(t, session.Syllabus)
	assert.Equal(t, "Intro to Go", session.Syllabus.Title)
	assert.Equal(t, "## Report\n\nbody", session.ResearchReport)
	require.NotNil(t, session.Stats)
	assert.Equal(t, 1, session.Stats.SearchQueries)
	require.NotNil(t, session.CompletedAt)

	// session_start and stats carry no log entry; everything else does.
	require.Len(t, session.Entries, 7)
	assert.Equal(t, entity.LogStatus, session.Entries[0].Type)
	assert.Equal(t, entity.LogThought, session.Entries[3].Type)
	assert.Equal(t, entity.LogSearch, session.Entries[4].Type)
	assert.Equal(t, entity.LogSection, session.Entries[5].Type)
	assert.Equal(t, entity.LogComplete, session.Entries[6].Type)

	// Entries inherit the phase of the last status event seen.
	assert.Equal(t, PhaseResearching, session.Entries[3].Phase)
}

func TestConsumerReassemblesAtAnyChunkSize(t *testing.T) {
	data := sessionFixture(t)

	for _, size := range []int{1, 2, 3, 7, 64, 4096} {
		reader := &chunkReader{data: data, size: size}
		consumer := NewConsumer(reader, nil, nil)

		session, err := consumer.Run(context.Background())
		require.NoError(t, err, "chunk size %d", size)
		assertFixtureSession(t, session)
	}
}

func TestConsumerSkipsMalformedFrames(t *testing.T) {
	var buf bytes.Buffer
	frame, err := Encode(NewSessionStart(testSessionId))
	require.NoError(t, err)
	buf.Write(frame)

	buf.WriteString("data: {broken json\n\n")
	buf.WriteString("data: {\"type\":\"heartbeat\"}\n\n")

	frame, err = Encode(NewError("provider unavailable"))
	require.NoError(t, err)
	buf.Write(frame)

	consumer := NewConsumer(&buf, nil, nil)
	session, err := consumer.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, session)
	assert.Equal(t, "provider unavailable", session.FailureMessage)
	assert.Nil(t, session.CompletedAt)
	require.Len(t, session.Entries, 1)
	assert.Equal(t, entity.LogError, session.Entries[0].Type)
}

func TestConsumerStopsAtTerminalEvent(t *testing.T) {
	var buf bytes.Buffer
	for _, event := range []*Event{
		NewSessionStart(testSessionId),
		NewError("fetch failed"),
		NewThought("late", "should never fold"),
	} {
		frame, err := Encode(event)
		require.NoError(t, err)
		buf.Write(frame)
	}

	consumer := NewConsumer(&buf, nil, nil)
	session, err := consumer.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, session)
	assert.Equal(t, "fetch failed", session.FailureMessage)
	require.Len(t, session.Entries, 1)
}

func TestConsumerDecodesTrailingPartialFrame(t *testing.T) {
	frame, err := Encode(NewError("cut off"))
	require.NoError(t, err)
	// Strip the terminator: the stream dies mid-frame.
	data := bytes.TrimSuffix(frame, []byte(FrameTerminator))

	consumer := NewConsumer(bytes.NewReader(data), nil, nil)
	session, err := consumer.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, session)
	assert.Equal(t, "cut off", session.FailureMessage)
}

func TestConsumerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	consumer := NewConsumer(bytes.NewReader(sessionFixture(t)), nil, nil)
	session, err := consumer.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, session)
}

func TestFolderNotifiesSink(t *testing.T) {
	sink := &countingSink{}

	folder := NewFolder(sink)
	folder.Fold(NewSessionStart(testSessionId))
	folder.Fold(NewStatus(PhaseFetching, "Fetching", ""))
	folder.Fold(NewComplete(nil, ""))

	assert.Equal(t, 1, sink.created)
	assert.Equal(t, 2, sink.appended)
	assert.Equal(t, 1, sink.terminated)
	assert.True(t, folder.Terminal())
}

type countingSink struct {
	created    int
	appended   int
	terminated int
}

func (s *countingSink) Created(*entity.ProcessingSession)                    { s.created++ }
func (s *countingSink) Appended(*entity.ProcessingSession, *entity.LogEntry) { s.appended++ }
func (s *countingSink) Terminated(*entity.ProcessingSession)                 { s.terminated++ }
