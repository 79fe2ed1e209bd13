package analysis

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"ai-curriculum-be/pkg/llm"
	"ai-curriculum-be/pkg/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectEvents() (*[]*stream.Event, EmitFunc) {
	events := &[]*stream.Event{}
	return events, func(event *stream.Event) error {
		*events = append(*events, event)
		return nil
	}
}

func countByType(events []*stream.Event, t stream.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestThoughtEventCap(t *testing.T) {
	events, emit := collectEvents()
	it := NewInterpreter(emit)

	for i := 0; i < 30; i++ {
		err := it.Consume(llm.Chunk{
			Text:    fmt.Sprintf("reasoning fragment %02d about the material", i),
			Thought: true,
		})
		require.NoError(t, err)
	}
	require.NoError(t, it.Finish())

	assert.Equal(t, 15, countByType(*events, stream.EventThought))
	// Suppressed reasoning still lands in the report.
	assert.Contains(t, it.Report(), "reasoning fragment 29")
}

func TestSearchLexiconClassification(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantSearch bool
	}{
		{"search verb", "Searching the documents for the main thesis", true},
		{"looking for", "I am looking for the chapter on recursion", true},
		{"querying", "Querying the source for definitions", true},
		{"plain reasoning", "The material covers three themes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, emit := collectEvents()
			it := NewInterpreter(emit)

			require.NoError(t, it.Consume(llm.Chunk{Text: tt.text, Thought: true}))

			if tt.wantSearch {
				assert.Equal(t, 1, countByType(*events, stream.EventSearch))
				assert.Equal(t, 0, countByType(*events, stream.EventThought))
				assert.Equal(t, 1, it.SearchQueries())
			} else {
				assert.Equal(t, 0, countByType(*events, stream.EventSearch))
				assert.Equal(t, 1, countByType(*events, stream.EventThought))
				assert.Equal(t, 0, it.SearchQueries())
			}
		})
	}
}

func TestSearchEventsBypassThoughtCap(t *testing.T) {
	events, emit := collectEvents()
	it := NewInterpreter(emit)

	for i := 0; i < 20; i++ {
		require.NoError(t, it.Consume(llm.Chunk{
			Text:    fmt.Sprintf("fragment %02d", i),
			Thought: true,
		}))
	}
	require.NoError(t, it.Consume(llm.Chunk{
		Text:    "still searching for the summary chapter",
		Thought: true,
	}))

	assert.Equal(t, 15, countByType(*events, stream.EventThought))
	assert.Equal(t, 1, countByType(*events, stream.EventSearch))
}

func TestSectionDetection(t *testing.T) {
	events, emit := collectEvents()
	it := NewInterpreter(emit)

	long := strings.Repeat("x", 60)
	short := strings.Repeat("y", 10)
	text := "## Key Concepts\n" + long + "\n## Summary\n" + short

	require.NoError(t, it.Consume(llm.Chunk{Text: text}))
	require.NoError(t, it.Finish())

	// The first section crosses the minimum length, the trailing one does
	// not.
	sections := []*stream.Event{}
	for _, e := range *events {
		if e.Type == stream.EventResearchOutput {
			sections = append(sections, e)
		}
	}
	require.Len(t, sections, 1)
	assert.Equal(t, "Key Concepts", sections[0].Section)
	assert.Equal(t, long, sections[0].Content)
}

func TestSectionPreviewTruncation(t *testing.T) {
	events, emit := collectEvents()
	it := NewInterpreter(emit)

	body := strings.Repeat("z", 500)
	require.NoError(t, it.Consume(llm.Chunk{Text: "## Deep Dive\n" + body}))
	require.NoError(t, it.Finish())

	require.Equal(t, 1, countByType(*events, stream.EventResearchOutput))
	last := (*events)[len(*events)-1]
	assert.Len(t, last.Content, 300)
	// The full body still reaches the report untruncated.
	assert.Contains(t, it.Report(), body)
}

func TestSectionPreviewKeepsRunesIntact(t *testing.T) {
	events, emit := collectEvents()
	it := NewInterpreter(emit)

	// A one-byte prefix shifts every two-byte rune off the preview boundary.
	body := "x" + strings.Repeat("é", 300)
	require.NoError(t, it.Consume(llm.Chunk{Text: "## Métriques\n" + body}))
	require.NoError(t, it.Finish())

	last := (*events)[len(*events)-1]
	require.Equal(t, stream.EventResearchOutput, last.Type)
	assert.True(t, utf8.ValidString(last.Content))
	assert.Len(t, last.Content, 299)
}

func TestCumulativeSnapshotDeduplication(t *testing.T) {
	_, emit := collectEvents()
	it := NewInterpreter(emit)

	require.NoError(t, it.Consume(llm.Chunk{Text: "The course begins with"}))
	// A cumulative snapshot repeats everything seen so far.
	require.NoError(t, it.Consume(llm.Chunk{Text: "The course begins with"}))
	require.NoError(t, it.Consume(llm.Chunk{Text: " fundamentals."}))

	assert.Equal(t, "The course begins with fundamentals.", it.Report())
}

func TestEmptyChunksIgnored(t *testing.T) {
	events, emit := collectEvents()
	it := NewInterpreter(emit)

	require.NoError(t, it.Consume(llm.Chunk{Text: ""}))
	require.NoError(t, it.Consume(llm.Chunk{Text: "", Thought: true}))
	require.NoError(t, it.Finish())

	assert.Empty(t, *events)
	assert.Empty(t, it.Report())
}
