package syllabus

import (
	"fmt"
	"testing"

	"ai-curriculum-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialIds makes minted identifiers predictable in tests.
func sequentialIds() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func mcqRaw() *RawSyllabus {
	return &RawSyllabus{
		Title:       "Intro to Go",
		Description: "A first course",
		Modules: []*RawModule{{
			Title: "Basics",
			Objectives: []*RawObjective{{
				Id:    "obj-a",
				Title: "Understand types",
				Questions: []*RawQuestion{{
					Type:   "multiple_choice",
					Bloom:  "understand",
					Prompt: "Which keyword declares a variable?",
					Options: []*RawOption{
						{Text: "let"},
						{Text: "var", IsCorrect: true},
						{Text: "def"},
						{Text: "dim"},
					},
				}},
			}},
		}},
	}
}

func TestTransformMultipleChoiceOptions(t *testing.T) {
	tr := &Transformer{NewId: sequentialIds()}

	out, err := tr.Transform(mcqRaw())
	require.NoError(t, err)

	q := out.Modules[0].Objectives[0].Questions[0]
	require.Len(t, q.Options, 4)
	for i, opt := range q.Options {
		assert.Equal(t, fmt.Sprintf("opt-%d", i), opt.Id)
	}
	assert.True(t, q.Options[1].IsCorrect)
	assert.False(t, q.Options[0].IsCorrect)

	assert.Equal(t, entity.QuestionMultipleChoice, q.Type)
	assert.Equal(t, entity.BloomUnderstand, q.Bloom)
	assert.Equal(t, 2, q.Points)
	assert.Equal(t, 60, q.TimeLimitS)
}

func TestTransformMintsFreshIds(t *testing.T) {
	tr := NewTransformer()

	first, err := tr.Transform(mcqRaw())
	require.NoError(t, err)
	second, err := tr.Transform(mcqRaw())
	require.NoError(t, err)

	// Identical input shape, brand new identities on every run.
	assert.NotEqual(t, first.Id, second.Id)
	assert.NotEqual(t, first.Modules[0].Id, second.Modules[0].Id)
	assert.NotEqual(t,
		first.Modules[0].Objectives[0].Questions[0].Id,
		second.Modules[0].Objectives[0].Questions[0].Id,
	)

	// Except the objective tag the model supplied itself.
	assert.Equal(t, "obj-a", first.Modules[0].Objectives[0].Id)
	assert.Equal(t, "obj-a", second.Modules[0].Objectives[0].Id)
}

func TestTransformMintsObjectiveIdWhenAbsent(t *testing.T) {
	tr := &Transformer{NewId: sequentialIds()}
	raw := mcqRaw()
	raw.Modules[0].Objectives[0].Id = "  "

	out, err := tr.Transform(raw)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Modules[0].Objectives[0].Id)
	assert.NotEqual(t, "  ", out.Modules[0].Objectives[0].Id)
}

func TestTransformPaletteCycles(t *testing.T) {
	tr := NewTransformer()
	raw := &RawSyllabus{Title: "Big course"}
	for i := 0; i < 10; i++ {
		raw.Modules = append(raw.Modules, &RawModule{Title: fmt.Sprintf("Module %d", i)})
	}

	out, err := tr.Transform(raw)
	require.NoError(t, err)
	require.Len(t, out.Modules, 10)

	for i, m := range out.Modules {
		assert.Equal(t, i, m.Order)
		assert.Equal(t, modulePalette[i%len(modulePalette)], m.Color)
	}
	// Module 7 wraps back to the first color.
	assert.Equal(t, out.Modules[0].Color, out.Modules[7].Color)
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw  string
		want entity.QuestionType
	}{
		{"multiple_choice", entity.QuestionMultipleChoice},
		{"Multiple-Choice", entity.QuestionMultipleChoice},
		{"mcq", entity.QuestionMultipleChoice},
		{"paragraph", entity.QuestionParagraph},
		{"essay", entity.QuestionParagraph},
		{"short_answer", entity.QuestionShortAnswer},
		{"", entity.QuestionShortAnswer},
		{"???", entity.QuestionShortAnswer},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeType(tt.raw), "raw %q", tt.raw)
	}
}

func TestTimeLimitsAndPointsByType(t *testing.T) {
	tr := NewTransformer()
	raw := &RawSyllabus{Modules: []*RawModule{{
		Objectives: []*RawObjective{{
			Questions: []*RawQuestion{
				{Type: "multiple_choice", Bloom: "remember"},
				{Type: "short_answer", Bloom: "understand"},
				{Type: "paragraph", Bloom: "apply"},
			},
		}},
	}}}

	out, err := tr.Transform(raw)
	require.NoError(t, err)

	qs := out.Modules[0].Objectives[0].Questions
	require.Len(t, qs, 3)
	assert.Equal(t, 60, qs[0].TimeLimitS)
	assert.Equal(t, 120, qs[1].TimeLimitS)
	assert.Equal(t, 300, qs[2].TimeLimitS)
	assert.Equal(t, 1, qs[0].Points)
	assert.Equal(t, 2, qs[1].Points)
	assert.Equal(t, 3, qs[2].Points)
}

func TestTransformDropsOptionsForNonMCQ(t *testing.T) {
	tr := NewTransformer()
	raw := mcqRaw()
	raw.Modules[0].Objectives[0].Questions[0].Type = "short_answer"

	out, err := tr.Transform(raw)
	require.NoError(t, err)
	assert.Empty(t, out.Modules[0].Objectives[0].Questions[0].Options)
}

func TestTransformToleratesSparseInput(t *testing.T) {
	tr := NewTransformer()

	out, err := tr.Transform(&RawSyllabus{
		Modules: []*RawModule{nil, {Title: "Only module"}},
	})
	require.NoError(t, err)
	assert.Empty(t, out.Title)
	require.Len(t, out.Modules, 1)
	assert.Equal(t, 0, out.Modules[0].Order)

	_, err = tr.Transform(nil)
	assert.Error(t, err)
}

func TestLintFlagsMalformedMCQs(t *testing.T) {
	tr := NewTransformer()

	raw := mcqRaw()
	raw.Modules[0].Objectives[0].Questions[0].Options = []*RawOption{
		{Text: "a", IsCorrect: true},
		{Text: "b", IsCorrect: true},
	}
	out, err := tr.Transform(raw)
	require.NoError(t, err)

	warnings := Lint(out)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "2 options")
	assert.Contains(t, warnings[1], "2 correct options")

	// A well-formed MCQ lints clean.
	clean, err := tr.Transform(mcqRaw())
	require.NoError(t, err)
	assert.Empty(t, Lint(clean))
}

func TestParseResponse(t *testing.T) {
	payload := `{"title":"Intro","modules":[{"title":"M1"}]}`

	tests := []struct {
		name string
		text string
	}{
		{"bare json", payload},
		{"fenced json", "```json\n" + payload + "\n```"},
		{"fenced without language", "```\n" + payload + "\n```"},
		{"prose around the object", "Here is the syllabus:\n" + payload + "\nLet me know!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseResponse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, "Intro", raw.Title)
			require.Len(t, raw.Modules, 1)
			assert.Equal(t, "M1", raw.Modules[0].Title)
		})
	}
}

func TestParseResponseBraceMatching(t *testing.T) {
	// Braces inside string values must not confuse extraction.
	text := `The result: {"title":"Sets {A} and {B}","modules":[]} done`
	raw, err := ParseResponse(text)
	require.NoError(t, err)
	assert.Equal(t, "Sets {A} and {B}", raw.Title)
}

func TestParseResponseRejectsGarbage(t *testing.T) {
	for _, text := range []string{"", "no json here", "{broken", "[1,2,3]"} {
		_, err := ParseResponse(text)
		assert.Error(t, err, "text %q", text)
	}
}
