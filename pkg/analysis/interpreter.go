// Package analysis turns the raw incremental fragment stream coming out of
// the reasoning service into discrete, typed progress events. Classification
// is heuristic: a small lexicon separates search activity from plain
// reasoning, and a markdown heading marker delimits report sections.
package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"ai-curriculum-be/pkg/llm"
	"ai-curriculum-be/pkg/stream"
)

const (
	// maxThoughtEvents bounds event volume on verbose runs. Reasoning beyond
	// the cap is still absorbed into the report accumulator.
	maxThoughtEvents = 15

	// minSectionLen is the smallest section buffer worth surfacing.
	minSectionLen = 50

	// sectionPreviewLen caps the content carried by a section event.
	sectionPreviewLen = 300

	thoughtTitleLen = 80
	searchQueryLen  = 160
)

// searchLexicon marks a reasoning fragment as search activity when any entry
// matches case-insensitively.
var searchLexicon = []string{"search", "looking for", "querying"}

var headingPattern = regexp.MustCompile(`^#{1,6}\s+(.*)$`)

// EmitFunc forwards a classified event downstream. An error aborts the run.
type EmitFunc func(event *stream.Event) error

// Interpreter consumes ordered fragments from one generation stream and
// emits classified events while accumulating the full research report. One
// interpreter serves exactly one session.
type Interpreter struct {
	emit EmitFunc

	report       strings.Builder
	section      strings.Builder
	sectionLabel string

	thoughtsEmitted int
	searchQueries   int
}

func NewInterpreter(emit EmitFunc) *Interpreter {
	return &Interpreter{emit: emit}
}

// Consume classifies a single fragment. Reasoning text becomes a search or
// thought event; output text feeds the report accumulator and section
// detection.
func (it *Interpreter) Consume(chunk llm.Chunk) error {
	if chunk.Text == "" {
		return nil
	}
	if chunk.Thought {
		return it.consumeReasoning(chunk.Text)
	}
	return it.consumeOutput(chunk.Text)
}

func (it *Interpreter) consumeReasoning(text string) error {
	it.appendReport(text)

	if matchesSearchLexicon(text) {
		it.searchQueries++
		return it.emit(stream.NewSearch(firstLine(text, searchQueryLen), ""))
	}

	if it.thoughtsEmitted >= maxThoughtEvents {
		return nil
	}
	it.thoughtsEmitted++
	return it.emit(stream.NewThought(firstLine(text, thoughtTitleLen), text))
}

func (it *Interpreter) consumeOutput(text string) error {
	if !it.appendReport(text) {
		// Cumulative snapshot of text already seen; appending again would
		// duplicate report content.
		return nil
	}

	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			it.section.WriteString("\n")
		}
		if m := headingPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if err := it.flushSection(); err != nil {
				return err
			}
			it.sectionLabel = strings.TrimSpace(m[1])
			continue
		}
		it.section.WriteString(line)
	}
	return nil
}

// Finish flushes the trailing section buffer once the stream ends.
func (it *Interpreter) Finish() error {
	return it.flushSection()
}

// Report returns everything accumulated so far.
func (it *Interpreter) Report() string {
	return it.report.String()
}

// SearchQueries returns how many fragments classified as search activity.
func (it *Interpreter) SearchQueries() int {
	return it.searchQueries
}

// flushSection emits the previous section when it crossed the minimum length
// and always resets the buffer for the next one.
func (it *Interpreter) flushSection() error {
	content := strings.TrimSpace(it.section.String())
	it.section.Reset()
	if len(content) < minSectionLen {
		return nil
	}

	label := it.sectionLabel
	if label == "" {
		label = "Research notes"
	}
	return it.emit(stream.NewResearchOutput(label, truncate(content, sectionPreviewLen)))
}

// appendReport adds text to the accumulator unless the exact text is already
// contained in it. Reports whether the text was new.
func (it *Interpreter) appendReport(text string) bool {
	if strings.Contains(it.report.String(), text) {
		return false
	}
	it.report.WriteString(text)
	return true
}

func matchesSearchLexicon(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range searchLexicon {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func firstLine(text string, max int) string {
	line := strings.TrimSpace(text)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	return truncate(strings.TrimSpace(line), max)
}

// truncate cuts s to at most max bytes without splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
