// Package syllabus maps the model's loosely-typed structured response into
// the validated domain tree. Prompting targets 3-7 modules, 2-5 objectives
// each and 5-6 questions per objective; those ranges are steered by the
// prompt, not enforced here.
package syllabus

import (
	"fmt"
	"strings"

	"ai-curriculum-be/internal/entity"

	"github.com/google/uuid"
)

// modulePalette assigns deterministic module colors by order, cycling when a
// syllabus outgrows it.
var modulePalette = []string{
	"#6366F1", // indigo
	"#10B981", // emerald
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // violet
	"#06B6D4", // cyan
	"#EC4899", // pink
}

// timeLimits derives seconds-per-question purely from question type. The
// model's own timing suggestions are never used.
var timeLimits = map[entity.QuestionType]int{
	entity.QuestionMultipleChoice: 60,
	entity.QuestionShortAnswer:    120,
	entity.QuestionParagraph:      300,
}

// Transformer builds domain trees out of raw responses. NewId produces
// globally unique opaque identifiers; it defaults to uuid strings.
type Transformer struct {
	NewId func() string
}

func NewTransformer() *Transformer {
	return &Transformer{NewId: uuid.NewString}
}

// Transform converts a raw response into a fully-typed Syllabus. Missing
// titles and descriptions fall back to empty strings: partial content beats
// total failure at this layer, the fatal-failure call was already made at
// deserialization.
func (t *Transformer) Transform(raw *RawSyllabus) (*entity.Syllabus, error) {
	if raw == nil {
		return nil, fmt.Errorf("nil raw syllabus")
	}

	out := &entity.Syllabus{
		Id:          t.NewId(),
		Title:       raw.Title,
		Description: raw.Description,
		Modules:     make([]*entity.Module, 0, len(raw.Modules)),
	}

	for i, rawModule := range raw.Modules {
		if rawModule == nil {
			continue
		}
		out.Modules = append(out.Modules, t.transformModule(rawModule, i))
	}
	return out, nil
}

func (t *Transformer) transformModule(raw *RawModule, index int) *entity.Module {
	module := &entity.Module{
		Id:          t.NewId(),
		Title:       raw.Title,
		Description: raw.Description,
		Order:       index,
		Color:       modulePalette[index%len(modulePalette)],
		Objectives:  make([]*entity.LearningObjective, 0, len(raw.Objectives)),
	}

	for _, rawObjective := range raw.Objectives {
		if rawObjective == nil {
			continue
		}
		module.Objectives = append(module.Objectives, t.transformObjective(rawObjective))
	}
	return module
}

func (t *Transformer) transformObjective(raw *RawObjective) *entity.LearningObjective {
	// The model assigns its own objective tags for internal cross-referencing;
	// keep them when present, otherwise mint one.
	id := strings.TrimSpace(raw.Id)
	if id == "" {
		id = t.NewId()
	}

	objective := &entity.LearningObjective{
		Id:          id,
		Title:       raw.Title,
		Description: raw.Description,
		Questions:   make([]*entity.Question, 0, len(raw.Questions)),
	}

	for _, rawQuestion := range raw.Questions {
		if rawQuestion == nil {
			continue
		}
		objective.Questions = append(objective.Questions, t.transformQuestion(rawQuestion))
	}
	return objective
}

func (t *Transformer) transformQuestion(raw *RawQuestion) *entity.Question {
	qType := normalizeType(raw.Type)
	bloom := normalizeBloom(raw.Bloom)

	question := &entity.Question{
		Id:          t.NewId(),
		Type:        qType,
		Bloom:       bloom,
		Prompt:      raw.Prompt,
		Points:      bloom.Points(),
		TimeLimitS:  timeLimits[qType],
		Options:     make([]*entity.QuestionOption, 0),
		ModelAnswer: raw.ModelAnswer,
	}

	// Options only exist for multiple choice; each keeps a stable positional
	// identifier so answers survive re-serialization. Option count and the
	// correct flag are not enforced here; Lint surfaces violations.
	if qType == entity.QuestionMultipleChoice {
		for i, opt := range raw.Options {
			if opt == nil {
				continue
			}
			question.Options = append(question.Options, &entity.QuestionOption{
				Id:        fmt.Sprintf("opt-%d", i),
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
			})
		}
	}
	return question
}

func normalizeType(raw string) entity.QuestionType {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_") {
	case "multiple_choice", "mcq":
		return entity.QuestionMultipleChoice
	case "paragraph", "essay":
		return entity.QuestionParagraph
	default:
		return entity.QuestionShortAnswer
	}
}

func normalizeBloom(raw string) entity.BloomLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(entity.BloomUnderstand):
		return entity.BloomUnderstand
	case string(entity.BloomApply):
		return entity.BloomApply
	default:
		return entity.BloomRemember
	}
}

// Lint reports structural oddities the transform tolerates, so callers can
// log them. It never fails the transform.
func Lint(s *entity.Syllabus) []string {
	var warnings []string
	for _, m := range s.Modules {
		for _, o := range m.Objectives {
			for _, q := range o.Questions {
				if q.Type != entity.QuestionMultipleChoice {
					continue
				}
				if len(q.Options) != 4 {
					warnings = append(warnings, fmt.Sprintf("question %s has %d options", q.Id, len(q.Options)))
				}
				correct := 0
				for _, opt := range q.Options {
					if opt.IsCorrect {
						correct++
					}
				}
				if correct != 1 {
					warnings = append(warnings, fmt.Sprintf("question %s has %d correct options", q.Id, correct))
				}
			}
		}
	}
	return warnings
}
