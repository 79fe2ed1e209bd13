package entity

// BloomLevel is the cognitive-depth tier of a question. Weights follow the
// remember/understand/apply ladder: 1, 2 and 3 points respectively.
type BloomLevel string

const (
	BloomRemember   BloomLevel = "remember"
	BloomUnderstand BloomLevel = "understand"
	BloomApply      BloomLevel = "apply"
)

// Points returns the score weight for the level. Unknown levels score 1.
func (b BloomLevel) Points() int {
	switch b {
	case BloomUnderstand:
		return 2
	case BloomApply:
		return 3
	default:
		return 1
	}
}

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionParagraph      QuestionType = "paragraph"
)

type Syllabus struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Modules     []*Module `json:"modules"`
}

type Module struct {
	Id          string               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Order       int                  `json:"order"`
	Color       string               `json:"color"`
	Objectives  []*LearningObjective `json:"objectives"`
}

type LearningObjective struct {
	Id          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Questions   []*Question `json:"questions"`
}

type Question struct {
	Id          string            `json:"id"`
	Type        QuestionType      `json:"type"`
	Bloom       BloomLevel        `json:"bloomLevel"`
	Prompt      string            `json:"prompt"`
	Points      int               `json:"points"`
	TimeLimitS  int               `json:"timeLimitSeconds"`
	Options     []*QuestionOption `json:"options"`
	ModelAnswer string            `json:"modelAnswer,omitempty"`
}

type QuestionOption struct {
	Id        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

func (s *Syllabus) ModuleCount() int { return len(s.Modules) }

func (s *Syllabus) ObjectiveCount() int {
	n := 0
	for _, m := range s.Modules {
		n += len(m.Objectives)
	}
	return n
}

func (s *Syllabus) QuestionCount() int {
	n := 0
	for _, m := range s.Modules {
		for _, o := range m.Objectives {
			n += len(o.Questions)
		}
	}
	return n
}
