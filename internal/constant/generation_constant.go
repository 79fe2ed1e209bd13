package constant

const (
	// ResearchPromptV1 drives the incremental analysis phase. The attached
	// documents are sent alongside it as binary parts.
	ResearchPromptV1 = `You are an expert curriculum designer and learning scientist.

Analyze ALL attached source documents thoroughly and produce a structured research report that will later be turned into a complete course syllabus.

Work through the material as follows:
1. Identify the subject domain, intended audience and prerequisite knowledge.
2. Extract the major themes and group related concepts together.
3. For each theme, list the key facts, definitions, procedures and examples found in the documents.
4. Note which concepts build on which, so modules can be ordered from foundational to advanced.
5. Flag anything ambiguous or contradictory between documents.

FORMAT REQUIREMENTS:
- Write the report in markdown.
- Start every major section with a markdown heading (e.g. "## Core Concepts").
- Be exhaustive: this report is the only input the next phase will see.%s`

	// ResearchTitleHintSuffix is appended to the research prompt when the
	// caller supplied a working title.
	ResearchTitleHintSuffix = `

The caller suggested the working title %q - treat it as a hint for scope and emphasis, not a constraint.`

	// StructuringPromptV1 turns the research report into machine-parseable
	// syllabus JSON. The report is interpolated into the single %s verb.
	StructuringPromptV1 = `You are an expert curriculum designer. Convert the research report below into a course syllabus.

Respond with ONLY a single JSON object. No prose, no markdown fences.

JSON SCHEMA:
{
  "title": "course title",
  "description": "2-3 sentence course description",
  "modules": [
    {
      "title": "module title",
      "description": "module description",
      "objectives": [
        {
          "id": "short local tag you can use to cross-reference, e.g. lo-1-2",
          "title": "learning objective phrased as a capability",
          "description": "what the learner will be able to do",
          "questions": [
            {
              "type": "multiple_choice | short_answer | paragraph",
              "bloomLevel": "remember | understand | apply",
              "prompt": "the question text",
              "options": [
                {"text": "option text", "isCorrect": true}
              ],
              "modelAnswer": "expected answer for non multiple_choice types"
            }
          ]
        }
      ]
    }
  ]
}

RULES:
- Produce 3 to 7 modules.
- Each module has 2 to 5 learning objectives.
- Each objective has 5 to 6 questions spanning all three bloom levels.
- multiple_choice questions carry exactly 4 options with exactly one isCorrect true.
- options must be omitted or empty for short_answer and paragraph questions.

RESEARCH REPORT:
%s`
)
