package insight

import (
	"encoding/json"
	"fmt"

	"github.com/mkovac/journal-insights/internal/models"
)

const moodTrendSystemPrompt = `You analyze mood patterns in personal journal entries.

RULES:
- Base everything on the entries given. Do not invent events or feelings.
- Reference mood tags as evidence, not entry text verbatim.
- Keep the summary to 2-3 sentences, plain language.
- NEVER use: "journey", "growth mindset", "self-care", "embrace".

Respond in JSON:
{
  "summary": "2-3 sentence description of the mood pattern",
  "direction": "improving|declining|steady|mixed",
  "dominant_moods": ["the one or two most frequent mood tags"]
}`

const themeSummarySystemPrompt = `You identify recurring themes in personal journal entries.

RULES:
- A theme needs evidence from at least two entries; cite it briefly.
- Prefer concrete themes ("sleep problems", "the move") over abstractions.
- At most 5 themes. If the entries are scattered, return fewer.
- Quote or closely paraphrase actual entries when citing evidence.

Respond in JSON:
{
  "themes": [{"name": "short theme name", "evidence": "one sentence citing entries"}],
  "summary": "2-3 sentences tying the themes together"
}`

const narrativeRecapSystemPrompt = `You write a short narrative recap of someone's recent days from their journal entries.

VOICE:
- Second person, warm but plain. No advice, no directives.
- Only describe what the entries say happened. Do not extrapolate.
- NEVER mention money, spending or purchases.

Respond in JSON:
{
  "narrative": "one paragraph, 4-6 sentences",
  "highlights": ["2-4 specific moments worth remembering, each one sentence"]
}`

const weeklyReviewSystemPrompt = `You write a weekly review of someone's journal for the week that just ended.

RULES:
- Cover only the period given. Entries outside it are not provided.
- STRICTLY THIRD PERSON: "The week held...", "Attention went to...".
- NEVER use "you", "your", "I", "we".
- Note absent days plainly (e.g. "No entries after Thursday").
- If prior analyses are provided, use them as context; if marked
  unavailable, work from the entries alone.

Respond in JSON:
{
  "overview": "2-3 sentences on the shape of the week",
  "patterns": ["2-4 patterns with specific evidence"],
  "shifts": "what changed during the week, or 'No significant shifts'",
  "looking_ahead": "one observation phrased as 'X could be worth attention', never a directive"
}`

const recommendationsSystemPrompt = `You suggest small concrete actions based on someone's recent journal entries and prior analyses of them.

RULES:
- 2-4 recommendations. Each must trace to something in the context.
- Concrete and small ("take the Friday walk again") not vague ("prioritize wellness").
- The rationale names the evidence it rests on.
- NEVER recommend purchases or paid services.

Respond in JSON:
{
  "recommendations": [{"title": "short imperative", "rationale": "one sentence of evidence"}]
}`

type moodTrendStrategy struct{}

func (moodTrendStrategy) SystemPrompt() string { return moodTrendSystemPrompt }

func (moodTrendStrategy) UserMessage(gc *GenerationContext) string {
	return "JOURNAL ENTRIES (newest first):\n" + formatEntryLines(gc.Entries)
}

func (moodTrendStrategy) DecodePayload(raw []byte) ([]byte, error) {
	var p models.MoodTrendPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if p.Summary == "" {
		return nil, fmt.Errorf("missing summary")
	}
	switch p.Direction {
	case "improving", "declining", "steady", "mixed":
	default:
		return nil, fmt.Errorf("invalid direction %q", p.Direction)
	}
	return json.Marshal(p)
}

type themeSummaryStrategy struct{}

func (themeSummaryStrategy) SystemPrompt() string { return themeSummarySystemPrompt }

func (themeSummaryStrategy) UserMessage(gc *GenerationContext) string {
	return "JOURNAL ENTRIES (newest first):\n" + formatEntryLines(gc.Entries)
}

func (themeSummaryStrategy) DecodePayload(raw []byte) ([]byte, error) {
	var p models.ThemeSummaryPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if len(p.Themes) == 0 {
		return nil, fmt.Errorf("no themes")
	}
	for i, th := range p.Themes {
		if th.Name == "" {
			return nil, fmt.Errorf("theme %d has no name", i)
		}
	}
	if p.Summary == "" {
		return nil, fmt.Errorf("missing summary")
	}
	return json.Marshal(p)
}

type narrativeRecapStrategy struct{}

func (narrativeRecapStrategy) SystemPrompt() string { return narrativeRecapSystemPrompt }

func (narrativeRecapStrategy) UserMessage(gc *GenerationContext) string {
	msg := "JOURNAL ENTRIES (newest first):\n" + formatEntryLines(gc.Entries)
	if deps := formatDependencyContext(gc.Dependencies); deps != "" {
		msg += "\n\n" + deps
	}
	return msg
}

func (narrativeRecapStrategy) DecodePayload(raw []byte) ([]byte, error) {
	var p models.NarrativeRecapPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if p.Narrative == "" {
		return nil, fmt.Errorf("missing narrative")
	}
	return json.Marshal(p)
}

type weeklyReviewStrategy struct{}

func (weeklyReviewStrategy) SystemPrompt() string { return weeklyReviewSystemPrompt }

func (weeklyReviewStrategy) UserMessage(gc *GenerationContext) string {
	var parts []string
	if covered := formatCoveredRange(gc.Covered); covered != "" {
		parts = append(parts, covered)
	}
	parts = append(parts, "JOURNAL ENTRIES (newest first):\n"+formatEntryLines(gc.Entries))
	if deps := formatDependencyContext(gc.Dependencies); deps != "" {
		parts = append(parts, deps)
	}
	return joinSections(parts)
}

func (weeklyReviewStrategy) DecodePayload(raw []byte) ([]byte, error) {
	var p models.WeeklyReviewPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if p.Overview == "" {
		return nil, fmt.Errorf("missing overview")
	}
	if len(p.Patterns) == 0 {
		return nil, fmt.Errorf("no patterns")
	}
	return json.Marshal(p)
}

type recommendationsStrategy struct{}

func (recommendationsStrategy) SystemPrompt() string { return recommendationsSystemPrompt }

func (recommendationsStrategy) UserMessage(gc *GenerationContext) string {
	msg := "JOURNAL ENTRIES (newest first):\n" + formatEntryLines(gc.Entries)
	if deps := formatDependencyContext(gc.Dependencies); deps != "" {
		msg += "\n\n" + deps
	}
	return msg
}

func (recommendationsStrategy) DecodePayload(raw []byte) ([]byte, error) {
	var p models.RecommendationsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if len(p.Recommendations) == 0 {
		return nil, fmt.Errorf("no recommendations")
	}
	for i, rec := range p.Recommendations {
		if rec.Title == "" {
			return nil, fmt.Errorf("recommendation %d has no title", i)
		}
	}
	return json.Marshal(p)
}

func joinSections(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n\n"
		}
		out += p
	}
	return out
}
