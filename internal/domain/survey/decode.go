package survey

import "strings"

// Decode maps a raw survey row into structured answers using the static
// registries. Skipped questions (the NOT_APPLICABLE sentinel) and columns
// absent from the registry are dropped; unknown enum codes fall back to the
// raw value so a schema drift degrades readably instead of losing the entry.
// The free-text purpose, when set, is appended last with no nutrient list.
func Decode(row Row) []Answer {
	answers := make([]Answer, 0, len(registry))
	for _, col := range registry {
		raw, ok := row.Answers[col.name]
		if !ok || raw == "" || raw == NotApplicable {
			continue
		}
		display, ok := col.answers[raw]
		if !ok {
			display = raw
		}
		answers = append(answers, Answer{
			Question:          col.question,
			Answer:            display,
			Concern:           col.concern,
			RequiredNutrients: col.nutrients.resolve(display),
		})
	}

	if purpose := strings.TrimSpace(row.HealthPurpose); purpose != "" {
		answers = append(answers, Answer{
			Question:          "영양제 섭취 목적",
			Answer:            purpose,
			Concern:           "사용자가 원하는 건강 목표",
			RequiredNutrients: []string{},
		})
	}
	return answers
}
