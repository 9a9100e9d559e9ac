package recommend

import (
	"fmt"
	"strings"

	apperrors "github.com/pillmein/supplement-advisor/pkg/errors"
)

// The model reply is a small line-oriented grammar: an ordinal issue marker
// opens a record, labeled field lines fill it, the next marker or end of
// input flushes it. The parser is an explicit two-state machine so that
// every failure mode is enumerable.

const expectedCandidates = 3

const (
	markerIssue       = "건강 문제"
	markerName        = "추천 영양제"
	markerIngredients = "주요 원재료"
	markerEffect      = "효과"
)

type parseState int

const (
	stateAwaitingIssue parseState = iota
	stateInRecord
)

// ParseRecommendations converts the raw model reply into exactly three
// candidates. Anything else, including records with blank fields, is a
// malformed recommendation: partial results are unusable downstream.
func ParseRecommendations(raw string) ([]Candidate, error) {
	var (
		state      = stateAwaitingIssue
		current    Candidate
		candidates []Candidate
	)

	flush := func() {
		if state == stateInRecord {
			candidates = append(candidates, current)
			current = Candidate{}
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if issue, ok := matchIssueMarker(line); ok {
			flush()
			current = Candidate{HealthIssue: issue}
			state = stateInRecord
			continue
		}
		if state != stateInRecord {
			continue
		}
		switch {
		case strings.Contains(line, markerName):
			current.Name = fieldValue(line)
		case strings.Contains(line, markerIngredients):
			current.Ingredients = fieldValue(line)
		case strings.Contains(line, markerEffect):
			current.Effect = fieldValue(line)
		}
	}
	flush()

	if len(candidates) != expectedCandidates {
		return nil, apperrors.Wrap(apperrors.CodeMalformedRec,
			fmt.Sprintf("expected %d recommendations, parsed %d", expectedCandidates, len(candidates)), nil)
	}
	for i, cand := range candidates {
		if err := validateCandidate(i+1, cand); err != nil {
			return nil, err
		}
	}
	return candidates, nil
}

// matchIssueMarker recognizes lines of the form "N. 건강 문제: ...".
func matchIssueMarker(line string) (string, bool) {
	for ordinal := 1; ordinal <= expectedCandidates; ordinal++ {
		prefix := fmt.Sprintf("%d. %s", ordinal, markerIssue)
		if strings.HasPrefix(line, prefix) {
			return fieldValue(line), true
		}
	}
	return "", false
}

// fieldValue extracts the text after the first ": " separator.
func fieldValue(line string) string {
	_, value, found := strings.Cut(line, ": ")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}

func validateCandidate(slot int, cand Candidate) error {
	missing := ""
	switch {
	case cand.HealthIssue == "":
		missing = markerIssue
	case cand.Name == "":
		missing = markerName
	case cand.Ingredients == "":
		missing = markerIngredients
	case cand.Effect == "":
		missing = markerEffect
	}
	if missing != "" {
		return apperrors.Wrap(apperrors.CodeMalformedRec,
			fmt.Sprintf("recommendation %d is missing field %q", slot, missing), nil)
	}
	return nil
}

// validateGrounding rejects replies that name products outside the retrieved
// candidate set. The prompt forbids invented names, but the model is not
// trusted to comply.
func validateGrounding(candidates []Candidate, retrieved []SearchResult) error {
	allowed := make(map[string]struct{}, len(retrieved))
	for _, res := range retrieved {
		allowed[res.Record.Name] = struct{}{}
	}
	for i, cand := range candidates {
		if _, ok := allowed[cand.Name]; !ok {
			return apperrors.Wrap(apperrors.CodeMalformedRec,
				fmt.Sprintf("recommendation %d names %q which is not among retrieved candidates", i+1, cand.Name), nil)
		}
	}
	return nil
}
