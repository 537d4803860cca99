// Package scorer turns raw conversation text into per-indicator behavioral
// scores by matching transcript text against taxonomy criteria keywords.
//
// Scoring is pure: given the same taxonomy and text it always produces the
// same scores. All per-session state lives with the session, not here.
package scorer

import (
	"math"
	"strings"

	"ai-call-readiness-service/internal/models"
	"ai-call-readiness-service/internal/taxonomy"
)

// neutralScore is the midpoint default used when no criterion matched.
const neutralScore = 5

// maxEvidenceLen caps one evidence snippet.
const maxEvidenceLen = 150

// minSentenceLen drops fragments too short to be useful evidence.
const minSentenceLen = 10

// stopWords are dropped during keyword extraction.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "your": {}, "all": {}, "can": {}, "had": {}, "her": {},
	"was": {}, "one": {}, "our": {}, "out": {}, "has": {}, "him": {},
	"his": {}, "how": {}, "its": {}, "with": {}, "that": {}, "this": {},
	"they": {}, "have": {}, "from": {}, "what": {}, "when": {}, "would": {},
	"there": {}, "their": {}, "will": {}, "about": {}, "into": {},
	"them": {}, "then": {}, "than": {}, "were": {}, "been": {}, "does": {},
	"just": {}, "like": {}, "some": {}, "very": {}, "really": {},
}

// ConversationText flattens a transcript into the lower-cased, space-joined
// text the scorer matches against.
func ConversationText(transcript models.Transcript) string {
	parts := make([]string, 0, len(transcript))
	for _, chunk := range transcript {
		parts = append(parts, chunk.Text)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// ExtractKeywords tokenizes text into the de-duplicated keyword set used for
// matching: lower-cased, punctuation stripped, tokens of length <= 2 and
// stop words dropped. Order of first appearance is preserved.
func ExtractKeywords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	seen := make(map[string]struct{})
	var keywords []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}

// criterionKeywords builds the keyword set for one criterion from its example
// answer, sample question and any explicit hints.
func criterionKeywords(c taxonomy.ScoringCriterion) []string {
	text := c.ExampleAnswer + " " + c.SampleQuestion
	if len(c.Hints) > 0 {
		text += " " + strings.Join(c.Hints, " ")
	}
	return ExtractKeywords(text)
}

// countMatches counts how many keywords appear as substrings in the text.
func countMatches(keywords []string, text string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// bandSubScore maps a criterion's match count onto its band's numeric range.
func bandSubScore(band taxonomy.Band, matches int) int {
	switch band {
	case taxonomy.BandLow:
		if matches == 1 {
			return 1
		}
		return 2
	case taxonomy.BandMid:
		if matches < 2 {
			return 4
		}
		return 5
	case taxonomy.BandHigh:
		if matches < 3 {
			return 7
		}
		return 9
	default:
		return neutralScore
	}
}

// splitSentences cuts conversation text on sentence delimiters, dropping
// fragments shorter than minSentenceLen after trimming.
func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	var sentences []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len(s) >= minSentenceLen {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// findEvidence returns the first sentence sharing at least two keywords with
// the criterion, truncated to maxEvidenceLen. Empty string if none qualifies.
func findEvidence(sentences []string, keywords []string) string {
	for _, sentence := range sentences {
		overlap := 0
		for _, kw := range keywords {
			if strings.Contains(sentence, kw) {
				overlap++
				if overlap >= 2 {
					if len(sentence) > maxEvidenceLen {
						return sentence[:maxEvidenceLen]
					}
					return sentence
				}
			}
		}
	}
	return ""
}

// clampScore bounds an indicator score to [1,10].
func clampScore(s int) int {
	if s < 1 {
		return 1
	}
	if s > 10 {
		return 10
	}
	return s
}

// Score produces one IndicatorScore per indicator from the conversation text.
// Indicators with no matching criteria default to the neutral midpoint.
func Score(indicators []taxonomy.Indicator, conversationText string) []models.IndicatorScore {
	sentences := splitSentences(conversationText)

	results := make([]models.IndicatorScore, 0, len(indicators))
	for _, ind := range indicators {
		sum := 0
		matched := 0
		var evidence []string

		for _, crit := range ind.Criteria {
			keywords := criterionKeywords(crit)
			matches := countMatches(keywords, conversationText)
			if matches == 0 {
				continue
			}
			sum += bandSubScore(crit.Band, matches)
			matched++

			if snippet := findEvidence(sentences, keywords); snippet != "" {
				evidence = append(evidence, snippet)
			}
		}

		score := neutralScore
		if matched > 0 {
			score = int(math.Round(float64(sum) / float64(matched)))
		}

		results = append(results, models.IndicatorScore{
			ID:       ind.ID,
			Name:     ind.Name,
			PillarID: ind.PillarID,
			Score:    clampScore(score),
			Evidence: evidence,
		})
	}
	return results
}
