package content

import (
	"strings"
)

// maxTitleWords caps the fallback title at a headline-sized fragment.
const maxTitleWords = 8

// Extract performs a naive extractive analysis of text: first sentence
// becomes the topic and title, short or colon-delimited sentences become key
// points, and the first two sentences form the summary.
//
// It is fully deterministic and never fails on non-empty input, which is what
// makes it safe as the degraded substitute when the model call does not
// succeed.
func Extract(text string, maxPoints int) *Model {
	if maxPoints <= 0 {
		maxPoints = 5
	}
	sentences := splitSentences(text)

	m := &Model{ContentType: Classify(text)}

	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(text)
		m.MainTopic = clip(trimmed, 80)
		m.Summary = clip(trimmed, 200)
		m.SuggestedTitle = firstWords(trimmed, maxTitleWords)
		if trimmed != "" {
			m.KeyPoints = []string{clip(trimmed, 120)}
		}
		return m
	}

	m.MainTopic = clip(sentences[0], 80)
	m.SuggestedTitle = firstWords(sentences[0], maxTitleWords)

	// Prefer sentences that read like bullets: short, or carrying a colon.
	var candidates []string
	for _, s := range sentences {
		if len(strings.Fields(s)) <= 20 || strings.Contains(s, ":") {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		candidates = sentences
	}
	if len(candidates) > maxPoints {
		candidates = candidates[:maxPoints]
	}
	m.KeyPoints = append(m.KeyPoints, candidates...)

	if len(sentences) >= 2 {
		m.Summary = sentences[0] + ". " + sentences[1] + "."
	} else {
		m.Summary = sentences[0] + "."
	}
	return m
}

// Classify assigns a content type from keyword occurrence. Ties resolve in
// favor of the first matching category in business, technical, educational
// order; no match means general.
func Classify(text string) Type {
	lower := strings.ToLower(text)
	groups := []struct {
		t        Type
		keywords []string
	}{
		{TypeBusiness, []string{"revenue", "profit", "market", "sales", "growth", "customer", "quarter", "roi"}},
		{TypeTechnical, []string{"api", "server", "database", "deploy", "latency", "code", "architecture", "cloud", "software"}},
		{TypeEducational, []string{"learn", "course", "student", "lesson", "teach", "study", "tutorial"}},
	}

	best := TypeGeneral
	bestHits := 0
	for _, g := range groups {
		hits := 0
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = g.t, hits
		}
	}
	return best
}

// splitSentences breaks text on periods, trimming whitespace and dropping
// empty fragments. Newlines are treated as spaces so bulleted input still
// yields usable sentences.
func splitSentences(text string) []string {
	flat := strings.ReplaceAll(text, "\n", " ")
	var out []string
	for _, s := range strings.Split(flat, ".") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// clip shortens s to at most n runes, never splitting a multibyte sequence.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
