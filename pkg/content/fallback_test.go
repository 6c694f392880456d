package content

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractBasic(t *testing.T) {
	text := "Cloud migration cuts costs. Teams report faster deploys. " +
		"Key metric: uptime improved to four nines. " +
		"The transition took a full year of planning across every department involved in operations."

	m := Extract(text, 5)

	if m.MainTopic != "Cloud migration cuts costs" {
		t.Errorf("MainTopic = %q", m.MainTopic)
	}
	if m.SuggestedTitle != "Cloud migration cuts costs" {
		t.Errorf("SuggestedTitle = %q", m.SuggestedTitle)
	}
	if len(m.KeyPoints) == 0 {
		t.Fatal("no key points extracted")
	}
	if !strings.HasPrefix(m.Summary, "Cloud migration cuts costs. Teams report faster deploys.") {
		t.Errorf("Summary = %q", m.Summary)
	}
}

func TestExtractRespectsMaxPoints(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12; i++ {
		b.WriteString("Short point here. ")
	}

	m := Extract(b.String(), 3)
	if len(m.KeyPoints) > 3 {
		t.Errorf("got %d key points, want at most 3", len(m.KeyPoints))
	}
}

func TestExtractNoSentences(t *testing.T) {
	m := Extract("just a fragment without any period", 5)

	if m.MainTopic == "" || m.Summary == "" || m.SuggestedTitle == "" {
		t.Errorf("fragment input left fields empty: %+v", m)
	}
	if len(m.KeyPoints) != 1 {
		t.Errorf("got %d key points, want 1", len(m.KeyPoints))
	}
}

func TestExtractTitleWordCap(t *testing.T) {
	m := Extract("one two three four five six seven eight nine ten.", 5)
	if got := len(strings.Fields(m.SuggestedTitle)); got > maxTitleWords {
		t.Errorf("title has %d words, cap is %d", got, maxTitleWords)
	}
}

func TestExtractMultibyteInput(t *testing.T) {
	m := Extract(strings.Repeat("日", 100), 5)

	fields := map[string]string{
		"MainTopic":      m.MainTopic,
		"Summary":        m.Summary,
		"SuggestedTitle": m.SuggestedTitle,
	}
	for name, v := range fields {
		if !utf8.ValidString(v) {
			t.Errorf("%s contains invalid UTF-8: %q", name, v)
		}
	}
	for i, p := range m.KeyPoints {
		if !utf8.ValidString(p) {
			t.Errorf("KeyPoints[%d] contains invalid UTF-8: %q", i, p)
		}
	}
	if got := utf8.RuneCountInString(m.MainTopic); got > 80 {
		t.Errorf("MainTopic has %d runes, want at most 80", got)
	}
}

func TestExtractDeterministic(t *testing.T) {
	text := "Revenue grew. Sales teams expanded. Profit margins held steady across the quarter."
	a := Extract(text, 5)
	b := Extract(text, 5)

	if a.MainTopic != b.MainTopic || a.Summary != b.Summary || len(a.KeyPoints) != len(b.KeyPoints) {
		t.Error("repeated Extract with identical input differs")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Type
	}{
		{"business", "Quarterly revenue and profit growth beat market expectations", TypeBusiness},
		{"technical", "The API server architecture reduced database latency", TypeTechnical},
		{"educational", "Students learn each lesson through a guided tutorial", TypeEducational},
		{"general", "The weather was pleasant throughout the afternoon", TypeGeneral},
		{"most hits wins", "revenue growth from the api server database cloud code latency architecture", TypeTechnical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify = %s, want %s", got, tt.want)
			}
		})
	}
}
