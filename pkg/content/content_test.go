package content

import (
	"strings"
	"testing"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
)

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"empty", "", true},
		{"whitespace only", "   \n\t  ", true},
		{"single char", "x", false},
		{"normal", "A perfectly ordinary sentence.", false},
		{"max length", strings.Repeat("a", MaxInputLen), false},
		{"over max", strings.Repeat("a", MaxInputLen+1), true},
		{"multibyte counted as runes", strings.Repeat("ü", MaxInputLen), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateInput: err=%v, wantErr=%v", err, tt.wantErr)
			}
			if err != nil && !apperrors.IsValidation(err) {
				t.Errorf("error category = %v, want validation", apperrors.CategoryOf(err))
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"business", TypeBusiness},
		{"TECHNICAL", TypeTechnical},
		{"  educational ", TypeEducational},
		{"general", TypeGeneral},
		{"nonsense", TypeGeneral},
		{"", TypeGeneral},
	}
	for _, tt := range tests {
		if got := ParseType(tt.in); got != tt.want {
			t.Errorf("ParseType(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
