package pipeline

import (
	"testing"

	"github.com/ddrutch/AWSInfoGraphic/pkg/apperrors"
)

func TestStageChain(t *testing.T) {
	want := []Stage{
		StagePending, StageAnalyzing, StageSourcing, StageLayingOut,
		StageFormatting, StageComposing, StageUploading, StageCompleted,
	}

	got := []Stage{StagePending}
	for s := StagePending; !s.Terminal(); s = s.Next() {
		got = append(got, s.Next())
	}

	if len(got) != len(want) {
		t.Fatalf("chain length = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chain[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTerminalStages(t *testing.T) {
	if !StageCompleted.Terminal() || !StageFailed.Terminal() {
		t.Error("completed/failed not terminal")
	}
	if StagePending.Terminal() || StageUploading.Terminal() {
		t.Error("non-terminal stage reported terminal")
	}
	if StageCompleted.Next() != StageFailed {
		t.Error("Next of a terminal stage should be failed")
	}
}

func TestValidateTransitions(t *testing.T) {
	if err := validateTransitions(); err != nil {
		t.Fatalf("transition table invalid: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		req := Request{Text: "some perfectly reasonable input"}
		spec, err := req.ValidateAndSetDefaults()
		if err != nil {
			t.Fatal(err)
		}
		if req.Platform != "general" {
			t.Errorf("Platform = %q, want general", req.Platform)
		}
		if req.Format != "PNG" {
			t.Errorf("Format = %q, want PNG", req.Format)
		}
		if req.RequestID == "" {
			t.Error("RequestID not generated")
		}
		if spec.ID != "general" {
			t.Errorf("spec.ID = %q", spec.ID)
		}
	})

	t.Run("instagram defaults to jpeg", func(t *testing.T) {
		req := Request{Text: "input", Platform: "instagram"}
		if _, err := req.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		if req.Format != "JPEG" {
			t.Errorf("Format = %q, want JPEG", req.Format)
		}
	})

	t.Run("explicit format uppercased", func(t *testing.T) {
		req := Request{Text: "input", Format: "jpeg"}
		if _, err := req.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		if req.Format != "JPEG" {
			t.Errorf("Format = %q, want JPEG", req.Format)
		}
	})

	t.Run("request id preserved", func(t *testing.T) {
		req := Request{Text: "input", RequestID: "fixed"}
		if _, err := req.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		if req.RequestID != "fixed" {
			t.Errorf("RequestID = %q, want fixed", req.RequestID)
		}
	})

	t.Run("rejections", func(t *testing.T) {
		cases := []Request{
			{Text: ""},
			{Text: "   "},
			{Text: "ok", Platform: "myspace"},
			{Text: "ok", Format: "gif"},
		}
		for _, req := range cases {
			if _, err := req.ValidateAndSetDefaults(); err == nil {
				t.Errorf("request %+v accepted, want validation error", req)
			} else if !apperrors.IsValidation(err) {
				t.Errorf("request %+v: category %v, want validation", req, apperrors.CategoryOf(err))
			}
		}
	})
}
