package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/clearpath/intake/internal/domain"
	"github.com/clearpath/intake/internal/llm"
)

// fakeCompleter routes completion calls through a test function.
type fakeCompleter struct {
	fn    func(system, user string) (string, error)
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string, _ llm.Params) (string, error) {
	f.calls++
	return f.fn(system, user)
}

func TestExtractWithModelStoresValidatedValues(t *testing.T) {
	a := New()
	fc := &fakeCompleter{fn: func(_, user string) (string, error) {
		if !strings.Contains(user, `"firstName"`) {
			t.Error("Expected extraction prompt to name the missing firstName field")
		}
		return `{"firstName":"John","lastName":"Smith","email":"not-an-email","shoeSize":"37"}`, nil
	}}

	if err := ExtractWithModel(context.Background(), fc, a, "I'm John Smith"); err != nil {
		t.Fatalf("ExtractWithModel failed: %v", err)
	}

	if v, _ := a.Data.Value(domain.SectionPersonal, "firstName"); v != "John" {
		t.Errorf("Expected firstName=John, got %q", v)
	}
	if a.Data.IsSet(domain.SectionPersonal, "email") {
		t.Error("Invalid email must be rejected by the validator gate")
	}
}

func TestExtractWithModelToleratesProse(t *testing.T) {
	a := New()
	fc := &fakeCompleter{fn: func(_, _ string) (string, error) {
		return "Sure! Here is the data you asked for:\n{\"firstName\":\"Ada\"}\nLet me know if you need more.", nil
	}}

	if err := ExtractWithModel(context.Background(), fc, a, "call me Ada Lovelace"); err != nil {
		t.Fatalf("ExtractWithModel failed: %v", err)
	}
	if v, _ := a.Data.Value(domain.SectionPersonal, "firstName"); v != "Ada" {
		t.Errorf("Expected firstName=Ada, got %q", v)
	}
}

func TestExtractWithModelUnparseableResponse(t *testing.T) {
	a := New()
	fc := &fakeCompleter{fn: func(_, _ string) (string, error) {
		return "I could not find anything.", nil
	}}

	if err := ExtractWithModel(context.Background(), fc, a, "hello"); err == nil {
		t.Error("Expected an error for a response with no JSON object")
	}
	if a.Data.SetCount() != 0 {
		t.Error("Unparseable response must leave the record untouched")
	}
}

func TestExtractWithModelCompletionError(t *testing.T) {
	a := New()
	fc := &fakeCompleter{fn: func(_, _ string) (string, error) {
		return "", errors.New("boom")
	}}

	if err := ExtractWithModel(context.Background(), fc, a, "hello"); err == nil {
		t.Error("Expected completion error to propagate to the caller for logging")
	}
	if a.Data.SetCount() != 0 {
		t.Error("Failed extraction must leave the record untouched")
	}
}

func TestExtractWithModelSkipsWhenNothingMissing(t *testing.T) {
	a := New()
	fillSection(t, a, domain.SectionPersonal, personalValues())

	fc := &fakeCompleter{fn: func(_, _ string) (string, error) {
		return `{}`, nil
	}}
	if err := ExtractWithModel(context.Background(), fc, a, "hello"); err != nil {
		t.Fatalf("ExtractWithModel failed: %v", err)
	}
	if fc.calls != 0 {
		t.Error("Expected no completion call when the section has no missing fields")
	}
}

func TestNumericFieldExtraction(t *testing.T) {
	a := New()
	a.Section = domain.SectionProfessional

	fc := &fakeCompleter{fn: func(_, _ string) (string, error) {
		return `{"yearsOfExperience":"about 5 years","jobTitle":"Engineer"}`, nil
	}}
	if err := ExtractWithModel(context.Background(), fc, a, "I've been an engineer for about 5 years"); err != nil {
		t.Fatalf("ExtractWithModel failed: %v", err)
	}

	if v, _ := a.Data.Value(domain.SectionProfessional, "yearsOfExperience"); v != "5" {
		t.Errorf("Expected yearsOfExperience=5, got %q", v)
	}
	if v, _ := a.Data.Value(domain.SectionProfessional, "jobTitle"); v != "Engineer" {
		t.Errorf("Expected jobTitle=Engineer, got %q", v)
	}
}

func TestNumericValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"about 5 years", "5"},
		{"12", "12"},
		{"5.5", "5"},
		{"none", ""},
	}
	for _, tt := range tests {
		if got := numericValue(tt.input); got != tt.want {
			t.Errorf("numericValue(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
