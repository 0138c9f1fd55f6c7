package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/clearpath/intake/internal/domain"
	"github.com/clearpath/intake/internal/llm"
)

// Model-assisted extraction: ask the completion service for a JSON object
// keyed by exactly the fields still missing in the current section, then
// apply the same validator gate as pattern extraction. Callers swallow every
// error from this path; a failed extraction just means no progress.

const extractionSystemPrompt = "You extract structured data from chat messages for a financial application form. " +
	"Respond with a single JSON object and nothing else."

var extractionParams = llm.Params{Temperature: 0.1, MaxTokens: 300, TopP: 1}

var digitRun = regexp.MustCompile(`\d+`)

// ExtractWithModel runs one schema-constrained extraction call and merges
// validated values into the agent. The returned error is for logging only.
func ExtractWithModel(ctx context.Context, completer llm.Completer, a *Agent, message string) error {
	missing := a.MissingFields()
	if len(missing) == 0 {
		return nil
	}

	raw, err := completer.Complete(ctx, extractionSystemPrompt, buildExtractionPrompt(a.Section, missing, message), extractionParams)
	if err != nil {
		return fmt.Errorf("extraction completion: %w", err)
	}

	parsed, err := parseExtraction(raw)
	if err != nil {
		return fmt.Errorf("parse extraction response: %w", err)
	}

	applyExtracted(a, missing, parsed)
	return nil
}

func buildExtractionPrompt(section domain.Section, missing []domain.Field, message string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The conversation is collecting the %q section of the form.\n", section)
	b.WriteString("From the user message below, extract values for these fields:\n")
	for _, f := range missing {
		fmt.Fprintf(&b, "- %q: %s\n", f.Name, f.Label)
	}
	b.WriteString("Return a JSON object with exactly those keys. Use a string value when the message states the fact, or null when it does not. Do not guess.\n")
	fmt.Fprintf(&b, "User message: %s\n", message)
	return b.String()
}

// parseExtraction decodes the model output, tolerating surrounding prose by
// falling back to the first brace-delimited substring.
func parseExtraction(raw string) (map[string]any, error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return parsed, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("decode JSON substring: %w", err)
	}
	return parsed, nil
}

// applyExtracted merges parsed values for the requested fields. Unknown keys
// and nulls are ignored; each value must pass the field's validator.
func applyExtracted(a *Agent, missing []domain.Field, parsed map[string]any) {
	for _, f := range missing {
		v, ok := parsed[f.Name]
		if !ok || v == nil {
			continue
		}
		value := strings.TrimSpace(stringify(v))
		if value == "" {
			continue
		}
		if f.Numeric {
			value = numericValue(value)
			if value == "" {
				continue
			}
		}
		if f.Validate != nil && !f.Validate(value) {
			continue
		}
		a.Data.Set(a.Section, f.Name, value)
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// numericValue reduces free text to its first digit run ("about 5 years"
// -> "5"), falling back to the raw value when it already parses as a number.
func numericValue(value string) string {
	if m := digitRun.FindString(value); m != "" {
		return m
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return value
	}
	return ""
}
