// Package agent implements the section-progression state machine for the
// conversational intake form, the two field-extraction strategies, and the
// per-turn orchestration service.
package agent

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/clearpath/intake/internal/domain"
)

// Agent owns one applicant's collected data and the current-section pointer.
// It is rebuilt from the persisted session at the start of every request and
// serialized back at the end; nothing here is shared between requests.
type Agent struct {
	Data    *domain.CollectedData
	Section domain.Section
}

// New returns a fresh agent positioned at the personal section.
func New() *Agent {
	return &Agent{
		Data:    domain.NewCollectedData(),
		Section: domain.SectionPersonal,
	}
}

// Rehydrate rebuilds an agent from a persisted session.
func Rehydrate(sess *domain.ApplicationSession) *Agent {
	a := &Agent{
		Data:    sess.Collected,
		Section: sess.CurrentSection,
	}
	if a.Data == nil {
		a.Data = domain.NewCollectedData()
	}
	if !a.Section.Valid() {
		a.Section = domain.SectionPersonal
	}
	return a
}

// MissingFields returns the unset fields of the current section, in schema
// order. Optional fields are included so extraction can still fill them.
func (a *Agent) MissingFields() []domain.Field {
	ss, ok := domain.SchemaFor(a.Section)
	if !ok {
		return nil
	}
	var missing []domain.Field
	for _, f := range ss.Fields {
		if !a.Data.IsSet(a.Section, f.Name) {
			missing = append(missing, f)
		}
	}
	return missing
}

// SectionComplete reports whether every required field of the current
// section is set, including any confirmation flags.
func (a *Agent) SectionComplete() bool {
	ss, ok := domain.SchemaFor(a.Section)
	if !ok {
		return false
	}
	for _, f := range ss.Fields {
		if !f.Required {
			continue
		}
		if !a.Data.IsSet(a.Section, f.Name) {
			return false
		}
		if f.ConfirmFlag != "" && !a.Data.Confirmed(f.ConfirmFlag) {
			return false
		}
	}
	return true
}

// Advance moves the pointer to the next section and reports whether it
// moved. It returns false at the final section.
func (a *Agent) Advance() bool {
	next, ok := a.Section.Next()
	if !ok {
		return false
	}
	a.Section = next
	return true
}

// ApplicationComplete reports whether the final section has been completed.
func (a *Agent) ApplicationComplete() bool {
	return a.Section == domain.SectionFamily && a.SectionComplete()
}

// CompletionPercentage is the share of all schema fields currently set,
// rounded to the nearest integer. Fields are never cleared, so this is
// monotonically non-decreasing over a session's lifetime.
func (a *Agent) CompletionPercentage() int {
	total := domain.TotalFieldCount()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(a.Data.SetCount()) / float64(total) * 100))
}

// SystemPrompt renders the instruction string sent as the system role on
// every turn. It is a pure function of the agent's state: same state, same
// prompt.
func (a *Agent) SystemPrompt() string {
	ss, _ := domain.SchemaFor(a.Section)

	collected, err := json.Marshal(a.Data)
	if err != nil {
		collected = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("You are a friendly assistant helping an applicant complete a financial application over chat.\n")
	fmt.Fprintf(&b, "Current section: %s.\n", a.Section)
	if ss.Guidance != "" {
		fmt.Fprintf(&b, "Section guidance: %s\n", ss.Guidance)
	}
	fmt.Fprintf(&b, "Data collected so far: %s\n", collected)

	missing := a.MissingFields()
	if len(missing) == 0 {
		b.WriteString("All fields in this section are filled. Acknowledge the applicant's message and let them know you are moving on.\n")
	} else {
		b.WriteString("Fields still needed in this section:\n")
		for _, f := range missing {
			fmt.Fprintf(&b, "- %s\n", f.Label)
		}
		b.WriteString("Ask for one or two of the missing details at a time, conversationally. Never re-ask for data already collected.\n")
	}
	return b.String()
}

// Summary renders every section and field, substituting "Not provided" for
// unset values. Used once the application is complete.
func (a *Agent) Summary() string {
	var b strings.Builder
	b.WriteString("Application Summary\n")
	for _, ss := range domain.Schema {
		fmt.Fprintf(&b, "\n%s\n", strings.ToUpper(string(ss.Section)))
		for _, f := range ss.Fields {
			value, ok := a.Data.Value(ss.Section, f.Name)
			if !ok {
				value = "Not provided"
			}
			fmt.Fprintf(&b, "%s: %s\n", f.Label, value)
		}
	}
	return b.String()
}
