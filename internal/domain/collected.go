package domain

import (
	"encoding/json"
	"strings"
)

// CollectedData holds every value gathered so far, partitioned by section.
// The field set per section is fixed by the schema table; values are either
// absent or a validated string, and are never cleared once set. The personal
// section additionally carries the email/date-of-birth confirmation flags.
type CollectedData struct {
	values    map[Section]map[string]string
	confirmed map[string]bool
}

// NewCollectedData returns an empty record covering every schema section.
func NewCollectedData() *CollectedData {
	d := &CollectedData{
		values:    make(map[Section]map[string]string, len(Schema)),
		confirmed: make(map[string]bool, 2),
	}
	for _, ss := range Schema {
		d.values[ss.Section] = make(map[string]string, len(ss.Fields))
	}
	return d
}

// Value returns the stored value for a field and whether it is set.
func (d *CollectedData) Value(section Section, field string) (string, bool) {
	v, ok := d.values[section][field]
	return v, ok
}

// IsSet reports whether a field has a value.
func (d *CollectedData) IsSet(section Section, field string) bool {
	_, ok := d.values[section][field]
	return ok
}

// Set stores a value for a known schema field. It refuses to overwrite an
// already-set field and ignores unknown field names; it reports whether the
// value was stored. Storing a value for a field with a confirmation flag
// also raises the flag.
func (d *CollectedData) Set(section Section, field, value string) bool {
	ss, ok := SchemaFor(section)
	if !ok {
		return false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, f := range ss.Fields {
		if f.Name != field {
			continue
		}
		if _, exists := d.values[section][field]; exists {
			return false
		}
		d.values[section][field] = value
		if f.ConfirmFlag != "" {
			d.confirmed[f.ConfirmFlag] = true
		}
		return true
	}
	return false
}

// Confirmed reports the state of a confirmation flag.
func (d *CollectedData) Confirmed(flag string) bool {
	return d.confirmed[flag]
}

// SetCount returns the number of set fields plus raised confirmation flags,
// the completion-percentage numerator.
func (d *CollectedData) SetCount() int {
	n := 0
	for _, ss := range Schema {
		for _, f := range ss.Fields {
			if d.IsSet(ss.Section, f.Name) {
				n++
			}
			if f.ConfirmFlag != "" && d.confirmed[f.ConfirmFlag] {
				n++
			}
		}
	}
	return n
}

// MarshalJSON renders the record with every schema field present, null when
// unset, plus the confirmation flags on their owning section.
func (d *CollectedData) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]any, len(Schema))
	for _, ss := range Schema {
		sec := make(map[string]any, len(ss.Fields))
		for _, f := range ss.Fields {
			if v, ok := d.values[ss.Section][f.Name]; ok {
				sec[f.Name] = v
			} else {
				sec[f.Name] = nil
			}
			if f.ConfirmFlag != "" {
				sec[f.ConfirmFlag] = d.confirmed[f.ConfirmFlag]
			}
		}
		out[string(ss.Section)] = sec
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a record, silently ignoring unknown sections and
// fields so the stored shape can evolve with the schema.
func (d *CollectedData) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fresh := NewCollectedData()
	for _, ss := range Schema {
		secRaw, ok := raw[string(ss.Section)]
		if !ok {
			continue
		}
		for _, f := range ss.Fields {
			if v, ok := secRaw[f.Name].(string); ok && v != "" {
				fresh.values[ss.Section][f.Name] = v
			}
			if f.ConfirmFlag != "" {
				if b, ok := secRaw[f.ConfirmFlag].(bool); ok && b {
					fresh.confirmed[f.ConfirmFlag] = true
				}
			}
		}
	}
	*d = *fresh
	return nil
}
