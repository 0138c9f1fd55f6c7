// Package domain defines the application intake data model: the fixed
// section progression, the field schema, and the per-session state record.
package domain

// Section is one of the four fixed topical groups of fields, collected in
// strict order. The pointer only ever moves forward.
type Section string

const (
	SectionPersonal     Section = "personal"
	SectionEducational  Section = "educational"
	SectionProfessional Section = "professional"
	SectionFamily       Section = "family"
)

var sectionOrder = []Section{
	SectionPersonal,
	SectionEducational,
	SectionProfessional,
	SectionFamily,
}

// SectionOrder returns the fixed progression order.
func SectionOrder() []Section {
	out := make([]Section, len(sectionOrder))
	copy(out, sectionOrder)
	return out
}

// Next returns the section following s. ok is false when s is the last
// section (or unknown).
func (s Section) Next() (next Section, ok bool) {
	for i, sec := range sectionOrder {
		if sec == s && i+1 < len(sectionOrder) {
			return sectionOrder[i+1], true
		}
	}
	return s, false
}

// Valid reports whether s names a known section.
func (s Section) Valid() bool {
	for _, sec := range sectionOrder {
		if sec == s {
			return true
		}
	}
	return false
}
