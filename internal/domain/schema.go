package domain

import "github.com/clearpath/intake/internal/validate"

// Field describes one collectable field within a section.
type Field struct {
	// Name is the JSON key for the field.
	Name string
	// Label is the human-readable name used in prompts and summaries.
	Label string
	// Required marks fields that gate section completion. Optional fields
	// still count toward the completion percentage.
	Required bool
	// Numeric marks fields whose value should be reduced to a digit run
	// when the model returns surrounding prose ("about 5 years" -> "5").
	Numeric bool
	// ConfirmFlag, when non-empty, names the confirmation flag set alongside
	// the field once a validated value is accepted.
	ConfirmFlag string
	// Validate gates candidate values from either extraction strategy.
	// A nil validator accepts any non-empty value.
	Validate func(string) bool
}

// SectionSchema binds a section to its ordered field list and the guidance
// text rendered into the system prompt while the section is active.
type SectionSchema struct {
	Section  Section
	Fields   []Field
	Guidance string
}

// Schema is the single declarative source for the intake form. Prompt text,
// the extraction schema, completion checks, the percentage denominator and
// JSON marshalling all derive from this table.
var Schema = []SectionSchema{
	{
		Section: SectionPersonal,
		Fields: []Field{
			{Name: "firstName", Label: "First name", Required: true, Validate: validate.Name},
			{Name: "middleName", Label: "Middle name", Validate: validate.Name},
			{Name: "lastName", Label: "Last name", Required: true, Validate: validate.Name},
			{Name: "email", Label: "Email address", Required: true, ConfirmFlag: FlagEmailConfirmed, Validate: validate.Email},
			{Name: "phoneNumber", Label: "Phone number", Required: true, Validate: validate.PhoneNumber},
			{Name: "dateOfBirth", Label: "Date of birth", Required: true, ConfirmFlag: FlagDOBConfirmed, Validate: validate.DateOfBirth},
			{Name: "nationality", Label: "Nationality", Required: true},
		},
		Guidance: "Collect the applicant's identity details. Dates of birth may be given as YYYY-MM-DD or day-first DD/MM/YYYY. Applicants must be at least 18 years old.",
	},
	{
		Section: SectionEducational,
		Fields: []Field{
			{Name: "highestQualification", Label: "Highest qualification", Required: true},
			{Name: "institution", Label: "Institution", Required: true},
			{Name: "fieldOfStudy", Label: "Field of study", Required: true},
			{Name: "graduationYear", Label: "Graduation year", Required: true},
		},
		Guidance: "Collect the applicant's education background: highest qualification, where they studied, what they studied, and when they graduated.",
	},
	{
		Section: SectionProfessional,
		Fields: []Field{
			{Name: "employmentStatus", Label: "Employment status", Required: true},
			{Name: "employer", Label: "Employer", Required: true},
			{Name: "jobTitle", Label: "Job title", Required: true},
			{Name: "yearsOfExperience", Label: "Years of experience", Required: true, Numeric: true},
			{Name: "annualIncome", Label: "Annual income", Required: true},
		},
		Guidance: "Collect the applicant's work situation. Years of experience should be a number; income can be stated in any currency.",
	},
	{
		Section: SectionFamily,
		Fields: []Field{
			{Name: "maritalStatus", Label: "Marital status", Required: true},
			{Name: "dependents", Label: "Number of dependents", Required: true},
			{Name: "emergencyContactName", Label: "Emergency contact name", Required: true, Validate: validate.Name},
			{Name: "emergencyContactPhone", Label: "Emergency contact phone", Required: true, Validate: validate.PhoneNumber},
		},
		Guidance: "Collect family details and an emergency contact. This is the final section of the application.",
	},
}

// Confirmation flag names carried by the personal section.
const (
	FlagEmailConfirmed = "emailConfirmed"
	FlagDOBConfirmed   = "dobConfirmed"
)

// SchemaFor returns the schema entry for a section.
func SchemaFor(section Section) (SectionSchema, bool) {
	for _, ss := range Schema {
		if ss.Section == section {
			return ss, true
		}
	}
	return SectionSchema{}, false
}

// FieldCount returns the number of countable slots in a section: every field
// plus any confirmation flags.
func (ss SectionSchema) FieldCount() int {
	n := len(ss.Fields)
	for _, f := range ss.Fields {
		if f.ConfirmFlag != "" {
			n++
		}
	}
	return n
}

// TotalFieldCount is the completion-percentage denominator: every field and
// confirmation flag across all sections.
func TotalFieldCount() int {
	total := 0
	for _, ss := range Schema {
		total += ss.FieldCount()
	}
	return total
}
