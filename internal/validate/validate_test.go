package validate

import (
	"testing"
	"time"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"a@b.co", true},
		{"john@example.com", true},
		{"first.last@sub.domain.org", true},
		{"plainaddress", false},
		{"missing-at.example.com", false},
		{"no-dot@domain", false},
		{"spaces in@domain.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Email(tt.input); got != tt.want {
			t.Errorf("Email(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"John", true},
		{"Mary Jane", true},
		{"O'Brien", true},
		{"Smith-Jones", true},
		{"  Al  ", true},
		{"J", false},
		{"", false},
		{"John3", false},
		{"J@ne", false},
	}

	for _, tt := range tests {
		if got := Name(tt.input); got != tt.want {
			t.Errorf("Name(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPhoneNumber(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"+1 (234) 567-8900", true},
		{"1234567890", true},
		{"123-456-78901", true},
		{"12345", false},
		{"123456789", false},
		{"12345abcde", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := PhoneNumber(tt.input); got != tt.want {
			t.Errorf("PhoneNumber(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDateOfBirth(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  bool
	}{
		{"1990-01-01", true},
		{"31/12/1990", true},
		{"31-12-1990", true},
		{"2008-06-15", true},  // exactly 18 today
		{"2008-06-16", false}, // one day short of 18
		{"2020-01-01", false}, // minor
		{"2030-01-01", false}, // future
		{"1990-13-01", false}, // no 13th month
		{"13/13/1990", false},
		{"not a date", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := dateOfBirthAt(tt.input, now); got != tt.want {
			t.Errorf("dateOfBirthAt(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDateOfBirthAgeRange(t *testing.T) {
	now := time.Now()

	adult := now.AddDate(-30, 0, 0).Format("2006-01-02")
	if !DateOfBirth(adult) {
		t.Errorf("Expected %q (30 years ago) to be valid", adult)
	}

	elderly := now.AddDate(-119, 0, 0).Format("2006-01-02")
	if !DateOfBirth(elderly) {
		t.Errorf("Expected %q (119 years ago) to be valid", elderly)
	}

	minor := now.AddDate(-17, 0, 0).Format("2006-01-02")
	if DateOfBirth(minor) {
		t.Errorf("Expected %q (17 years ago) to be rejected", minor)
	}

	future := now.AddDate(1, 0, 0).Format("2006-01-02")
	if DateOfBirth(future) {
		t.Errorf("Expected %q (future) to be rejected", future)
	}
}
