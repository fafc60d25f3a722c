package profile

import "testing"

func TestValidateName(t *testing.T) {
	valid := []string{"main", "work", "a", "user_2", "some-profile", "0123456789"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) error = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "Main", "has space", "dot.name", "über", "x/y",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", name)
		}
	}
}
