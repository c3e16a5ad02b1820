package model

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

const dniLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

var (
	dniPattern = regexp.MustCompile(`^[0-9]{8}[a-zA-Z]$`)

	ErrInvalidDNI = errors.New("must be 8 digits followed by a valid control letter")
)

// NormalizeDNI trims and upper-cases the control letter.
func NormalizeDNI(dni string) string {
	return strings.ToUpper(strings.TrimSpace(dni))
}

// ValidateDNI checks format and control letter (number mod 23).
// Used as an ozzo rule through validation.By.
func ValidateDNI(value interface{}) error {
	s, _ := value.(string)
	s = NormalizeDNI(s)
	if s == "" {
		return nil // Required handles blanks
	}
	if !dniPattern.MatchString(s) {
		return ErrInvalidDNI
	}
	n, err := strconv.Atoi(s[:8])
	if err != nil {
		return ErrInvalidDNI
	}
	if dniLetters[n%23] != s[8] {
		return ErrInvalidDNI
	}
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
