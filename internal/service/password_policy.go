package service

import (
	"strings"
	"unicode"
)

// PasswordPolicy is the configurable complexity validator applied when an
// account is created or a password is changed.
type PasswordPolicy struct {
	MinLength int
	common    map[string]struct{}
}

// commonPasswords is a short list of passwords that show up first in every
// credential stuffing dictionary.
var commonPasswords = []string{
	"password", "password1", "password123", "passw0rd", "123456", "12345678", "123456789",
	"1234567890", "qwerty", "qwerty123", "qwertyuiop", "abc123", "111111", "000000",
	"iloveyou", "admin", "admin123", "administrator", "welcome", "welcome1", "letmein",
	"monkey", "dragon", "football", "baseball", "sunshine", "princess", "master",
	"contraseña", "contrasena", "condominio", "superman", "trustno1", "changeme",
}

// NewPasswordPolicy returns a policy requiring at least minLength runes.
// Values below 1 fall back to 8.
func NewPasswordPolicy(minLength int) PasswordPolicy {
	if minLength < 1 {
		minLength = 8
	}
	set := make(map[string]struct{}, len(commonPasswords))
	for _, p := range commonPasswords {
		set[p] = struct{}{}
	}
	return PasswordPolicy{MinLength: minLength, common: set}
}

// Validate checks password against the policy.  The attribute values
// (username, email, names) must not appear inside the password.  The
// returned error is a *PasswordError or nil.
func (p PasswordPolicy) Validate(password string, attrs ...string) error {
	var problems []string
	if n := len([]rune(password)); n < p.MinLength {
		problems = append(problems, "password is too short")
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		problems = append(problems, "password is entirely numeric")
	}
	lower := strings.ToLower(password)
	if _, ok := p.common[lower]; ok {
		problems = append(problems, "password is too common")
	}
	for _, a := range attrs {
		a = strings.ToLower(strings.TrimSpace(a))
		if i := strings.IndexByte(a, '@'); i > 0 {
			a = a[:i]
		}
		if len(a) >= 3 && strings.Contains(lower, a) {
			problems = append(problems, "password is too similar to the account details")
			break
		}
	}
	if len(problems) > 0 {
		return &PasswordError{Problems: problems}
	}
	return nil
}
