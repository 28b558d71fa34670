// Package password wraps bcrypt hashing and the account password policy.
package password

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// SpecialChars is the set of characters that satisfy the special-character
// strength rule.
const SpecialChars = `!@#$%^&*(),.?":{}|<>`

// Hash returns the bcrypt hash of raw. The raw value itself is never stored.
func Hash(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Check reports whether raw hashes to the stored hash.
func Check(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

type strengthRule struct {
	ok     func(string) bool
	reason string
}

// Rules are evaluated in order and the first failure wins, so a caller always
// sees a single actionable reason.
var strengthRules = []strengthRule{
	{
		ok:     func(p string) bool { return len(p) >= 8 },
		reason: "Password must be at least 8 characters long",
	},
	{
		ok:     func(p string) bool { return strings.IndexFunc(p, unicode.IsUpper) >= 0 },
		reason: "Password must contain at least one uppercase letter",
	},
	{
		ok:     func(p string) bool { return strings.IndexFunc(p, unicode.IsLower) >= 0 },
		reason: "Password must contain at least one lowercase letter",
	},
	{
		ok:     func(p string) bool { return strings.IndexFunc(p, unicode.IsDigit) >= 0 },
		reason: "Password must contain at least one digit",
	},
	{
		ok:     func(p string) bool { return strings.ContainsAny(p, SpecialChars) },
		reason: "Password must contain at least one special character (!@#$%^&*(), etc.)",
	},
}

// ValidateStrength checks raw against the password policy: at least 8
// characters with an uppercase letter, a lowercase letter, a digit and a
// special character. On failure it returns false and the reason for the first
// rule that failed.
func ValidateStrength(raw string) (bool, string) {
	for _, rule := range strengthRules {
		if !rule.ok(raw) {
			return false, rule.reason
		}
	}
	return true, "Password meets security standards"
}
