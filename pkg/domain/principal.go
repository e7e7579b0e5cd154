package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	dErrors "agencyreg/pkg/domain-errors"
)

// MaxPrincipalLength bounds identity values accepted at trust boundaries.
const MaxPrincipalLength = 128

// Principal is an opaque identity: the registry admin, a caller, or an
// agency key. Values compare by equality and are safe as map keys.
type Principal string

// ParsePrincipal validates raw input and returns a Principal.
// Surrounding whitespace is trimmed; embedded whitespace and control
// characters are rejected.
func ParsePrincipal(s string) (Principal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal is required")
	}
	if len(s) > MaxPrincipalLength {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal exceeds max length")
	}
	if !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal must be valid UTF-8")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "principal contains invalid characters")
		}
	}
	return Principal(s), nil
}

// MustPrincipal is ParsePrincipal for fixtures and constants. It panics on
// invalid input.
func MustPrincipal(s string) Principal {
	p, err := ParsePrincipal(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Principal) String() string {
	return string(p)
}

// IsZero reports whether p is the empty identity.
func (p Principal) IsZero() bool {
	return p == ""
}
