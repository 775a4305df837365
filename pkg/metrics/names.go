package metrics

import (
	"fmt"
	"regexp"
	"strings"
)

// Name and suffix grammars, Prometheus conventions
var (
	nameRegex   = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
	suffixRegex = regexp.MustCompile(`^[a-zA-Z0-9_:]*$`)
)

// Name is a validated metric or label identifier. The zero value is empty and
// only produced by failed constructors; every Name obtained from NewName or
// MustName matches `[a-zA-Z_:][a-zA-Z0-9_:]*` and is immutable.
type Name struct {
	s string
}

// NewName validates s against the name grammar and returns it as a Name.
// This is the runtime validation path, for names computed at run time.
func NewName(s string) (Name, error) {
	if s == "" {
		return Name{}, &ValidationError{
			Field: "name",
			Value: s,
			Err:   fmt.Errorf("%w: name cannot be empty", ErrInvalidName),
		}
	}
	if !nameRegex.MatchString(s) {
		return Name{}, &ValidationError{
			Field: "name",
			Value: s,
			Err:   fmt.Errorf("%w: name %q must match [a-zA-Z_:][a-zA-Z0-9_:]*", ErrInvalidName, s),
		}
	}
	return Name{s: s}, nil
}

// MustName is the literal validation path: it validates s with the same rules
// as NewName and panics on failure. Intended for names known at build time,
// typically in package-level variable declarations, so a malformed literal
// fails at process start instead of surviving into a deployed binary.
func MustName(s string) Name {
	n, err := NewName(s)
	if err != nil {
		panic(fmt.Sprintf("metrics: invalid name %q: %v", s, err))
	}
	return n
}

// String returns the underlying text unchanged.
func (n Name) String() string {
	return n.s
}

// Append concatenates two names. Concatenation of two valid names is itself
// valid, and the operation is associative.
func (n Name) Append(o Name) Name {
	return Name{s: n.s + o.s}
}

// WithSuffix extends the name with a validated suffix, producing a new Name.
func (n Name) WithSuffix(sf Suffix) Name {
	return Name{s: n.s + sf.s}
}

// Compare orders names by their underlying text.
func (n Name) Compare(o Name) int {
	return strings.Compare(n.s, o.s)
}

// Less reports whether n orders before o.
func (n Name) Less(o Name) bool {
	return n.s < o.s
}

// Suffix is a validated name fragment matching `[a-zA-Z0-9_:]*`. Unlike Name
// the grammar admits the empty string and a leading digit, so a Suffix can
// only ever extend an existing Name, never start one.
type Suffix struct {
	s string
}

// NewSuffix validates s against the suffix grammar.
func NewSuffix(s string) (Suffix, error) {
	if !suffixRegex.MatchString(s) {
		return Suffix{}, &ValidationError{
			Field: "suffix",
			Value: s,
			Err:   fmt.Errorf("%w: suffix %q must match [a-zA-Z0-9_:]*", ErrInvalidSuffix, s),
		}
	}
	return Suffix{s: s}, nil
}

// MustSuffix validates s like NewSuffix and panics on failure.
func MustSuffix(s string) Suffix {
	sf, err := NewSuffix(s)
	if err != nil {
		panic(fmt.Sprintf("metrics: invalid suffix %q: %v", s, err))
	}
	return sf
}

// String returns the underlying text unchanged.
func (s Suffix) String() string {
	return s.s
}

// Append concatenates two suffixes.
func (s Suffix) Append(o Suffix) Suffix {
	return Suffix{s: s.s + o.s}
}

// nameStrings flattens validated label names into the positional string form
// the backend consumes.
func nameStrings(names []Name) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.s
	}
	return out
}
