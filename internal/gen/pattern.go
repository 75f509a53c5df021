package gen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern decides whether a generator accepts a unit name.
type Pattern interface {
	Matches(name string) bool
	String() string
}

type regexpPattern struct{ re *regexp.Regexp }

// Regexp accepts names matched anywhere by expr, e.g. `\.java$`.
func Regexp(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %w", ErrInvalidRegistration, expr, err)
	}
	return regexpPattern{re: re}, nil
}

// MustRegexp is Regexp for package-level registrations.
func MustRegexp(expr string) Pattern {
	p, err := Regexp(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func (p regexpPattern) Matches(name string) bool { return p.re.MatchString(name) }
func (p regexpPattern) String() string           { return p.re.String() }

type globPattern struct{ expr string }

// Glob accepts names matched by a doublestar glob such as "**/*.java".
// The memo:/// scheme is stripped before matching.
func Glob(expr string) (Pattern, error) {
	if !doublestar.ValidatePattern(expr) {
		return nil, fmt.Errorf("%w: bad glob %q", ErrInvalidRegistration, expr)
	}
	return globPattern{expr: expr}, nil
}

func (p globPattern) Matches(name string) bool {
	name = strings.TrimPrefix(name, "memo:///")
	ok, err := doublestar.Match(p.expr, name)
	return err == nil && ok
}

func (p globPattern) String() string { return p.expr }
