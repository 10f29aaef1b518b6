// Package match turns the user-facing --filter glob into a filename predicate.
//
// The filter is not a plain glob: each '*' becomes ".*", every other character keeps its
// regular-expression meaning, and a leading ".*" is added when missing. Matching is anchored at
// the start of the final URL segment only, so "report.pdf" also selects "old_report.pdf" and
// "report.pdf.bak".
package match

import (
	"fmt"
	"regexp"
	"strings"

	"fetchanything/pkg/parse"
	"fetchanything/pkg/utils"
)

const anyPrefix = ".*"

// Matcher is a compiled download filter
type Matcher struct {
	pattern string // User pattern, as given
	re      *regexp.Regexp
}

// CompileFilter compiles a user pattern into a Matcher
func CompileFilter(userPattern string) (*Matcher, error) {
	expr := strings.ReplaceAll(userPattern, "*", anyPrefix)
	if !strings.HasPrefix(expr, anyPrefix) {
		expr = anyPrefix + expr
	}
	re, err := regexp.Compile("^(?:" + expr + ")")
	if err != nil {
		return nil, fmt.Errorf("%w: filter %q: %w", utils.ErrConfigValidation, userPattern, err)
	}
	return &Matcher{pattern: userPattern, re: re}, nil
}

// Matches reports whether the decoded final path segment of rawURL is selected by the filter
func (m *Matcher) Matches(rawURL string) bool {
	return m.re.MatchString(parse.FileName(rawURL))
}

// String returns the pattern as the user supplied it
func (m *Matcher) String() string { return m.pattern }

// Expr returns the effective regular expression, logged when a crawl starts
func (m *Matcher) Expr() string { return m.re.String() }
