package filterengine

import (
	"regexp"
	"strings"

	"github.com/coregx/coregex"
)

// matcher is the minimal surface both coregex.Regex and stdlib *regexp.Regexp
// satisfy. Generalizes the teacher's internal/regex/regex.go literal/regex
// dispatch: there it picked between a literal bytes.Contains fast path and
// regexp.Regexp; here it picks between coregex (fast path for the common
// case) and stdlib regexp (fallback for constructs coregex rejects, e.g.
// some inline flag forms).
type matcher interface {
	Match(b []byte) bool
	MatchString(s string) bool
}

// compiledPattern wraps whichever engine compiled a given pattern, and
// records in stdlib whether it fell back to the standard library.
type compiledPattern struct {
	pattern   string
	re        matcher
	stdlib    bool
	isLiteral bool
	literal   string
}

// compilePattern compiles pattern with coregex, falling back to the
// standard library's regexp package if coregex rejects it. An empty,
// "." or ".*" pattern still compiles (it is a universal matcher) for
// parity with the teacher's regex.NewNoop, but the Filter Engine itself
// never compiles empty patterns -- spec §3 drops those before this is
// called.
func compilePattern(pattern string) (*compiledPattern, error) {
	cp := &compiledPattern{pattern: pattern}

	if lit, ok := literalOf(pattern); ok {
		cp.isLiteral = true
		cp.literal = lit
	}

	if re, err := coregex.Compile(pattern); err == nil {
		cp.re = re
		return cp, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	cp.re = re
	cp.stdlib = true
	return cp, nil
}

// Match reports whether b satisfies the compiled pattern.
func (cp *compiledPattern) Match(b []byte) bool {
	if cp.isLiteral {
		return strings.Contains(string(b), cp.literal)
	}
	return cp.re.Match(b)
}

// MatchString reports whether s satisfies the compiled pattern. Used by
// callers that already hold a decoded string line rather than the raw
// mmap'd bytes (spec §4.4: get_log_lines returns decoded strings).
func (cp *compiledPattern) MatchString(s string) bool {
	if cp.isLiteral {
		return strings.Contains(s, cp.literal)
	}
	return cp.re.MatchString(s)
}

// literalOf reports whether pattern contains no regex metacharacters, in
// which case it can be matched with strings.Contains instead of running
// either regex engine -- the same optimization the teacher's
// isLiteralPattern applies, conservatively: any metacharacter disqualifies
// the fast path.
func literalOf(pattern string) (string, bool) {
	const metaChars = `.+*?^$[]{}()|\`
	if pattern == "" {
		return "", false
	}
	for _, ch := range pattern {
		if strings.ContainsRune(metaChars, ch) {
			return "", false
		}
	}
	return pattern, true
}

// compileSearch wraps a free-text search query as "(?i)<query>" per spec §4.1.
func compileSearch(query string) (*compiledPattern, error) {
	return compilePattern("(?i)" + query)
}
