package impact

import (
	"fmt"
	"regexp"
)

// compilePattern converts an exclude glob to an anchored matcher.
// The dialect is deliberately small and stable: '*' matches any run of
// characters (including '/'), '?' matches exactly one character, and
// everything else is literal.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	var sb []byte
	sb = append(sb, '^')
	for _, r := range pattern {
		switch r {
		case '*':
			sb = append(sb, ".*"...)
		case '?':
			sb = append(sb, '.')
		default:
			sb = append(sb, regexp.QuoteMeta(string(r))...)
		}
	}
	sb = append(sb, '$')

	re, err := regexp.Compile(string(sb))
	if err != nil {
		return nil, fmt.Errorf("malformed exclude pattern %q: %w", pattern, err)
	}
	return re, nil
}

// compilePatterns compiles every pattern, failing on the first bad one.
func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	matchers := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := compilePattern(p)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, re)
	}
	return matchers, nil
}

func matchesAny(matchers []*regexp.Regexp, path string) bool {
	for _, re := range matchers {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
