// Package globpat implements find -path matching semantics.
//
// It follows fnmatch(3) without FNM_PATHNAME:
//   - * matches any characters including /
//   - ? matches exactly one character including /
//   - [...] matches one character from the set including /
//   - \ escapes the next character
//
// This differs from Go's filepath.Match where * stops at directory
// separators.
package globpat

import (
	"fmt"
	"regexp"
	"strings"
)

// Set is a compiled group of patterns reusable across many paths.
type Set struct {
	res []*regexp.Regexp
}

// Compile translates each pattern into an anchored regexp.
func Compile(patterns []string) (*Set, error) {
	set := &Set{res: make([]*regexp.Regexp, 0, len(patterns))}

	for _, pattern := range patterns {
		expr, err := translate(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}

		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}

		set.res = append(set.res, re)
	}

	return set, nil
}

// Match reports whether path matches any pattern in the set.
func (s *Set) Match(path string) bool {
	for _, re := range s.res {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// Len returns the number of compiled patterns.
func (s *Set) Len() int {
	return len(s.res)
}

// Match reports whether path matches a single pattern.
func Match(pattern, path string) (bool, error) {
	set, err := Compile([]string{pattern})
	if err != nil {
		return false, err
	}

	return set.Match(path), nil
}

// translate converts one glob pattern into an anchored regexp source.
func translate(pattern string) (string, error) {
	var sb strings.Builder

	sb.WriteString("^")

	for i := 0; i < len(pattern); {
		switch c := pattern[i]; c {
		case '*':
			sb.WriteString(".*")
			i++

		case '?':
			sb.WriteString(".")
			i++

		case '\\':
			if i == len(pattern)-1 {
				return "", fmt.Errorf("trailing backslash")
			}

			sb.WriteString(regexp.QuoteMeta(string(pattern[i+1])))
			i += 2

		case '[':
			end, err := classEnd(pattern, i)
			if err != nil {
				return "", err
			}

			class := pattern[i : end+1]
			// fnmatch negation is [!...]; regexp wants [^...]
			if strings.HasPrefix(class, "[!") {
				class = "[^" + class[2:]
			}

			sb.WriteString(class)
			i = end + 1

		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}

	sb.WriteString("$")

	return sb.String(), nil
}

// classEnd returns the index of the ] closing the character class that
// starts at open. A ] directly after [ or [! is a literal member.
func classEnd(pattern string, open int) (int, error) {
	i := open + 1

	if i < len(pattern) && pattern[i] == '!' {
		i++
	}

	if i < len(pattern) && pattern[i] == ']' {
		i++
	}

	for ; i < len(pattern); i++ {
		if pattern[i] == ']' {
			return i, nil
		}
	}

	return 0, fmt.Errorf("unclosed character class")
}
