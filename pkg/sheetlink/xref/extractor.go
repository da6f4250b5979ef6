package xref

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultSerialPattern matches engine serial numbers written as "ESN 10499"
// or as bare five-digit 9xxxx serials.
const DefaultSerialPattern = `(?i)\bESN\s*(\d{4,6})\b|\b(9[0-9]{4})\b`

// TextKeyExtractor finds linkable identifiers inside free text such as
// comments and line descriptions.
type TextKeyExtractor interface {
	// KeyType is the group the found values are indexed under.
	KeyType() KeyType
	// FindKeys returns the identifiers in text, in order of appearance.
	FindKeys(text string) []string
}

// RegexpExtractor finds identifiers with regular expressions. For each match
// the first non-empty capture group is the value, or the whole match when the
// pattern has no groups.
type RegexpExtractor struct {
	keyType  KeyType
	patterns []*regexp.Regexp
}

// NewRegexpExtractor compiles patterns into an extractor for keyType.
func NewRegexpExtractor(keyType KeyType, patterns ...string) (*RegexpExtractor, error) {
	x := &RegexpExtractor{keyType: keyType}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile %s pattern %q: %w", keyType, p, err)
		}
		x.patterns = append(x.patterns, re)
	}
	return x, nil
}

// SerialExtractor returns the default engine serial extractor.
func SerialExtractor() *RegexpExtractor {
	return &RegexpExtractor{keyType: KeyESN, patterns: []*regexp.Regexp{regexp.MustCompile(DefaultSerialPattern)}}
}

func (x *RegexpExtractor) KeyType() KeyType { return x.keyType }

func (x *RegexpExtractor) FindKeys(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, re := range x.patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if v := firstGroup(m); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func firstGroup(m []string) string {
	if len(m) == 1 {
		return strings.TrimSpace(m[0])
	}
	for _, g := range m[1:] {
		if g = strings.TrimSpace(g); g != "" {
			return g
		}
	}
	return ""
}
