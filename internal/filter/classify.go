package filter

import (
	"regexp"
	"strings"
)

type conditionKind int

const (
	kindField conditionKind = iota
	kindAttribute
	kindRelation
)

func (k conditionKind) String() string {
	switch k {
	case kindAttribute:
		return "attribute"
	case kindRelation:
		return "relation"
	}
	return "field"
}

const attributeMarker = "attribute:"

var (
	// languages HAS_ANY (PHP,Go) / locations IS_ANY (Remote) / categories EXISTS.
	// Any leaf carrying one of these tokens is a relationship condition, so a
	// malformed one fails as a relation instead of turning into a no-op field.
	relationAnyPattern    = regexp.MustCompile(`\s+(?:HAS_ANY|IS_ANY)\s+`)
	relationExistsPattern = regexp.MustCompile(`\s+EXISTS\b`)
	// languages=(PHP,Go); only routed when the name is a registered relation.
	relationEqualsPattern = regexp.MustCompile(`^\(*\s*([A-Za-z_][A-Za-z0-9_]*)\s*=`)
)

// classify routes a leaf condition: attribute conditions first, then relationship
// conditions, and everything else as a plain field comparison.
func (c *Compiler) classify(condition string) conditionKind {
	if strings.Contains(condition, attributeMarker) {
		return kindAttribute
	}
	if relationAnyPattern.MatchString(condition) || relationExistsPattern.MatchString(condition) {
		return kindRelation
	}
	if m := relationEqualsPattern.FindStringSubmatch(condition); m != nil {
		if _, ok := c.registry.Lookup(m[1]); ok {
			return kindRelation
		}
	}
	return kindField
}

// valueCutset is stripped from both ends of condition values.
const valueCutset = " \t\n\r\x00\x0B\"'()"

func trimValue(v string) string {
	return strings.Trim(v, valueCutset)
}

// splitValues splits a comma separated list, trimming whitespace around each entry.
func splitValues(v string) []string {
	parts := strings.Split(v, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
