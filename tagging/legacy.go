package tagging

import "strings"

// noPeopleSentinel is the historical magic value written into a media
// item's legacy tag list to mean "explicitly no people", not "entity 1".
const noPeopleSentinel = "1"

// LegacyList is the parsed form of a media item's legacy tag list field.
// Parsing happens once at this boundary so downstream code never has to
// re-interpret the raw string or its sentinel value. The zero value is an
// absent/empty list.
type LegacyList struct {
	// Tokens are the trimmed, non-empty entries in written order.
	Tokens []string
	// Sentinel is set when the field held exactly the no-people sentinel.
	// A sentinel list parses as empty (no tokens).
	Sentinel bool
}

// IsEmpty reports whether the list carries no ordering information.
func (l LegacyList) IsEmpty() bool {
	return len(l.Tokens) == 0
}

// ParseLegacyList parses the raw comma-separated legacy field. A nil or
// blank value yields an empty list. Whitespace around tokens is trimmed and
// empty tokens are dropped. The value "1" on its own is the historical
// "no people" sentinel and is treated as empty, flagged for the reconciler.
func ParseLegacyList(raw *string) LegacyList {
	if raw == nil {
		return LegacyList{}
	}
	var tokens []string
	for _, part := range strings.Split(*raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tokens = append(tokens, part)
		}
	}
	if len(tokens) == 1 && tokens[0] == noPeopleSentinel {
		return LegacyList{Sentinel: true}
	}
	return LegacyList{Tokens: tokens}
}
