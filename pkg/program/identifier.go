package program

import "strings"

// Identifier values name the symbolic objects of a mathematical
// program: index-set elements, parameters and decision variables.
type Identifier string

func (id Identifier) String() string {
	return string(id)
}

// IdentifierFromString canonicalizes a single user-entered name:
// surrounding whitespace is trimmed and inner spaces become
// underscores.
func IdentifierFromString(s string) Identifier {
	return Identifier(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
}

// ParseIdentifierList turns comma-separated text into an ordered list
// of canonical identifiers. Empty segments are dropped. Duplicates are
// not detected here; they surface later as model assembly conflicts.
func ParseIdentifierList(text string) []Identifier {
	ids := make([]Identifier, 0)
	for _, segment := range strings.Split(text, ",") {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		ids = append(ids, IdentifierFromString(segment))
	}
	return ids
}
