package lang

import (
	"maps"
	"slices"
	"strings"
)

// keywords is the set of words a run may spell to act as a keyword.
//
//nolint:gochecknoglobals
var keywords = map[string]struct{}{
	"meow":  {},
	"miaou": {},
	"miao":  {},
	"nyan":  {},
	"にゃん":   {},
	"야옹":    {},
	"喵":     {},
	"miau":  {},
	"miauw": {},
	"mjau":  {},
	"mjav":  {},
	"miyav": {},
	"мяу":   {},
	"miaow": {},
	"nya":   {},
	"ニャー":   {},
	"냐옹":    {},
	"貓":     {},
	"猫":     {},
}

// IsKeyword reports whether s, once trimmed and case folded, is one of the
// recognized keyword spellings.
func IsKeyword(s string) bool {
	_, ok := keywords[strings.ToLower(strings.TrimSpace(s))]

	return ok
}

// Keywords returns every recognized keyword spelling in sorted order.
func Keywords() []string {
	return slices.Sorted(maps.Keys(keywords))
}

// Classify returns the StyleKey of r if r is a keyword run.
// Image runs are never keywords. The spelling is only a gate: two keyword
// runs with the same style classify to the same key.
func Classify(r Run) (StyleKey, bool) {
	if r.HasImage() || !IsKeyword(r.Text) {
		return StyleKey{}, false
	}

	return r.Style(), true
}
