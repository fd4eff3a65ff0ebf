package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/meow/document"
	"github.com/ardnew/meow/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "list", "feed", "load", "save", "edit", "reset", "clear", "quit",
}

// isWordBoundary reports whether r separates words of a YAML flow
// paragraph. '@' and '$' are not boundaries so symbols complete whole.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '[', ']', '{', '}', ',', ':', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte offsets in input.
// The word is empty when cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inMapping reports whether offset lies inside an unclosed '{' of input.
func inMapping(input string, offset int) bool {
	depth := 0

	for _, r := range input[:offset] {
		switch r {
		case '{':
			depth++
		case '}':
			depth = max(depth-1, 0)
		}
	}

	return depth > 0
}

// evalCandidates returns the completions offered in eval mode at offset.
// Inside a run mapping these are run attributes and highlight names;
// elsewhere they are symbols, which expand to the run that writes them,
// and keyword spellings.
func (m model) evalCandidates(input string, offset int) []string {
	if inMapping(input, offset) {
		return slices.Concat(document.Keys(), lang.Highlights())
	}

	names := make([]string, 0, len(m.snippets))
	for name := range m.snippets {
		names = append(names, name)
	}

	slices.Sort(names)

	return slices.Concat(names, lang.Keywords())
}

// expand returns the text inserted when candidate is accepted.
func (m model) expand(candidate string) string {
	if s, ok := m.snippets[candidate]; ok {
		return s
	}

	return candidate
}

// computeMatches ranks the candidates for the word at the cursor, best
// first. An empty word has no matches so the hint line stays visible.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	// Position counts runes; word bounds are byte offsets.
	cursor := len(string([]rune(input)[:m.input.Position()]))

	word, wordStart, wordEnd := wordBounds(input, cursor)
	if word == "" {
		return nil, wordStart, wordEnd
	}

	candidates := ctrlCommands
	if m.mode == modeEval {
		candidates = m.evalCandidates(input, wordStart)
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit width. The selected candidate uses selectedStyle while tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)
		w := lipgloss.Width(rendered)

		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && i < len(matches)-1 && used+w+reserve > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders match with its matched characters emphasized.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, emph := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, emph = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(emph.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
