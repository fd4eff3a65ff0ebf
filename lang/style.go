package lang

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Underline is the underline class of a [StyleKey].
type Underline uint8

const (
	UnderlineNone   Underline = iota // none
	UnderlineSingle                  // single
	UnderlineOther                   // other
)

func (u Underline) String() string {
	switch u {
	case UnderlineNone:
		return "none"
	case UnderlineSingle:
		return "single"
	case UnderlineOther:
		return "other"
	default:
		return "Underline(" + strconv.Itoa(int(u)) + ")"
	}
}

// UnderlinePattern is the underline pattern of a [Run] as named by the
// document source ("single", "double", "wave", ...). The empty pattern and
// "none" mean the run is not underlined.
type UnderlinePattern string

// Class collapses p into the three classes distinguished by the parser.
func (p UnderlinePattern) Class() Underline {
	switch strings.ToLower(string(p)) {
	case "", "none":
		return UnderlineNone
	case "single":
		return UnderlineSingle
	default:
		return UnderlineOther
	}
}

// Highlight is a named text highlight color.
type Highlight uint8

const (
	HighlightNone Highlight = iota
	HighlightBlack
	HighlightBlue
	HighlightCyan
	HighlightGreen
	HighlightMagenta
	HighlightRed
	HighlightYellow
	HighlightWhite
	HighlightDarkBlue
	HighlightDarkCyan
	HighlightDarkGreen
	HighlightDarkMagenta
	HighlightDarkRed
	HighlightDarkYellow
	HighlightDarkGray
	HighlightLightGray
)

//nolint:gochecknoglobals
var highlightName = [...]string{
	HighlightNone:        "none",
	HighlightBlack:       "black",
	HighlightBlue:        "blue",
	HighlightCyan:        "cyan",
	HighlightGreen:       "green",
	HighlightMagenta:     "magenta",
	HighlightRed:         "red",
	HighlightYellow:      "yellow",
	HighlightWhite:       "white",
	HighlightDarkBlue:    "darkBlue",
	HighlightDarkCyan:    "darkCyan",
	HighlightDarkGreen:   "darkGreen",
	HighlightDarkMagenta: "darkMagenta",
	HighlightDarkRed:     "darkRed",
	HighlightDarkYellow:  "darkYellow",
	HighlightDarkGray:    "darkGray",
	HighlightLightGray:   "lightGray",
}

func (h Highlight) String() string {
	if int(h) < len(highlightName) {
		return highlightName[h]
	}

	return "Highlight(" + strconv.Itoa(int(h)) + ")"
}

// Highlights returns the names of every highlight color except none.
func Highlights() []string {
	return slices.Clone(highlightName[1:])
}

// ParseHighlight returns the highlight named s. Matching ignores case and
// any separators, so "lightGray", "light-gray" and "LIGHT_GRAY" are equal.
func ParseHighlight(s string) (Highlight, error) {
	norm := normalizeName(s)
	if norm == "" {
		return HighlightNone, nil
	}

	for i, name := range highlightName {
		if normalizeName(name) == norm {
			return Highlight(i), nil
		}
	}

	return HighlightNone, fmt.Errorf("unknown highlight color %q", s)
}

func normalizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, s)
}

// Color is a 24-bit RGB color. The zero value means no color is set.
type Color uint32

// ParseColor parses a hex RGB color such as "EE0000" or "#ee0000".
// "auto" and the empty string mean no color.
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" || strings.EqualFold(s, "auto") {
		return 0, nil
	}

	v, err := strconv.ParseUint(s, 16, 24)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return Color(v), nil
}

// RGB returns the red, green and blue components of c.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c) //nolint:gosec
}

func (c Color) String() string {
	if c == 0 {
		return "auto"
	}

	return fmt.Sprintf("%06X", uint32(c))
}

// StyleKey is the style fingerprint of a keyword run. Two keyword runs
// denote the same identifier exactly when their StyleKeys are equal.
//
// StyleKey is comparable and is used directly as a map key.
type StyleKey struct {
	Bracket   bool
	Underline Underline
	Color     Color
	Highlight Highlight
	Bold      bool
	Font      string
	FontSize  float64
}

// String describes every attribute of k that is set.
func (k StyleKey) String() string {
	part := make([]string, 0, 7)

	if k.Bracket {
		part = append(part, "italic")
	}

	if k.Bold {
		part = append(part, "bold")
	}

	if k.Underline != UnderlineNone {
		part = append(part, "underline="+k.Underline.String())
	}

	if k.Color != 0 {
		part = append(part, "color="+k.Color.String())
	}

	if k.Highlight != HighlightNone {
		part = append(part, "highlight="+k.Highlight.String())
	}

	if k.Font != "" {
		part = append(part, "font="+strconv.Quote(k.Font))
	}

	if k.FontSize != 0 {
		part = append(part, "size="+strconv.FormatFloat(k.FontSize, 'g', -1, 64))
	}

	if len(part) == 0 {
		return "plain"
	}

	return strings.Join(part, " ")
}

// Run returns a run of the given text whose style produces k.
// An [UnderlineOther] key is given a double underline.
func (k StyleKey) Run(text string) Run {
	r := Run{
		Text:      text,
		Italic:    k.Bracket,
		Bold:      k.Bold,
		Color:     k.Color,
		Highlight: k.Highlight,
		Font:      k.Font,
		FontSize:  k.FontSize,
	}

	switch k.Underline {
	case UnderlineSingle:
		r.Underline = "single"
	case UnderlineOther:
		r.Underline = "double"
	}

	return r
}

// Run is a span of text, or an embedded image, with uniform style.
type Run struct {
	Text      string
	Italic    bool
	Bold      bool
	Underline UnderlinePattern
	Color     Color
	Highlight Highlight
	Font      string
	FontSize  float64
	// Image holds the encoded bytes of an embedded picture (PNG, JPEG or
	// GIF), or nil.
	Image []byte
}

// PlainRun returns a run of default style holding s.
func PlainRun(s string) Run { return Run{Text: s} }

// HasImage reports whether r carries an embedded image.
func (r Run) HasImage() bool { return len(r.Image) > 0 }

// Blank reports whether r has no image and only whitespace text.
func (r Run) Blank() bool {
	return !r.HasImage() && strings.TrimSpace(r.Text) == ""
}

// Style returns the StyleKey derived from r's style attributes.
func (r Run) Style() StyleKey {
	return StyleKey{
		Bracket:   r.Italic,
		Underline: r.Underline.Class(),
		Color:     r.Color,
		Highlight: r.Highlight,
		Bold:      r.Bold,
		Font:      r.Font,
		FontSize:  r.FontSize,
	}
}

// Paragraph is the ordered run sequence of one source paragraph.
type Paragraph []Run

// Document is a named sequence of paragraphs.
type Document struct {
	Name       string
	Paragraphs []Paragraph
}
