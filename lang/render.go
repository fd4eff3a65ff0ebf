package lang

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	"github.com/muesli/termenv"
)

// Render renders values as terminal text, one value per line.
//
// Runs of [Text] values keep their style as ANSI escape sequences and
// embedded images are drawn as block art. Other values use [Display].
func Render(values ...Value) (string, error) {
	var sb strings.Builder

	for i, v := range values {
		if i > 0 {
			sb.WriteByte('\n')
		}

		t, ok := v.(Text)
		if !ok {
			sb.WriteString(Display(v))

			continue
		}

		for _, r := range t.Runs {
			if r.Text != "" {
				sb.WriteString(styleRun(r))
			}

			if r.HasImage() {
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
					sb.WriteByte('\n')
				}

				if err := renderImage(&sb, r.Image); err != nil {
					return "", err
				}
			}
		}
	}

	return sb.String(), nil
}

func styleRun(r Run) string {
	s := termenv.TrueColor.String(r.Text)

	if r.Bold {
		s = s.Bold()
	}

	if r.Underline.Class() != UnderlineNone {
		s = s.Underline()
	}

	if r.Italic {
		s = s.Italic()
	}

	if r.Color != 0 {
		s = s.Foreground(termenv.RGBColor(fmt.Sprintf("#%06x", uint32(r.Color))))
	}

	if bg := highlightColor(r.Highlight); bg != nil {
		s = s.Background(bg)
	}

	return s.String()
}

// highlightColor maps a highlight to a terminal background color. The
// basic colors use the terminal palette, the dark shades use true color.
func highlightColor(h Highlight) termenv.Color {
	switch h {
	case HighlightBlack:
		return termenv.ANSIBlack
	case HighlightBlue:
		return termenv.ANSIBlue
	case HighlightCyan:
		return termenv.ANSICyan
	case HighlightGreen:
		return termenv.ANSIGreen
	case HighlightMagenta:
		return termenv.ANSIMagenta
	case HighlightRed:
		return termenv.ANSIRed
	case HighlightYellow:
		return termenv.ANSIYellow
	case HighlightWhite:
		return termenv.ANSIBrightWhite
	case HighlightLightGray:
		return termenv.ANSIWhite
	case HighlightDarkGray:
		return termenv.ANSIBrightBlack
	case HighlightDarkBlue:
		return termenv.RGBColor("#000080")
	case HighlightDarkCyan:
		return termenv.RGBColor("#008080")
	case HighlightDarkGreen:
		return termenv.RGBColor("#008000")
	case HighlightDarkMagenta:
		return termenv.RGBColor("#800080")
	case HighlightDarkRed:
		return termenv.RGBColor("#800000")
	case HighlightDarkYellow:
		return termenv.RGBColor("#808000")
	default:
		return nil
	}
}

// renderImage draws the image encoded in data with one "▀" per pixel
// column and two pixel rows: the foreground is the upper pixel and the
// background the lower one. Each row ends with a reset and a newline.
func renderImage(sb *strings.Builder, data []byte) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return ErrImageDecode.Wrap(err)
	}

	b := img.Bounds()

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			writeRGB(sb, false, img.At(x, y))

			if y+1 < b.Max.Y {
				writeRGB(sb, true, img.At(x, y+1))
			} else {
				sb.WriteString(termenv.CSI + "49m")
			}

			sb.WriteString("▀")
		}

		sb.WriteString(termenv.CSI + termenv.ResetSeq + "m\n")
	}

	return nil
}

func writeRGB(sb *strings.Builder, bg bool, c color.Color) {
	n := color.NRGBAModel.Convert(c).(color.NRGBA) //nolint:forcetypeassert

	sb.WriteString(termenv.CSI)

	if bg {
		sb.WriteString("48;2;")
	} else {
		sb.WriteString("38;2;")
	}

	sb.WriteString(strconv.Itoa(int(n.R)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(n.G)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(n.B)))
	sb.WriteByte('m')
}
