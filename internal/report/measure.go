package report

import (
	"strings"
	"unicode"

	"github.com/arpitnexuses/forvismazar-questionnaire/internal/models"
)

// DetectDirection inspects the first strongly-directional rune and reports
// whether the text reads right-to-left (Arabic or Hebrew script).
func DetectDirection(text string) models.TextDirection {
	for _, r := range text {
		if unicode.Is(unicode.Arabic, r) || unicode.Is(unicode.Hebrew, r) {
			return models.DirectionRTL
		}
		if unicode.IsLetter(r) {
			return models.DirectionLTR
		}
	}
	return models.DirectionLTR
}

// wrapText breaks text into lines of at most width runes, preferring word
// boundaries. A single word longer than width is hard-cut so wrapping always
// terminates. Empty text wraps to a single empty line.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := ""
		for _, word := range words {
			for len([]rune(word)) > width {
				runes := []rune(word)
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				lines = append(lines, string(runes[:width]))
				word = string(runes[width:])
			}
			switch {
			case current == "":
				current = word
			case len([]rune(current))+1+len([]rune(word)) <= width:
				current += " " + word
			default:
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}
