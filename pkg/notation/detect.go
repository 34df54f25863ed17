package notation

import (
	"regexp"
	"strings"
)

// Format is the chord layout detected in a block of text
type Format string

const (
	// FormatChordsAbove has chord lines sitting above lyric lines
	FormatChordsAbove Format = "chords-above"
	// FormatInlineBrackets has chords inline as (C) or {Am}
	FormatInlineBrackets Format = "inline-brackets"
	// FormatAlreadyFormatted is canonical [C]lyric markup already
	FormatAlreadyFormatted Format = "already-formatted"
	// FormatUnknown has no recognisable chords
	FormatUnknown Format = "unknown"
)

var (
	appFormatPattern     = regexp.MustCompile(`\[` + chordBody + `\]`)
	inlineBracketPattern = regexp.MustCompile(`[({]` + chordBody + `[)}]`)
	inlineChordPattern   = regexp.MustCompile(`[({](` + chordBody + `)[)}]`)
)

// DetectFormat classifies lines. Canonical markup wins over inline brackets,
// which win over chord lines, so text already in markup is never processed
// twice.
func DetectFormat(lines []string) Format {
	var hasAppFormat, hasInlineBrackets, hasChordLines bool

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if appFormatPattern.MatchString(line) {
			hasAppFormat = true
		}
		if inlineBracketPattern.MatchString(line) {
			hasInlineBrackets = true
		}
		if IsChordLine(trimmed) {
			hasChordLines = true
		}
	}

	switch {
	case hasAppFormat:
		return FormatAlreadyFormatted
	case hasInlineBrackets:
		return FormatInlineBrackets
	case hasChordLines:
		return FormatChordsAbove
	default:
		return FormatUnknown
	}
}

// ConvertInlineBrackets rewrites (C) and {Am} annotations as [C] and [Am],
// dropping blank lines
func ConvertInlineBrackets(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, inlineChordPattern.ReplaceAllString(line, "[$1]"))
	}
	return out
}
