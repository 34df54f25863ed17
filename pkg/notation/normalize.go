package notation

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	newlinePattern    = regexp.MustCompile(`\r?\n`)
	multiSpacePattern = regexp.MustCompile(`\s{2,}`)
)

// SplitLines splits text on LF or CRLF
func SplitLines(text string) []string {
	return newlinePattern.Split(text, -1)
}

// ParseChordNotation detects the chord layout of pasted or scraped text and
// converts it into canonical inline markup lines. Blank input yields no
// lines.
func ParseChordNotation(input string) []string {
	lines, _ := ParseChordNotationFormat(input)
	return lines
}

// ParseChordNotationFormat is ParseChordNotation that also reports the
// detected format
func ParseChordNotationFormat(input string) ([]string, Format) {
	if strings.TrimSpace(input) == "" {
		return []string{}, FormatUnknown
	}

	lines := SplitLines(input)
	format := DetectFormat(lines)

	switch format {
	case FormatChordsAbove:
		return ConvertChordsAbove(lines), format
	case FormatInlineBrackets:
		return ConvertInlineBrackets(lines), format
	default:
		return nonBlank(lines), format
	}
}

// ConvertChordsAbove merges each chord line into the lyric line below it.
// A chord line followed by a non-blank, non-chord line is merged into it; a
// chord line with nothing below it becomes "[C] [G]" on its own. Other lines
// are trimmed and kept. Blank lines are dropped.
func ConvertChordsAbove(lines []string) []string {
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); {
		cur := lines[i]
		if strings.TrimSpace(cur) == "" {
			i++
			continue
		}

		if IsChordLine(cur) {
			if i+1 < len(lines) {
				next := lines[i+1]
				if strings.TrimSpace(next) != "" && !IsChordLine(next) {
					out = append(out, MergeChordAndLyricLines(cur, next))
					i += 2
					continue
				}
			}
			out = append(out, ChordLineToMarkup(cur))
			i++
			continue
		}

		out = append(out, strings.TrimSpace(cur))
		i++
	}
	return out
}

// MergeChordAndLyricLines inserts each chord of chordLine into lyricLine at
// the first non-space rune at or after the chord's column. Insertions run
// right to left so earlier columns stay valid. Columns are rune offsets;
// alignment for wide or combining glyphs is best-effort.
func MergeChordAndLyricLines(chordLine, lyricLine string) string {
	positions := chordPositions(chordLine)
	if len(positions) == 0 {
		return strings.TrimSpace(lyricLine)
	}

	sort.SliceStable(positions, func(a, b int) bool {
		return positions[a].column > positions[b].column
	})

	result := []rune(lyricLine)
	for _, p := range positions {
		at := nextLyricIndex(result, p.column)
		ins := []rune("[" + p.chord + "]")
		merged := make([]rune, 0, len(result)+len(ins))
		merged = append(merged, result[:at]...)
		merged = append(merged, ins...)
		merged = append(merged, result[at:]...)
		result = merged
	}
	return strings.TrimRight(string(result), " \t")
}

// nextLyricIndex clamps col into the line and moves right to the next
// non-space rune, or to the end of the line
func nextLyricIndex(line []rune, col int) int {
	if col < 0 {
		col = 0
	}
	if col >= len(line) {
		return len(line)
	}
	for k := col; k < len(line); k++ {
		if line[k] != ' ' {
			return k
		}
	}
	return len(line)
}

// ChordLineToMarkup turns a standalone chord line into "[C] [G] [Am]"
func ChordLineToMarkup(chordLine string) string {
	fields := strings.Fields(chordLine)
	for i, f := range fields {
		fields[i] = "[" + f + "]"
	}
	return strings.Join(fields, " ")
}

// NormalizeChordMarkup drops blank lines, trims the rest and collapses runs
// of whitespace to a single space
func NormalizeChordMarkup(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		out = append(out, multiSpacePattern.ReplaceAllString(trimmed, " "))
	}
	return out
}

// CollapseBlankLines keeps at most one blank line in a row. A kept blank is
// emitted as "" and marks a section break.
func CollapseBlankLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	prevBlank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if !prevBlank {
				out = append(out, "")
			}
			prevBlank = true
			continue
		}
		out = append(out, line)
		prevBlank = false
	}
	return out
}

// PostProcessLines cleans scraped lines into markup: trailing whitespace is
// trimmed, blank runs are collapsed, chord lines are merged into the lyrics
// below them and blank runs are collapsed again
func PostProcessLines(lines []string) []string {
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		trimmed[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return CollapseBlankLines(ConvertChordsAbove(CollapseBlankLines(trimmed)))
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
