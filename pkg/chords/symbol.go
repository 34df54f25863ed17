// Package chords models chord symbols and transposes them between keys.
//
// All functions are pure and total: malformed input never panics, it either
// yields nil from ParseChordSymbol or passes through unchanged.
package chords

import (
	"regexp"
	"strings"
)

// symbolPattern splits root, accidental, quality/extension suffix and an
// optional slash bass. The suffix excludes "/" so "C/G/B" does not match.
var symbolPattern = regexp.MustCompile(`^([A-Ga-g])([#b]?)([^/]*)(?:/([A-Ga-g][#b]?))?$`)

// ChordSymbol is a parsed chord such as "F#m7/C#"
type ChordSymbol struct {
	// Root is an uppercase letter A-G with an optional # or b
	Root string
	// Quality is the suffix kept verbatim, e.g. "maj7", "sus4", "m", ""
	Quality string
	// Bass is the slash bass note, empty when absent
	Bass string
}

// ParseChordSymbol parses text into a ChordSymbol. Root and bass letters are
// uppercased; the quality suffix keeps its original case. It returns nil for
// anything that does not match the chord grammar.
func ParseChordSymbol(text string) *ChordSymbol {
	if text == "" {
		return nil
	}
	m := symbolPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &ChordSymbol{
		Root:    strings.ToUpper(m[1]) + m[2],
		Quality: m[3],
		Bass:    upperLetter(m[4]),
	}
}

// upperLetter uppercases only the note letter so a flat "b" survives
func upperLetter(note string) string {
	if note == "" {
		return ""
	}
	return strings.ToUpper(note[:1]) + note[1:]
}

// String renders the chord back into its textual form
func (c ChordSymbol) String() string {
	if c.Bass != "" {
		return c.Root + c.Quality + "/" + c.Bass
	}
	return c.Root + c.Quality
}

