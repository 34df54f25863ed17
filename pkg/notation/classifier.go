// Package notation detects how chords are written in free-form text and
// converts it into canonical inline markup.
package notation

import (
	"regexp"
	"strings"
	"unicode"
)

// chordBody is the chord grammar shared by the classifier and the detector:
// root, accidental, optional quality, one optional digit, optional slash bass
const chordBody = `[A-G][#b]?(?:m|maj|min|dim|aug|sus|add)?[0-9]?(?:/[A-G][#b]?)?`

var chordTokenPattern = regexp.MustCompile(`^` + chordBody + `$`)

// ChordLineThreshold is the minimum share of chord-like tokens for a line to
// count as a chord line
const ChordLineThreshold = 0.6

// IsChordToken reports whether a single whitespace-free token is a chord
// symbol. Root letters are case-sensitive.
func IsChordToken(tok string) bool {
	return chordTokenPattern.MatchString(tok)
}

// IsChordLine reports whether line is a line of chord symbols rather than
// lyrics: at least one token is a chord and chords make up at least 60% of
// the tokens. Stray labels ("Intro", "x2") are tolerated.
func IsChordLine(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return false
	}
	chords := 0
	for _, tok := range tokens {
		if IsChordToken(tok) {
			chords++
		}
	}
	return chords > 0 && float64(chords)/float64(len(tokens)) >= ChordLineThreshold
}

// chordPosition is a chord token and its rune column in a chord line
type chordPosition struct {
	chord  string
	column int
}

// chordPositions lists the chord tokens of a chord line with their starting
// rune columns. Non-chord tokens are skipped.
func chordPositions(line string) []chordPosition {
	var out []chordPosition
	runes := []rune(line)
	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		j := i
		for j < len(runes) && !unicode.IsSpace(runes[j]) {
			j++
		}
		if tok := string(runes[i:j]); IsChordToken(tok) {
			out = append(out, chordPosition{chord: tok, column: i})
		}
		i = j
	}
	return out
}

