// Package markup parses the canonical inline chord markup ("[C]Hello [G]world")
// and lays parsed lines out as monospace chord-over-lyric rows.
package markup

import (
	"strings"

	"github.com/memtensor/songbook/pkg/types"
)

// ParseLine splits a raw line into chord/lyric tokens. Each token holds a
// chord and the lyric text that follows it up to the next chord. Lyric text
// before the first chord becomes a token with no chord. A "[" with no
// closing "]" is kept as literal lyric text.
func ParseLine(raw types.RawChordLine) types.ParsedChordLine {
	tokens := make([]types.ParsedChordToken, 0, 4)
	var pending *string
	var buf strings.Builder

	flush := func() {
		tokens = append(tokens, types.ParsedChordToken{Chord: pending, Lyric: buf.String()})
		buf.Reset()
		pending = nil
	}

	for i := 0; i < len(raw); {
		if raw[i] != '[' {
			buf.WriteByte(raw[i])
			i++
			continue
		}

		end := strings.IndexByte(raw[i+1:], ']')
		if end < 0 {
			buf.WriteByte('[')
			i++
			continue
		}

		if buf.Len() > 0 || pending != nil {
			flush()
		}
		chord := strings.TrimSpace(raw[i+1 : i+1+end])
		pending = &chord
		i += end + 2
	}

	if buf.Len() > 0 || pending != nil {
		flush()
	}
	return types.ParsedChordLine{Tokens: tokens}
}

// ParseSongLines parses every line in order
func ParseSongLines(lines []types.RawChordLine) []types.ParsedChordLine {
	out := make([]types.ParsedChordLine, len(lines))
	for i, l := range lines {
		out[i] = ParseLine(l)
	}
	return out
}

// Format writes a parsed line back into canonical markup
func Format(line types.ParsedChordLine) types.RawChordLine {
	var b strings.Builder
	for _, tok := range line.Tokens {
		if tok.Chord != nil {
			b.WriteByte('[')
			b.WriteString(*tok.Chord)
			b.WriteByte(']')
		}
		b.WriteString(tok.Lyric)
	}
	return b.String()
}

// ChordsOf lists the chords of a line in reading order
func ChordsOf(line types.ParsedChordLine) []string {
	var out []string
	for _, tok := range line.Tokens {
		if tok.Chord != nil {
			out = append(out, *tok.Chord)
		}
	}
	return out
}
