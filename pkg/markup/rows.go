package markup

import (
	"strings"
	"unicode/utf8"

	"github.com/memtensor/songbook/pkg/chords"
	"github.com/memtensor/songbook/pkg/types"
)

// BuildMonospaceRows lays a parsed line out as a chord row above a lyric
// row. Each chord starts at the column of its lyric segment and is padded to
// the segment's width; a chord longer than its segment overflows instead of
// being cut. A chord with no lyric writes a single space into the lyric row
// so it keeps a visible slot. Widths are counted in runes.
func BuildMonospaceRows(line types.ParsedChordLine) types.MonospaceRows {
	var chordRow, lyricRow strings.Builder

	for _, tok := range line.Tokens {
		chord := tok.ChordText()
		segLen := utf8.RuneCountInString(tok.Lyric)

		if segLen == 0 {
			if chord != "" {
				chordRow.WriteString(chord)
				lyricRow.WriteByte(' ')
			}
			continue
		}

		chordRow.WriteString(chord)
		if pad := segLen - utf8.RuneCountInString(chord); pad > 0 {
			chordRow.WriteString(strings.Repeat(" ", pad))
		}
		lyricRow.WriteString(tok.Lyric)
	}

	return types.MonospaceRows{Chords: chordRow.String(), Lyrics: lyricRow.String()}
}

// TransposeLine returns a copy of line with every chord transposed. Tokens
// without a chord are copied as they are.
func TransposeLine(line types.ParsedChordLine, steps int, notation types.Notation) types.ParsedChordLine {
	out := types.ParsedChordLine{Tokens: make([]types.ParsedChordToken, len(line.Tokens))}
	for i, tok := range line.Tokens {
		if tok.Chord != nil {
			c := chords.TransposeChord(*tok.Chord, steps, notation)
			tok.Chord = &c
		}
		out.Tokens[i] = tok
	}
	return out
}

// SongChords lists the distinct chords of lines after transposing, in order
// of first appearance
func SongChords(lines []types.RawChordLine, steps int, notation types.Notation) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, parsed := range ParseSongLines(lines) {
		for _, chord := range ChordsOf(TransposeLine(parsed, steps, notation)) {
			if !seen[chord] {
				seen[chord] = true
				out = append(out, chord)
			}
		}
	}
	return out
}

// RenderSong turns a song into displayable lines under the given settings.
// The selected language's lyrics are used when the song has them. In lyrics
// mode each line is plain lyric text; otherwise chords are transposed and
// laid out above the lyrics.
func RenderSong(song *types.Song, settings types.RenderSettings) []types.RenderedLine {
	if song == nil {
		return nil
	}
	return RenderLines(song.LinesFor(settings.Language), settings)
}

// RenderLines renders raw lines under settings; Language is ignored
func RenderLines(lines []types.RawChordLine, settings types.RenderSettings) []types.RenderedLine {
	out := make([]types.RenderedLine, 0, len(lines))
	for _, parsed := range ParseSongLines(lines) {
		if settings.ViewMode == types.ViewModeLyrics {
			out = append(out, types.RenderedLine{Lyrics: parsed.Lyrics()})
			continue
		}
		rows := BuildMonospaceRows(TransposeLine(parsed, settings.TransposeSteps, settings.Notation))
		out = append(out, types.RenderedLine{Chords: rows.Chords, Lyrics: rows.Lyrics})
	}
	return out
}

// TextBlock joins rendered lines into printable text, chord row first
func TextBlock(lines []types.RenderedLine) string {
	var b strings.Builder
	for _, l := range lines {
		if strings.TrimSpace(l.Chords) != "" {
			b.WriteString(strings.TrimRight(l.Chords, " "))
			b.WriteByte('\n')
		}
		b.WriteString(l.Lyrics)
		b.WriteByte('\n')
	}
	return b.String()
}
