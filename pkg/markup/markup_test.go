package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memtensor/songbook/pkg/types"
)

func chord(s string) *string { return &s }

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []types.ParsedChordToken
	}{
		{
			name: "two chords",
			raw:  "[C]Hello [G]world",
			want: []types.ParsedChordToken{
				{Chord: chord("C"), Lyric: "Hello "},
				{Chord: chord("G"), Lyric: "world"},
			},
		},
		{
			name: "leading lyric",
			raw:  "Oh [Am]yeah",
			want: []types.ParsedChordToken{
				{Lyric: "Oh "},
				{Chord: chord("Am"), Lyric: "yeah"},
			},
		},
		{
			name: "back to back chords",
			raw:  "[C][G]lyric",
			want: []types.ParsedChordToken{
				{Chord: chord("C"), Lyric: ""},
				{Chord: chord("G"), Lyric: "lyric"},
			},
		},
		{
			name: "trailing chord",
			raw:  "end [F]",
			want: []types.ParsedChordToken{
				{Lyric: "end "},
				{Chord: chord("F"), Lyric: ""},
			},
		},
		{
			name: "chord is trimmed",
			raw:  "[ Dm7 ]la",
			want: []types.ParsedChordToken{{Chord: chord("Dm7"), Lyric: "la"}},
		},
		{
			name: "unclosed bracket is literal",
			raw:  "[C]see [this",
			want: []types.ParsedChordToken{{Chord: chord("C"), Lyric: "see [this"}},
		},
		{
			name: "lone unclosed bracket",
			raw:  "[",
			want: []types.ParsedChordToken{{Lyric: "["}},
		},
		{
			name: "plain lyric",
			raw:  "no chords here",
			want: []types.ParsedChordToken{{Lyric: "no chords here"}},
		},
		{
			name: "only chords",
			raw:  "[C] [G]",
			want: []types.ParsedChordToken{
				{Chord: chord("C"), Lyric: " "},
				{Chord: chord("G"), Lyric: ""},
			},
		},
		{
			name: "non ascii lyric",
			raw:  "[G]माया [D]लाग्यो",
			want: []types.ParsedChordToken{
				{Chord: chord("G"), Lyric: "माया "},
				{Chord: chord("D"), Lyric: "लाग्यो"},
			},
		},
		{
			name: "empty",
			raw:  "",
			want: []types.ParsedChordToken{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(tt.raw)
			assert.Equal(t, tt.want, got.Tokens)
		})
	}
}

func TestParseLineReconstructsLyrics(t *testing.T) {
	lines := []string{
		"[C]Hello [G]world",
		"Oh [Am]yeah [F]",
		"[C][G][Am]",
		"unclosed [bracket here",
		"a]b[c",
	}
	for _, raw := range lines {
		parsed := ParseLine(raw)
		assert.Equal(t, stripChords(raw), parsed.Lyrics(), raw)
	}
}

// stripChords removes every closed [..] annotation
func stripChords(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '[' {
			if end := strings.IndexByte(raw[i+1:], ']'); end >= 0 {
				i += end + 1
				continue
			}
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}

func TestFormatRoundTrip(t *testing.T) {
	for _, raw := range []string{"[C]Hello [G]world", "Oh [Am]yeah", "[C][G]x", "plain"} {
		assert.Equal(t, raw, Format(ParseLine(raw)))
	}
}

func TestChordsOf(t *testing.T) {
	assert.Equal(t, []string{"C", "G", "Am"}, ChordsOf(ParseLine("[C]a [G]b [Am]")))
	assert.Empty(t, ChordsOf(ParseLine("plain")))
}

func TestParseSongLinesKeepsOrder(t *testing.T) {
	lines := []string{"[C]one", "[C]one", "[G]two"}
	parsed := ParseSongLines(lines)
	require.Len(t, parsed, 3)
	assert.Equal(t, "one", parsed[0].Lyrics())
	assert.Equal(t, "one", parsed[1].Lyrics())
	assert.Equal(t, "two", parsed[2].Lyrics())
}

func TestBuildMonospaceRows(t *testing.T) {
	t.Run("aligned", func(t *testing.T) {
		rows := BuildMonospaceRows(ParseLine("[C]Hello [G]world"))
		assert.Equal(t, "C     G    ", rows.Chords)
		assert.Equal(t, "Hello world", rows.Lyrics)
	})

	t.Run("chord overflows short segment", func(t *testing.T) {
		rows := BuildMonospaceRows(ParseLine("[Cmaj7]a[G]b"))
		assert.Equal(t, "Cmaj7G", rows.Chords)
		assert.Equal(t, "ab", rows.Lyrics)
	})

	t.Run("empty lyric placeholder", func(t *testing.T) {
		rows := BuildMonospaceRows(ParseLine("[C][G]go"))
		assert.Equal(t, "CG ", rows.Chords)
		assert.Equal(t, " go", rows.Lyrics)
	})

	t.Run("leading lyric without chord", func(t *testing.T) {
		rows := BuildMonospaceRows(ParseLine("Oh [Am]yeah"))
		assert.Equal(t, "   Am  ", rows.Chords)
		assert.Equal(t, "Oh yeah", rows.Lyrics)
	})

	t.Run("empty chord contributes nothing", func(t *testing.T) {
		rows := BuildMonospaceRows(ParseLine("[]"))
		assert.Equal(t, "", rows.Chords)
		assert.Equal(t, "", rows.Lyrics)
	})

	t.Run("runes not bytes", func(t *testing.T) {
		rows := BuildMonospaceRows(ParseLine("[G]मा[D]या"))
		assert.Equal(t, "G D ", rows.Chords)
		assert.Equal(t, "माया", rows.Lyrics)
	})
}

func TestBuildMonospaceRowsLyricRoundTrip(t *testing.T) {
	for _, raw := range []string{"[C]Hello [G]world", "Just lyrics", "Oh [Am]yeah [F]now"} {
		parsed := ParseLine(raw)
		assert.Equal(t, parsed.Lyrics(), BuildMonospaceRows(parsed).Lyrics, raw)
	}
}

func TestTransposeLine(t *testing.T) {
	parsed := ParseLine("Oh [C]Hello [G/B]world")
	out := TransposeLine(parsed, 2, types.NotationSharp)

	assert.Equal(t, []string{"D", "A/C#"}, ChordsOf(out))
	assert.Equal(t, []string{"C", "G/B"}, ChordsOf(parsed), "input must not be modified")
	assert.Nil(t, out.Tokens[0].Chord)
}

func TestSongChords(t *testing.T) {
	lines := []string{"[C]Hello [G]world", "", "[Am]again [C]and [G/B]again"}

	assert.Equal(t, []string{"C", "G", "Am", "G/B"}, SongChords(lines, 0, types.NotationSharp))
	assert.Equal(t, []string{"Db", "Ab", "Bbm", "Ab/C"}, SongChords(lines, 1, types.NotationFlat))
	assert.Empty(t, SongChords([]string{"plain"}, 0, types.NotationSharp))
}

func TestRenderSong(t *testing.T) {
	song := &types.Song{
		Title:  "Test",
		Artist: "Band",
		Lines:  []string{"[C]Hello [G]world"},
		LyricsByLang: map[string][]string{
			"ne": {"[Am]नमस्ते"},
		},
	}

	t.Run("chords mode transposed", func(t *testing.T) {
		settings := types.RenderSettings{ViewMode: types.ViewModeChords, TransposeSteps: 1, Notation: types.NotationFlat}
		lines := RenderSong(song, settings)
		require.Len(t, lines, 1)
		assert.Equal(t, "Db    Ab   ", lines[0].Chords)
		assert.Equal(t, "Hello world", lines[0].Lyrics)
	})

	t.Run("lyrics mode", func(t *testing.T) {
		lines := RenderSong(song, types.RenderSettings{ViewMode: types.ViewModeLyrics})
		require.Len(t, lines, 1)
		assert.Empty(t, lines[0].Chords)
		assert.Equal(t, "Hello world", lines[0].Lyrics)
	})

	t.Run("language selection", func(t *testing.T) {
		lines := RenderSong(song, types.RenderSettings{ViewMode: types.ViewModeLyrics, Language: "ne"})
		require.Len(t, lines, 1)
		assert.Equal(t, "नमस्ते", lines[0].Lyrics)
	})

	t.Run("nil song", func(t *testing.T) {
		assert.Nil(t, RenderSong(nil, types.DefaultRenderSettings()))
	})
}

func TestTextBlock(t *testing.T) {
	lines := RenderLines([]string{"[C]Hello [G]world", "no chords"}, types.DefaultRenderSettings())
	assert.Equal(t, "C     G\nHello world\nno chords\n", TextBlock(lines))
}
