package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSongLinesFor(t *testing.T) {
	song := &Song{
		Title:  "Resham",
		Artist: "Nepathya",
		Lines:  []RawChordLine{"[C]base line"},
		LyricsByLang: map[string][]RawChordLine{
			"ne": {"[C]नेपाली"},
			"en": {},
		},
	}

	t.Run("Selected language", func(t *testing.T) {
		assert.Equal(t, []RawChordLine{"[C]नेपाली"}, song.LinesFor("ne"))
	})

	t.Run("Empty translation falls back", func(t *testing.T) {
		assert.Equal(t, song.Lines, song.LinesFor("en"))
	})

	t.Run("Unknown language", func(t *testing.T) {
		assert.Equal(t, song.Lines, song.LinesFor("fr"))
		assert.Equal(t, song.Lines, song.LinesFor(""))
	})

	t.Run("Languages", func(t *testing.T) {
		assert.Equal(t, []string{"en", "ne"}, song.Languages())
		assert.Empty(t, (&Song{LyricsByLang: map[string][]RawChordLine{"fr": nil}}).Languages())
	})
}

func TestParsedChordLine(t *testing.T) {
	line := ParsedChordLine{Tokens: []ParsedChordToken{
		{Chord: strPtr("C"), Lyric: "Hello "},
		{Lyric: "big "},
		{Chord: strPtr("G"), Lyric: "world"},
	}}

	assert.Equal(t, "Hello big world", line.Lyrics())
	assert.True(t, line.Tokens[0].HasChord())
	assert.False(t, line.Tokens[1].HasChord())
	assert.Equal(t, "", line.Tokens[1].ChordText())
	assert.Equal(t, "G", line.Tokens[2].ChordText())
}

func TestParsedChordTokenJSON(t *testing.T) {
	data, err := json.Marshal(ParsedChordToken{Lyric: "la"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"lyric":"la"}`, string(data))

	data, err = json.Marshal(ParsedChordToken{Chord: strPtr("Am"), Lyric: ""})
	require.NoError(t, err)
	assert.JSONEq(t, `{"chord":"Am","lyric":""}`, string(data))
}

func TestParseNotation(t *testing.T) {
	tests := map[string]Notation{
		"flat":  NotationFlat,
		"FLAT":  NotationFlat,
		" b ":   NotationFlat,
		"sharp": NotationSharp,
		"":      NotationSharp,
		"weird": NotationSharp,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseNotation(in), "input %q", in)
	}
}

func TestDefaultRenderSettings(t *testing.T) {
	s := DefaultRenderSettings()
	assert.Equal(t, ViewModeChords, s.ViewMode)
	assert.Equal(t, NotationSharp, s.Notation)
	assert.Zero(t, s.TransposeSteps)
	assert.Empty(t, s.Language)
}

func TestImportResultJSON(t *testing.T) {
	res := ImportResult{Error: "Could not extract chords/lyrics from this page."}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Could not extract chords/lyrics from this page."}`, string(data))
}
