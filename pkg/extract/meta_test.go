package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTitleArtist(t *testing.T) {
	tests := []struct {
		in, title, artist string
	}{
		{"Oasis - Wonderwall", "Wonderwall", "Oasis"},
		{"AC - DC - Song - Live", "DC - Song - Live", "AC"},
		{"Just A Title", "Just A Title", ""},
		{"", "Untitled", ""},
	}
	for _, tt := range tests {
		title, artist := splitTitleArtist(tt.in)
		assert.Equal(t, tt.title, title, tt.in)
		assert.Equal(t, tt.artist, artist, tt.in)
	}
}

func TestSplitUGTitleArtist(t *testing.T) {
	tests := []struct {
		in, title, artist string
	}{
		{"Wonderwall CHORDS by Oasis @ Ultimate-Guitar.Com", "Wonderwall", "Oasis"},
		{"Stand By Me Chords by Ben E. King @ Ultimate-Guitar.Com", "Stand By Me", "Ben E. King"},
		{"Tabs by Someone", "Tabs", "Someone"},
		{"Hotel California Tab", "Hotel California", ""},
		{"", "Untitled", ""},
	}
	for _, tt := range tests {
		title, artist := splitUGTitleArtist(tt.in)
		assert.Equal(t, tt.title, title, tt.in)
		assert.Equal(t, tt.artist, artist, tt.in)
	}
}

func TestCleanKey(t *testing.T) {
	tests := map[string]string{
		"C major":   "C",
		"G minor":   "Gm",
		"Gm":        "Gm",
		" F# minor": "F#m",
		"Bb":        "Bb",
		"Ebmaj7":    "Eb",
		"unknown":   "unknown",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanKey(in), in)
	}
}

func TestKeyFromLabel(t *testing.T) {
	assert.Equal(t, "Am", keyFromLabel(`<span>Tone: Am</span>`))
	assert.Equal(t, "F#", keyFromLabel(`<b>Key - F#</b>`))
	assert.Equal(t, "C", keyFromLabel(`Tom:C`))
	assert.Equal(t, "", keyFromLabel(`Key: x`))
	assert.Equal(t, "", keyFromLabel(`no label`))
}

func TestSongMetaCollect(t *testing.T) {
	var m songMeta
	m.collect("Song_Name", "First")
	m.collect("title", "Second")
	m.collect("artistName", "Band")
	m.collect("tonality", "D")
	m.collect("other", "ignored")

	assert.Equal(t, "First", m.Title)
	assert.Equal(t, "Band", m.Artist)
	assert.Equal(t, "D", m.Key)
	assert.Empty(t, m.Album)
}
