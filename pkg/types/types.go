// Package types defines the core types shared across the songbook packages
package types

import (
	"sort"
	"strings"
	"time"
)

// RawChordLine is a single line in canonical inline markup, e.g. "[C]Hello [G]world".
// This is the persisted form of a song line.
type RawChordLine = string

// Tag is a loose string used for filtering and grouping songs
type Tag = string

// Song represents a song record as owned by the storage collaborator
type Song struct {
	ID            string                    `json:"id" yaml:"id"`
	Title         string                    `json:"title" yaml:"title" validate:"required"`
	Artist        string                    `json:"artist" yaml:"artist" validate:"required"`
	Key           string                    `json:"key,omitempty" yaml:"key,omitempty"`
	Capo          *int                      `json:"capo,omitempty" yaml:"capo,omitempty" validate:"omitempty,gte=0,lte=24"`
	BPM           *int                      `json:"bpm,omitempty" yaml:"bpm,omitempty"`
	Tags          []Tag                     `json:"tags" yaml:"tags"`
	Lines         []RawChordLine            `json:"lines" yaml:"lines" validate:"required,min=1"`
	LyricsByLang  map[string][]RawChordLine `json:"lyricsByLang,omitempty" yaml:"lyrics_by_lang,omitempty"`
	TimeSignature string                    `json:"timeSignature,omitempty" yaml:"time_signature,omitempty"`
	SourceURL     string                    `json:"sourceUrl,omitempty" yaml:"source_url,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt" yaml:"created_at"`
}

// LinesFor returns the lyric lines for the given language, falling back to
// the base lines when the language is empty or has no translation.
func (s *Song) LinesFor(language string) []RawChordLine {
	if language != "" {
		if lines, ok := s.LyricsByLang[language]; ok && len(lines) > 0 {
			return lines
		}
	}
	return s.Lines
}

// Languages returns the sorted languages that LinesFor can switch to
func (s *Song) Languages() []string {
	langs := make([]string, 0, len(s.LyricsByLang))
	for lang, lines := range s.LyricsByLang {
		if len(lines) > 0 {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return langs
}

// ParsedChordToken is one (chord, lyric) segment of a parsed line.
// Chord is nil when the segment carries lyric text with no chord above it.
type ParsedChordToken struct {
	Chord *string `json:"chord,omitempty"`
	Lyric string  `json:"lyric"`
}

// HasChord reports whether the token carries a chord annotation
func (t ParsedChordToken) HasChord() bool {
	return t.Chord != nil
}

// ChordText returns the chord or an empty string
func (t ParsedChordToken) ChordText() string {
	if t.Chord == nil {
		return ""
	}
	return *t.Chord
}

// ParsedChordLine is the token sequence for one raw line, in reading order
type ParsedChordLine struct {
	Tokens []ParsedChordToken `json:"tokens"`
}

// Lyrics concatenates every token's lyric in order
func (l ParsedChordLine) Lyrics() string {
	var b strings.Builder
	for _, tok := range l.Tokens {
		b.WriteString(tok.Lyric)
	}
	return b.String()
}

// MonospaceRows is a chord row meant to be printed above its lyric row
type MonospaceRows struct {
	Chords string `json:"chords"`
	Lyrics string `json:"lyrics"`
}

// Notation selects the enharmonic spelling used for transposed output
type Notation string

const (
	NotationSharp Notation = "sharp"
	NotationFlat  Notation = "flat"
)

// ParseNotation maps user input onto a Notation, defaulting to sharp
func ParseNotation(s string) Notation {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat", "b", "♭":
		return NotationFlat
	default:
		return NotationSharp
	}
}

// ViewMode selects how a song is displayed
type ViewMode string

const (
	ViewModeChords ViewMode = "chords"
	ViewModeLyrics ViewMode = "lyrics"
)

// RenderSettings are the display settings owned by the UI. The core only
// receives them per call.
type RenderSettings struct {
	ViewMode       ViewMode `json:"view_mode" yaml:"view_mode"`
	TransposeSteps int      `json:"transpose_steps" yaml:"transpose_steps"`
	Notation       Notation `json:"notation" yaml:"notation"`
	Language       string   `json:"language,omitempty" yaml:"language,omitempty"`
}

// DefaultRenderSettings returns chord view, no transposition, sharp notation
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		ViewMode: ViewModeChords,
		Notation: NotationSharp,
	}
}

// RenderedLine is one displayable line. In lyrics mode only Lyrics is set.
type RenderedLine struct {
	Chords string `json:"chords,omitempty"`
	Lyrics string `json:"lyrics"`
}

// ImportDraft is a not-yet-saved song extracted from an external page
type ImportDraft struct {
	Title     string         `json:"title" yaml:"title"`
	Artist    string         `json:"artist" yaml:"artist"`
	Album     string         `json:"album,omitempty" yaml:"album,omitempty"`
	Key       string         `json:"key,omitempty" yaml:"key,omitempty"`
	Lines     []RawChordLine `json:"lines" yaml:"lines"`
	SourceURL string         `json:"sourceUrl" yaml:"source_url"`
}

// ImportResult is the boundary shape returned to UI and storage layers.
// Exactly one of Draft or Error is set.
type ImportResult struct {
	Draft *ImportDraft `json:"draft,omitempty" yaml:"draft,omitempty"`
	Error string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// OnlineSource identifies where a search hit lives
type OnlineSource struct {
	Site string `json:"site"`
	URL  string `json:"url"`
}

// SearchResult is a single online search hit
type SearchResult struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	Artist string       `json:"artist"`
	Source OnlineSource `json:"source"`
}

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeExternal   ErrorType = "external"
)
