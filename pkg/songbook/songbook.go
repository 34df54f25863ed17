// Package songbook builds song records from manual entry and import drafts
// and renders them for display.
package songbook

import (
	stderrors "errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	sberrors "github.com/memtensor/songbook/pkg/errors"
	"github.com/memtensor/songbook/pkg/markup"
	"github.com/memtensor/songbook/pkg/notation"
	"github.com/memtensor/songbook/pkg/types"
)

// UnknownArtist is recorded for drafts that carry no artist
const UnknownArtist = "Unknown Artist"

var (
	validate       = validator.New()
	newlinePattern = regexp.MustCompile(`\r?\n`)
)

// Entry is a song typed in by hand
type Entry struct {
	Title  string `json:"title" validate:"required"`
	Artist string `json:"artist" validate:"required"`
	Key    string `json:"key"`
	Capo   string `json:"capo"`
	Tags   string `json:"tags"`
	Text   string `json:"text" validate:"required"`
	// Normalize runs Text through chord notation detection first, so chords
	// typed above lyrics or as (C) become inline markup
	Normalize bool `json:"normalize"`
}

// NewSongID returns a fresh id for a user-created song
func NewSongID() string {
	return "user-" + uuid.NewString()
}

// NewSongFromEntry validates e and builds a song from it. Title, artist and
// text must be non-blank. Tags are comma separated. A capo that is not an
// integer is ignored.
func NewSongFromEntry(e Entry) (*types.Song, error) {
	e.Title = strings.TrimSpace(e.Title)
	e.Artist = strings.TrimSpace(e.Artist)
	e.Key = strings.TrimSpace(e.Key)
	if strings.TrimSpace(e.Text) == "" {
		e.Text = ""
	}
	if err := validateStruct(e); err != nil {
		return nil, err
	}

	song := &types.Song{
		ID:        NewSongID(),
		Title:     e.Title,
		Artist:    e.Artist,
		Key:       e.Key,
		Tags:      SplitTags(e.Tags),
		Lines:     entryLines(e.Text, e.Normalize),
		CreatedAt: time.Now().UTC(),
	}
	if capo, err := strconv.Atoi(strings.TrimSpace(e.Capo)); err == nil {
		song.Capo = &capo
	}
	if err := ValidateSong(song); err != nil {
		return nil, err
	}
	return song, nil
}

// SongFromDraft turns an import draft into a song, keeping its source URL
func SongFromDraft(draft *types.ImportDraft) (*types.Song, error) {
	if draft == nil {
		return nil, sberrors.NewInvalidInputError("draft is required")
	}
	if len(draft.Lines) == 0 {
		return nil, sberrors.NewInvalidInputError("draft has no lines")
	}

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = "Untitled"
	}
	artist := strings.TrimSpace(draft.Artist)
	if artist == "" {
		artist = UnknownArtist
	}

	song := &types.Song{
		ID:        NewSongID(),
		Title:     title,
		Artist:    artist,
		Key:       draft.Key,
		Tags:      []types.Tag{},
		Lines:     append([]types.RawChordLine(nil), draft.Lines...),
		SourceURL: draft.SourceURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := ValidateSong(song); err != nil {
		return nil, err
	}
	return song, nil
}

// ValidateSong checks a song record
func ValidateSong(song *types.Song) error {
	if song == nil {
		return sberrors.NewInvalidInputError("song is required")
	}
	return validateStruct(song)
}

// Render lays out song under settings
func Render(song *types.Song, settings types.RenderSettings) []types.RenderedLine {
	return markup.RenderSong(song, settings)
}

// RenderText renders song as printable text
func RenderText(song *types.Song, settings types.RenderSettings) string {
	return markup.TextBlock(markup.RenderSong(song, settings))
}

// SplitTags splits a comma separated list, dropping empty entries
func SplitTags(s string) []types.Tag {
	tags := []types.Tag{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func entryLines(text string, normalize bool) []types.RawChordLine {
	if normalize {
		return notation.ParseChordNotation(text)
	}
	raw := newlinePattern.Split(text, -1)
	lines := make([]types.RawChordLine, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return lines
}

// validateStruct maps validator failures onto songbook errors
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		if fe.Tag() == "required" {
			return sberrors.NewMissingFieldError(field)
		}
		return sberrors.NewSongbookErrorWithCause(types.ErrorTypeValidation, sberrors.ErrCodeInvalidInput,
			"invalid "+field, err).WithDetail("field", field)
	}
	return sberrors.NewInvalidInputError(err.Error())
}
