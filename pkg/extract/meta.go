package extract

import (
	"regexp"
	"strings"
)

const untitled = "Untitled"

var (
	ugSiteSuffix   = regexp.MustCompile(`(?i)@\s*Ultimate.*$`)
	sheetLabel     = regexp.MustCompile(`(?i)\s*(?:chords?|tabs?)\s*$`)
	keyRoot        = regexp.MustCompile(`^[A-G](?:#|b)?`)
	minorMarker    = regexp.MustCompile(`(?i)minor|m\b`)
	majorMarker    = regexp.MustCompile(`(?i)major`)
	keyLabel       = regexp.MustCompile(`(?i)(Key|Tone|Tom)\s*[:\-]\s*([A-G](?:#|b)?(?:m|maj|min|sus|dim|aug)?\d?)`)
	keyLabelStrict = regexp.MustCompile(`^[A-G](?:#|b)?(?:m|maj|min|sus|dim|aug)?\d?$`)
)

// songMeta is the metadata gathered from a page's structured data
type songMeta struct {
	Key    string
	Album  string
	Artist string
	Title  string
}

// metaFieldNames lists the structured-data field names for each meta field,
// compared case-insensitively
var metaFieldNames = []struct {
	names []string
	set   func(m *songMeta, v string)
	get   func(m *songMeta) string
}{
	{[]string{"tonality_name", "tonality", "key"}, func(m *songMeta, v string) { m.Key = v }, func(m *songMeta) string { return m.Key }},
	{[]string{"album_name", "album"}, func(m *songMeta, v string) { m.Album = v }, func(m *songMeta) string { return m.Album }},
	{[]string{"artist_name", "artist", "artistname"}, func(m *songMeta, v string) { m.Artist = v }, func(m *songMeta) string { return m.Artist }},
	{[]string{"song_name", "song", "title"}, func(m *songMeta, v string) { m.Title = v }, func(m *songMeta) string { return m.Title }},
}

// collect records v under key when key names a meta field not yet set
func (m *songMeta) collect(key, v string) {
	lower := strings.ToLower(key)
	for _, f := range metaFieldNames {
		if f.get(m) != "" {
			continue
		}
		for _, name := range f.names {
			if name == lower {
				f.set(m, v)
				break
			}
		}
	}
}

// splitTitleArtist splits "Artist - Title"; text without the separator is
// all title
func splitTitleArtist(s string) (title, artist string) {
	if s == "" {
		return untitled, ""
	}
	parts := strings.Split(s, " - ")
	if len(parts) >= 2 {
		return strings.TrimSpace(strings.Join(parts[1:], " - ")), strings.TrimSpace(parts[0])
	}
	return s, ""
}

// splitUGTitleArtist parses "Song CHORDS by Artist @ Ultimate-Guitar.Com"
func splitUGTitleArtist(s string) (title, artist string) {
	if s == "" {
		return untitled, ""
	}
	cleaned := strings.TrimSpace(ugSiteSuffix.ReplaceAllString(s, ""))
	if idx := strings.LastIndex(strings.ToLower(cleaned), " by "); idx != -1 {
		rawTitle := strings.TrimSpace(cleaned[:idx])
		artist = strings.TrimSpace(cleaned[idx+4:])
		title = strings.TrimSpace(sheetLabel.ReplaceAllString(rawTitle, ""))
		if title == "" {
			title = rawTitle
		}
		return title, artist
	}
	return strings.TrimSpace(sheetLabel.ReplaceAllString(cleaned, "")), ""
}

// cleanKey shortens a tonality like "C major" to "C" and "G minor" or "Gm"
// to "Gm". Values without a recognisable root are kept.
func cleanKey(k string) string {
	k = strings.TrimSpace(k)
	base := keyRoot.FindString(k)
	if base == "" {
		return k
	}
	if minorMarker.MatchString(k) && !majorMarker.MatchString(k) {
		return base + "m"
	}
	return base
}

// keyFromLabel finds a "Key: X", "Tone: X" or "Tom: X" label in raw HTML
func keyFromLabel(raw string) string {
	m := keyLabel.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	guess := strings.TrimSpace(m[2])
	if !keyLabelStrict.MatchString(guess) {
		return ""
	}
	return guess
}
