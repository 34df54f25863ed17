// Package extract turns chord-sheet web pages into song drafts.
//
// Each page is tried against a fixed, ordered list of strategies chosen by
// its hostname. Whatever text a strategy recovers goes through the same
// line pipeline before it becomes a draft.
package extract

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/memtensor/songbook/pkg/config"
	sberrors "github.com/memtensor/songbook/pkg/errors"
	"github.com/memtensor/songbook/pkg/interfaces"
	"github.com/memtensor/songbook/pkg/logger"
	"github.com/memtensor/songbook/pkg/notation"
	"github.com/memtensor/songbook/pkg/types"
)

// Strategy names an extraction strategy
type Strategy string

const (
	// StrategyUltimateGuitar mines [ch]-tagged text from embedded page data
	StrategyUltimateGuitar Strategy = "ultimate-guitar"
	// StrategyEChords picks the densest <pre> block
	StrategyEChords Strategy = "e-chords"
	// StrategyGeneric uses <pre> blocks, else the first content container
	StrategyGeneric Strategy = "generic"
)

var (
	ugHost         = regexp.MustCompile(`(?i)ultimate-guitar\.com$`)
	ugURL          = regexp.MustCompile(`(?i)ultimate-guitar\.com`)
	echordsHost    = regexp.MustCompile(`(?i)e-chords\.com$`)
	echordsURL     = regexp.MustCompile(`(?i)e-chords\.com`)
	newlinePattern = regexp.MustCompile(`\r?\n`)
	hostPattern    = regexp.MustCompile(`(?i)^(?:https?://)?([^/]+)`)
)

// Extractor runs the extraction pipeline
type Extractor struct {
	cfg    config.ExtractConfig
	logger interfaces.Logger
}

// New creates an extractor. Zero limits fall back to the defaults and a nil
// logger discards output.
func New(cfg config.ExtractConfig, log interfaces.Logger) *Extractor {
	defaults := config.Default().Extract
	if cfg.MaxVisitedNodes <= 0 {
		cfg.MaxVisitedNodes = defaults.MaxVisitedNodes
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = defaults.MaxDepth
	}
	if cfg.ChordDensityThreshold <= 0 {
		cfg.ChordDensityThreshold = defaults.ChordDensityThreshold
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Extractor{cfg: cfg, logger: log}
}

// Hostname returns the host of rawURL without a leading "www."
func Hostname(rawURL string) string {
	var host string
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	} else if m := hostPattern.FindStringSubmatch(rawURL); m != nil {
		host = m[1]
	} else {
		host = rawURL
	}
	return strings.TrimPrefix(host, "www.")
}

// StrategiesFor lists the strategies to try for sourceURL, in order. The
// generic strategy is always last.
func StrategiesFor(sourceURL string) []Strategy {
	host := Hostname(sourceURL)
	var out []Strategy
	if ugHost.MatchString(host) || ugURL.MatchString(sourceURL) {
		out = append(out, StrategyUltimateGuitar)
	}
	if echordsHost.MatchString(host) || echordsURL.MatchString(sourceURL) {
		out = append(out, StrategyEChords)
	}
	return append(out, StrategyGeneric)
}

// Extract converts a page into a draft. A page where no strategy found any
// candidate text fails with UNRECOGNIZED_FORMAT; one where candidate text
// reduced to zero lines fails with NO_CONTENT.
func (e *Extractor) Extract(rawHTML, sourceURL string) (*types.ImportDraft, error) {
	p, err := newPage(rawHTML)
	if err != nil {
		return nil, sberrors.NewInternalErrorWithCause("failed to parse page", err)
	}

	log := e.logger.WithFields(map[string]interface{}{"host": Hostname(sourceURL)})
	var emptyStrategy Strategy

	for _, s := range StrategiesFor(sourceURL) {
		draft, found := e.run(s, p, sourceURL, log)
		if draft != nil {
			log.Debug("Extracted draft", map[string]interface{}{
				"strategy": string(s),
				"lines":    len(draft.Lines),
			})
			return draft, nil
		}
		if found && emptyStrategy == "" {
			emptyStrategy = s
		}
		log.Debug("Strategy produced no draft", map[string]interface{}{
			"strategy":        string(s),
			"candidate_found": found,
		})
	}

	if emptyStrategy != "" {
		return nil, sberrors.NewNoContentError(sourceURL, string(emptyStrategy))
	}
	return nil, sberrors.NewUnrecognizedFormatError(sourceURL)
}

// run applies one strategy. found reports whether candidate text existed,
// even if it reduced to no lines.
func (e *Extractor) run(s Strategy, p *page, sourceURL string, log interfaces.Logger) (draft *types.ImportDraft, found bool) {
	switch s {
	case StrategyUltimateGuitar:
		return e.fromUltimateGuitar(p, sourceURL, log)
	case StrategyEChords:
		return fromEChords(p, sourceURL)
	default:
		return fromGeneric(p, sourceURL)
	}
}

func (e *Extractor) fromUltimateGuitar(p *page, sourceURL string, log interfaces.Logger) (*types.ImportDraft, bool) {
	title, artist := splitUGTitleArtist(p.titleText())
	data := e.mineUGData(p.ugDataBlobs(), log)
	if data.meta.Title != "" {
		title = data.meta.Title
	}
	if data.meta.Artist != "" {
		artist = data.meta.Artist
	}

	newDraft := func(lines []string) *types.ImportDraft {
		return &types.ImportDraft{
			Title:     title,
			Artist:    artist,
			Album:     data.meta.Album,
			Key:       data.meta.Key,
			Lines:     lines,
			SourceURL: sourceURL,
		}
	}

	found := false
	if data.text != "" {
		found = true
		if lines := LinesFromText(NormalizeUGMarkup(html.UnescapeString(data.text))); len(lines) > 0 {
			return newDraft(lines), true
		}
	}
	if inline, ok := ugInlineText(p.raw); ok {
		found = true
		if lines := LinesFromText(fragmentText(NormalizeUGMarkup(inline))); len(lines) > 0 {
			return newDraft(lines), true
		}
	}
	if block, ok := bestBlock(p.preBlocks()); ok {
		found = true
		if lines := LinesFromText(block); len(lines) > 0 {
			return newDraft(lines), true
		}
	}
	return nil, found
}

func fromEChords(p *page, sourceURL string) (*types.ImportDraft, bool) {
	block, ok := bestBlock(p.preBlocks())
	if !ok {
		return nil, false
	}
	lines := LinesFromText(block)
	if len(lines) == 0 {
		return nil, true
	}
	title, artist := splitTitleArtist(p.titleText())
	return &types.ImportDraft{
		Title:     title,
		Artist:    artist,
		Key:       keyFromLabel(p.raw),
		Lines:     lines,
		SourceURL: sourceURL,
	}, true
}

func fromGeneric(p *page, sourceURL string) (*types.ImportDraft, bool) {
	text, ok := bestBlock(p.preBlocks())
	if !ok {
		text, ok = p.firstContainer()
	}
	if !ok {
		return nil, false
	}
	lines := LinesFromText(text)
	if len(lines) == 0 {
		return nil, true
	}
	title, artist := splitTitleArtist(p.titleText())
	return &types.ImportDraft{
		Title:     title,
		Artist:    artist,
		Lines:     lines,
		SourceURL: sourceURL,
	}, true
}

// LinesFromText splits recovered text into lines, trims trailing
// whitespace, drops blank lines and runs the result through
// notation.PostProcessLines
func LinesFromText(text string) []string {
	raw := newlinePattern.Split(text, -1)
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRightFunc(l, unicode.IsSpace)
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return notation.PostProcessLines(lines)
}
