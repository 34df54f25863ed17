package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/memtensor/songbook/pkg/interfaces"
)

var (
	ugChordTag     = regexp.MustCompile(`(?i)\[ch\]([^\[]*?)\[/ch\]`)
	ugChordTagFull = regexp.MustCompile(`(?i)\[ch\][^\[]+\[/ch\]`)
	ugSectionTag   = regexp.MustCompile(`(?i)\[/?(?:tab|chord|intro|verse|chorus|bridge|solo)\]`)
	ugInlineSlice  = regexp.MustCompile(`(?is)\[ch\].*?\[/ch\].*?(?:</|$)`)
	trailingClose  = regexp.MustCompile(`</[^>]*$`)
	carriageReturn = regexp.MustCompile(`\r\n?`)
)

// NormalizeUGMarkup rewrites Ultimate Guitar [ch]X[/ch] tags as [X]. Empty
// chord tags are removed, section tags such as [tab] or [/verse] are
// stripped and line endings become \n.
func NormalizeUGMarkup(s string) string {
	out := ugChordTag.ReplaceAllStringFunc(s, func(m string) string {
		sub := ugChordTag.FindStringSubmatch(m)
		chord := strings.TrimSpace(sub[1])
		if chord == "" {
			return ""
		}
		return "[" + chord + "]"
	})
	out = ugSectionTag.ReplaceAllString(out, "")
	return carriageReturn.ReplaceAllString(out, "\n")
}

// ugDataBlobs returns the structured data embedded in an Ultimate Guitar
// page: the Next.js payload and the legacy js-store attribute
func (p *page) ugDataBlobs() []string {
	var blobs []string
	if s := p.doc.Find(`script#__NEXT_DATA__`).First(); s.Length() > 0 {
		if text := strings.TrimSpace(s.Text()); text != "" {
			blobs = append(blobs, text)
		}
	}
	p.doc.Find(`.js-store[data-content]`).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("data-content"); ok && strings.TrimSpace(v) != "" {
			blobs = append(blobs, v)
		}
	})
	return blobs
}

// ugData is what structured-data mining found
type ugData struct {
	text string
	meta songMeta
}

// mineUGData walks each blob for the first string holding [ch] tags or at
// least densityThreshold chord-like tokens, and for meta fields. Blobs that
// fail to parse are skipped.
func (e *Extractor) mineUGData(blobs []string, log interfaces.Logger) ugData {
	var out ugData
	for _, blob := range blobs {
		root, err := ParseTree([]byte(blob), e.cfg.MaxDepth)
		if err != nil {
			log.Debug("Skipping unparsable structured data", map[string]interface{}{"error": err.Error()})
			continue
		}

		complete := Walk(root, e.cfg.MaxVisitedNodes, func(key string, n *Node) bool {
			if n.Kind != KindString {
				return true
			}
			if key != "" {
				out.meta.collect(key, n.Str)
			}
			if out.text == "" && (ugChordTagFull.MatchString(n.Str) || chordDensity(n.Str) >= e.cfg.ChordDensityThreshold) {
				out.text = n.Str
			}
			return true
		})
		if !complete {
			log.Warn("Structured data traversal hit the node limit", map[string]interface{}{
				"max_visited_nodes": e.cfg.MaxVisitedNodes,
			})
		}
	}
	if out.meta.Key != "" {
		out.meta.Key = cleanKey(out.meta.Key)
	}
	return out
}

// ugInlineText returns the slice of raw HTML from the first [ch] tag up to
// the next closing tag
func ugInlineText(raw string) (string, bool) {
	m := ugInlineSlice.FindString(raw)
	if m == "" {
		return "", false
	}
	return trailingClose.ReplaceAllString(m, ""), true
}
