package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	chordHitPattern = regexp.MustCompile(`\b[A-G](?:#|b)?m?(?:maj|min|sus|dim|aug)?\d*\b`)
)

// page is a parsed HTML document plus its raw source
type page struct {
	raw string
	doc *goquery.Document
}

func newPage(raw string) (*page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return &page{raw: raw, doc: doc}, nil
}

// titleText returns the social-preview title, else the document title with
// whitespace collapsed
func (p *page) titleText() string {
	if og, ok := p.doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	title := p.doc.Find("title").First().Text()
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(title, " "))
}

// preBlocks returns the text of every <pre> element in document order
func (p *page) preBlocks() []string {
	var blocks []string
	p.doc.Find("pre").Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, selectionText(s))
	})
	return blocks
}

// firstContainer returns the text of the first article, section or div
func (p *page) firstContainer() (string, bool) {
	sel := p.doc.Find("article, section, div").First()
	if sel.Length() == 0 {
		return "", false
	}
	return selectionText(sel), true
}

// bestBlock picks the block scoring highest on lineCount + 2*chordHits. The
// first block wins ties.
func bestBlock(blocks []string) (string, bool) {
	if len(blocks) == 0 {
		return "", false
	}
	best, bestScore := "", -1
	for _, b := range blocks {
		score := len(newlinePattern.Split(b, -1)) + 2*len(chordHitPattern.FindAllStringIndex(b, -1))
		if score > bestScore {
			best, bestScore = b, score
		}
	}
	return best, true
}

// chordDensity counts chord-like tokens in s
func chordDensity(s string) int {
	return len(chordHitPattern.FindAllStringIndex(s, -1))
}

func selectionText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		writeChildrenText(&b, n)
	}
	return b.String()
}

// fragmentText converts an HTML fragment to text
func fragmentText(fragment string) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return html.UnescapeString(fragment)
	}
	var b strings.Builder
	for _, n := range nodes {
		writeText(&b, n)
	}
	return b.String()
}

func writeChildrenText(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

// writeText renders n as plain text: <br> and the start of <p> become line
// breaks, as does the end of a p, div or section. Scripts and styles are
// dropped; entities arrive already decoded by the parser.
func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		writeChildrenText(b, n)
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript:
		return
	case atom.Br:
		b.WriteByte('\n')
		return
	case atom.P:
		b.WriteByte('\n')
	}

	writeChildrenText(b, n)

	switch n.DataAtom {
	case atom.P, atom.Div, atom.Section:
		b.WriteByte('\n')
	}
}
