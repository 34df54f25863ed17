package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memtensor/songbook/pkg/config"
	sberrors "github.com/memtensor/songbook/pkg/errors"
	"github.com/memtensor/songbook/pkg/logger"
)

func newTestExtractor() *Extractor {
	return New(config.Default().Extract, logger.NewTestLogger())
}

func TestExtractGenericPre(t *testing.T) {
	page := `<html><head><title>Oasis - Wonderwall</title></head><body>
<nav><a href="/">Home</a></nav>
<pre>Em7      G
Today is gonna be the day


Rock &amp; roll
</pre></body></html>`

	draft, err := newTestExtractor().Extract(page, "https://www.example.com/wonderwall")
	require.NoError(t, err)
	require.NotNil(t, draft)

	assert.Equal(t, "Wonderwall", draft.Title)
	assert.Equal(t, "Oasis", draft.Artist)
	assert.Equal(t, "https://www.example.com/wonderwall", draft.SourceURL)
	assert.Equal(t, []string{"[Em7]Today is [G]gonna be the day", "Rock & roll"}, draft.Lines)
}

func TestExtractGenericContainer(t *testing.T) {
	page := `<html><head><title>Plain Song</title></head><body>
<div class="song"><p>[C]Hello</p><p>world<br>again</p></div>
</body></html>`

	draft, err := newTestExtractor().Extract(page, "https://example.com/song")
	require.NoError(t, err)
	assert.Equal(t, "Plain Song", draft.Title)
	assert.Equal(t, "", draft.Artist)
	assert.Equal(t, []string{"[C]Hello", "world", "again"}, draft.Lines)
}

func TestExtractFailures(t *testing.T) {
	t.Run("unrecognized page", func(t *testing.T) {
		page := `<html><head><title>Nothing</title></head><body><p>No chords at all</p></body></html>`
		draft, err := newTestExtractor().Extract(page, "https://example.com/x")
		require.Error(t, err)
		assert.Nil(t, draft)
		assert.True(t, sberrors.IsCode(err, sberrors.ErrCodeUnrecognizedFormat))
		assert.NotEmpty(t, sberrors.UserMessage(err))
	})

	t.Run("candidate with no lines", func(t *testing.T) {
		page := `<html><body><pre>

	</pre></body></html>`
		draft, err := newTestExtractor().Extract(page, "https://example.com/x")
		require.Error(t, err)
		assert.Nil(t, draft)
		assert.True(t, sberrors.IsCode(err, sberrors.ErrCodeNoContent))
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := newTestExtractor().Extract("", "https://example.com/x")
		assert.True(t, sberrors.IsCode(err, sberrors.ErrCodeUnrecognizedFormat))
	})
}

func TestExtractUltimateGuitarNextData(t *testing.T) {
	page := `<html><head>
<meta property="og:title" content="Wonderwall CHORDS (ver 2) by Oasis @ Ultimate-Guitar.Com">
</head><body>
<script id="__NEXT_DATA__" type="application/json">{"props":{"page":{"tab":{"song_name":"Wonderwall","artist_name":"Oasis","album_name":"Morning Glory","tonality_name":"F# minor","content":"[Verse]\r\n[ch]Em7[/ch]Today is [ch]G[/ch]gonna be the day\r\n\r\n\r\n[tab][ch]D[/ch]Backbeat[/tab]\r\n[/Verse]"}}}}</script>
</body></html>`

	draft, err := newTestExtractor().Extract(page, "https://tabs.ultimate-guitar.com/tab/oasis/wonderwall-chords-39144")
	require.NoError(t, err)

	assert.Equal(t, "Wonderwall", draft.Title)
	assert.Equal(t, "Oasis", draft.Artist)
	assert.Equal(t, "Morning Glory", draft.Album)
	assert.Equal(t, "F#m", draft.Key)
	assert.Equal(t, []string{"[Em7]Today is [G]gonna be the day", "[D]Backbeat"}, draft.Lines)
}

func TestExtractUltimateGuitarJSStore(t *testing.T) {
	page := `<html><head><title>Let It Be Chords by The Beatles @ Ultimate-Guitar.Com</title></head><body>
<div class="js-store" data-content="{&quot;store&quot;:{&quot;tab&quot;:{&quot;content&quot;:&quot;[ch]C[/ch]When I find [ch]G[/ch]myself&quot;}}}"></div>
</body></html>`

	draft, err := newTestExtractor().Extract(page, "https://www.ultimate-guitar.com/tab/123")
	require.NoError(t, err)
	assert.Equal(t, "Let It Be", draft.Title)
	assert.Equal(t, "The Beatles", draft.Artist)
	assert.Equal(t, []string{"[C]When I find [G]myself"}, draft.Lines)
}

func TestExtractUltimateGuitarFallbacks(t *testing.T) {
	t.Run("inline markup in html", func(t *testing.T) {
		page := `<html><head><meta property="og:title" content="Song CHORDS by Artist @ Ultimate-Guitar.Com"></head><body>
<script id="__NEXT_DATA__">not json</script>
<section class="tab">[ch]C[/ch]Hello <b>[ch]G[/ch]world</b></section>
</body></html>`

		draft, err := newTestExtractor().Extract(page, "https://tabs.ultimate-guitar.com/tab/1")
		require.NoError(t, err)
		assert.Equal(t, "Song", draft.Title)
		assert.Equal(t, "Artist", draft.Artist)
		assert.Equal(t, []string{"[C]Hello [G]world"}, draft.Lines)
	})

	t.Run("pre block", func(t *testing.T) {
		page := `<html><head><title>Tab by Someone</title></head><body>
<pre>Am    F
la la la la</pre></body></html>`

		draft, err := newTestExtractor().Extract(page, "https://tabs.ultimate-guitar.com/tab/2")
		require.NoError(t, err)
		assert.Equal(t, "Tab", draft.Title)
		assert.Equal(t, "Someone", draft.Artist)
		assert.Equal(t, []string{"[Am]la la [F]la la"}, draft.Lines)
	})
}

func TestExtractEChords(t *testing.T) {
	page := `<html><head><title>Artist Name - Song Name</title></head><body>
<span class="tone">Tone: Am</span>
<pre>tab notes only</pre>
<pre>C     G
Hello there my friend
Am      F
Goodbye now</pre>
</body></html>`

	draft, err := newTestExtractor().Extract(page, "https://www.e-chords.com/chords/artist/song")
	require.NoError(t, err)
	assert.Equal(t, "Song Name", draft.Title)
	assert.Equal(t, "Artist Name", draft.Artist)
	assert.Equal(t, "Am", draft.Key)
	assert.Equal(t, []string{"[C]Hello [G]there my friend", "[Am]Goodbye [F]now"}, draft.Lines)
}

func TestExtractEChordsWithoutPreFallsBackToGeneric(t *testing.T) {
	page := `<html><head><title>A - B</title></head><body><article>(C)la (G)la</article></body></html>`

	draft, err := newTestExtractor().Extract(page, "https://e-chords.com/x")
	require.NoError(t, err)
	assert.Empty(t, draft.Key)
	assert.Equal(t, []string{"(C)la (G)la"}, draft.Lines)
}

func TestStrategiesFor(t *testing.T) {
	assert.Equal(t, []Strategy{StrategyUltimateGuitar, StrategyGeneric}, StrategiesFor("https://tabs.ultimate-guitar.com/tab/x"))
	assert.Equal(t, []Strategy{StrategyEChords, StrategyGeneric}, StrategiesFor("https://www.e-chords.com/chords/x"))
	assert.Equal(t, []Strategy{StrategyGeneric}, StrategiesFor("https://example.com/ultimate"))
	assert.Equal(t, []Strategy{StrategyUltimateGuitar, StrategyGeneric}, StrategiesFor("ultimate-guitar.com/tab/x"))
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "example.com", Hostname("https://www.example.com/a"))
	assert.Equal(t, "tabs.ultimate-guitar.com", Hostname("https://tabs.ultimate-guitar.com/tab/1"))
	assert.Equal(t, "example.com", Hostname("example.com/path"))
	assert.Equal(t, "example.com", Hostname("www.example.com"))
}

func TestBestBlock(t *testing.T) {
	_, ok := bestBlock(nil)
	assert.False(t, ok)

	best, ok := bestBlock([]string{"plain words", "C G Am\nla la\nF C"})
	require.True(t, ok)
	assert.Equal(t, "C G Am\nla la\nF C", best)

	best, _ = bestBlock([]string{"first", "other"})
	assert.Equal(t, "first", best, "ties keep the first block")
}

func TestNormalizeUGMarkup(t *testing.T) {
	got := NormalizeUGMarkup("[ch]Am[/ch]la [ch] [/ch]x [TAB]y[/tab]\r\nz[Chorus]\rw")
	assert.Equal(t, "[Am]la x y\nz\nw", got)
}

func TestFragmentText(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n", fragmentText("a<br>b<p>c</p>"))
	assert.Equal(t, "x & y", fragmentText("x &amp; y<script>ignored()</script>"))
}

func TestLinesFromText(t *testing.T) {
	got := LinesFromText("  \r\nC    G   \r\nSing it out \n\n\n\nend  ")
	assert.Equal(t, []string{"[C]Sing [G]it out", "end"}, got)
	assert.Empty(t, LinesFromText(strings.Repeat(" \n", 4)))
}

func TestMineUGDataNodeLimit(t *testing.T) {
	cfg := config.Default().Extract
	cfg.MaxVisitedNodes = 3
	e := New(cfg, logger.NewTestLogger())

	blob := `{"a":{"b":{"c":{"content":"[ch]C[/ch]deep"}}}}`
	data := e.mineUGData([]string{blob}, e.logger)
	assert.Empty(t, data.text)

	e = newTestExtractor()
	data = e.mineUGData([]string{blob}, e.logger)
	assert.Equal(t, "[ch]C[/ch]deep", data.text)
}

func TestMineUGDataChordDensity(t *testing.T) {
	e := newTestExtractor()
	blob := `{"wiki":"about the song","body":"C G Am F\nC G F C\nlyrics"}`
	data := e.mineUGData([]string{blob}, e.logger)
	assert.Equal(t, "C G Am F\nC G F C\nlyrics", data.text)
}
