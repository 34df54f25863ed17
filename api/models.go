package api

import "github.com/memtensor/songbook/pkg/types"

// BaseResponse represents the base structure for all API responses
type BaseResponse[T any] struct {
	Code    int    `json:"code" example:"200"`
	Message string `json:"message" example:"Operation successful"`
	Data    *T     `json:"data,omitempty"`
}

// NotationParseRequest carries free-form chord text to normalize
type NotationParseRequest struct {
	Text string `json:"text" example:"C     G\nHello world"`
}

// NotationParseData is the normalized markup and the detected input format
type NotationParseData struct {
	Format string               `json:"format"`
	Lines  []types.RawChordLine `json:"lines"`
}

// LinesRequest carries canonical markup lines
type LinesRequest struct {
	Lines []types.RawChordLine `json:"lines" binding:"required"`
}

// LinesData carries canonical markup lines back to the caller
type LinesData struct {
	Lines []types.RawChordLine `json:"lines"`
}

// ParsedLinesData carries the token sequences for each line
type ParsedLinesData struct {
	Lines []types.ParsedChordLine `json:"lines"`
}

// RenderRequest asks for a set of lines to be laid out for display
type RenderRequest struct {
	Lines        []types.RawChordLine            `json:"lines" binding:"required"`
	LyricsByLang map[string][]types.RawChordLine `json:"lyrics_by_lang,omitempty"`
	Settings     *types.RenderSettings           `json:"settings,omitempty"`
}

// RenderData holds rendered rows plus their plain text form
type RenderData struct {
	Lines     []types.RenderedLine `json:"lines"`
	Text      string               `json:"text"`
	Chords    []string             `json:"chords"`
	Languages []string             `json:"languages"`
}

// TransposeData is the result of a single chord transposition
type TransposeData struct {
	Chord      string         `json:"chord"`
	Steps      int            `json:"steps"`
	Notation   types.Notation `json:"notation"`
	Transposed string         `json:"transposed"`
}

// ImportRequest names the page to import
type ImportRequest struct {
	URL string `json:"url" binding:"required" example:"https://tabs.ultimate-guitar.com/tab/x"`
}

// SearchData holds online search hits
type SearchData struct {
	Query   string               `json:"query"`
	Results []types.SearchResult `json:"results"`
}

// Response types
type NotationParseResponse = BaseResponse[NotationParseData]
type LinesResponse = BaseResponse[LinesData]
type ParsedLinesResponse = BaseResponse[ParsedLinesData]
type RenderResponse = BaseResponse[RenderData]
type TransposeResponse = BaseResponse[TransposeData]
type ImportResponse = BaseResponse[types.ImportResult]
type SearchResponse = BaseResponse[SearchData]

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
	Details   string `json:"details,omitempty"`
}

// MetricsResponse represents metrics response
type MetricsResponse struct {
	Timestamp string      `json:"timestamp"`
	Uptime    string      `json:"uptime"`
	Metrics   interface{} `json:"metrics"`
}
