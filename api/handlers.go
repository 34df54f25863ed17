package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/memtensor/songbook/pkg/chords"
	sberrors "github.com/memtensor/songbook/pkg/errors"
	"github.com/memtensor/songbook/pkg/markup"
	"github.com/memtensor/songbook/pkg/notation"
	"github.com/memtensor/songbook/pkg/types"
)

// healthCheck provides a health check endpoint
// @Summary Health Check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) healthCheck(c *gin.Context) {
	checks := map[string]string{
		"import": "ok",
		"search": "disabled",
	}
	if s.searcher != nil && s.config.Search.Enabled {
		checks["search"] = "stub"
		if s.config.SearchBackendConfigured() {
			checks["search"] = "google_cse"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Checks:    checks,
	})
}

// getMetrics handles metrics endpoint
func (s *Server) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, MetricsResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Metrics:   s.metrics.Snapshot(),
	})
}

// parseNotation normalizes free-form chord text into inline markup
// @Summary Normalize chord text
// @Tags notation
// @Accept json
// @Produce json
// @Param request body NotationParseRequest true "Chord text"
// @Success 200 {object} NotationParseResponse
// @Router /v1/notation/parse [post]
func (s *Server) parseNotation(c *gin.Context) {
	var req NotationParseRequest
	if !s.bindJSON(c, &req) {
		return
	}

	lines, format := notation.ParseChordNotationFormat(req.Text)
	c.JSON(http.StatusOK, NotationParseResponse{
		Code:    http.StatusOK,
		Message: "Notation parsed successfully",
		Data:    &NotationParseData{Format: string(format), Lines: lines},
	})
}

// normalizeLines collapses runs of whitespace in markup lines
func (s *Server) normalizeLines(c *gin.Context) {
	var req LinesRequest
	if !s.bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, LinesResponse{
		Code:    http.StatusOK,
		Message: "Lines normalized successfully",
		Data:    &LinesData{Lines: notation.NormalizeChordMarkup(req.Lines)},
	})
}

// parseLines tokenizes markup lines
func (s *Server) parseLines(c *gin.Context) {
	var req LinesRequest
	if !s.bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, ParsedLinesResponse{
		Code:    http.StatusOK,
		Message: "Lines parsed successfully",
		Data:    &ParsedLinesData{Lines: markup.ParseSongLines(req.Lines)},
	})
}

// render lays out markup lines under the given display settings
// @Summary Render lines
// @Tags render
// @Accept json
// @Produce json
// @Param request body RenderRequest true "Lines and settings"
// @Success 200 {object} RenderResponse
// @Router /v1/render [post]
func (s *Server) render(c *gin.Context) {
	var req RenderRequest
	if !s.bindJSON(c, &req) {
		return
	}

	settings := types.DefaultRenderSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}
	switch settings.ViewMode {
	case "":
		settings.ViewMode = types.ViewModeChords
	case types.ViewModeChords, types.ViewModeLyrics:
	default:
		s.handleError(c, "Invalid render settings",
			sberrors.NewInvalidInputError(fmt.Sprintf("unknown view mode %q", settings.ViewMode)))
		return
	}
	settings.Notation = types.ParseNotation(string(settings.Notation))

	song := &types.Song{Lines: req.Lines, LyricsByLang: req.LyricsByLang}
	rendered := markup.RenderSong(song, settings)
	data := &RenderData{
		Lines:     rendered,
		Text:      markup.TextBlock(rendered),
		Chords:    markup.SongChords(song.LinesFor(settings.Language), settings.TransposeSteps, settings.Notation),
		Languages: song.Languages(),
	}
	c.JSON(http.StatusOK, RenderResponse{
		Code:    http.StatusOK,
		Message: "Lines rendered successfully",
		Data:    data,
	})
}

// transposeChord shifts a single chord symbol
// @Summary Transpose a chord
// @Tags chords
// @Produce json
// @Param chord query string true "Chord symbol"
// @Param steps query int false "Semitones"
// @Param notation query string false "sharp or flat"
// @Success 200 {object} TransposeResponse
// @Router /v1/chords/transpose [get]
func (s *Server) transposeChord(c *gin.Context) {
	chord := strings.TrimSpace(c.Query("chord"))
	if chord == "" {
		s.handleError(c, "Invalid request", sberrors.NewMissingFieldError("chord"))
		return
	}
	steps := 0
	if raw := c.Query("steps"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.handleError(c, "Invalid request",
				sberrors.NewInvalidInputError("steps must be an integer").WithDetail("field", "steps"))
			return
		}
		steps = n
	}
	n := types.ParseNotation(c.Query("notation"))

	c.JSON(http.StatusOK, TransposeResponse{
		Code:    http.StatusOK,
		Message: "Chord transposed successfully",
		Data: &TransposeData{
			Chord:      chord,
			Steps:      steps,
			Notation:   n,
			Transposed: chords.TransposeChord(chord, steps, n),
		},
	})
}

// importURL fetches a page and extracts a song draft from it
// @Summary Import a chord page
// @Tags import
// @Accept json
// @Produce json
// @Param request body ImportRequest true "Page URL"
// @Success 200 {object} ImportResponse
// @Router /v1/import [post]
func (s *Server) importURL(c *gin.Context) {
	var req ImportRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if s.importer == nil {
		s.handleError(c, "Import unavailable", sberrors.NewInternalErrorWithCause("no importer configured", nil))
		return
	}

	draft, err := s.importer.Import(c.Request.Context(), req.URL)
	if err != nil {
		status := http.StatusInternalServerError
		if sbErr := sberrors.GetSongbookError(err); sbErr != nil {
			status = sbErr.HTTPStatus()
		}
		s.logger.Warn("Import failed", map[string]interface{}{
			"request_id": c.GetString("request_id"),
			"url":        req.URL,
			"error":      err.Error(),
		})
		msg := sberrors.UserMessage(err)
		c.JSON(status, ImportResponse{
			Code:    status,
			Message: msg,
			Data:    &types.ImportResult{Error: msg},
		})
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		Code:    http.StatusOK,
		Message: "Import successful",
		Data:    &types.ImportResult{Draft: draft},
	})
}

// search looks chord sheets up online
// @Summary Search online
// @Tags search
// @Produce json
// @Param q query string true "Query"
// @Success 200 {object} SearchResponse
// @Router /v1/search [get]
func (s *Server) search(c *gin.Context) {
	if s.searcher == nil {
		s.handleError(c, "Search unavailable", sberrors.NewSearchDisabledError())
		return
	}

	q := c.Query("q")
	results, err := s.searcher.Search(c.Request.Context(), q)
	if err != nil {
		s.handleError(c, "Search failed", err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Code:    http.StatusOK,
		Message: "Search completed",
		Data:    &SearchData{Query: strings.TrimSpace(q), Results: results},
	})
}

// bindJSON decodes the request body, answering 400 on failure
func (s *Server) bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:      http.StatusBadRequest,
			Message:   "Invalid request format",
			Error:     err.Error(),
			ErrorCode: string(sberrors.ErrCodeInvalidInput),
		})
		return false
	}
	return true
}

// handleError provides consistent error handling
func (s *Server) handleError(c *gin.Context, message string, err error) {
	requestID := c.GetString("request_id")

	status := http.StatusInternalServerError
	code := string(sberrors.ErrCodeInternal)
	if sbErr := sberrors.GetSongbookError(err); sbErr != nil {
		status = sbErr.HTTPStatus()
		code = string(sbErr.Code)
	}

	fields := map[string]interface{}{
		"request_id": requestID,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error(message, err, fields)
	} else {
		fields["error"] = err.Error()
		s.logger.Warn(message, fields)
	}

	c.JSON(status, ErrorResponse{
		Code:      status,
		Message:   message,
		Error:     sberrors.UserMessage(err),
		ErrorCode: code,
		Details:   fmt.Sprintf("Request ID: %s", requestID),
	})
}
