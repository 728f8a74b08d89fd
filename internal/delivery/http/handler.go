package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/labelscan/backend/internal/domain"
	"github.com/labelscan/backend/internal/usecase"
)

const contentTypeHTML = "text/html"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis *usecase.AnalysisService
	page     []byte
	version  string
}

// NewHandler creates a new HTTP handler.
// page is served for every request that is not a label upload.
func NewHandler(analysis *usecase.AnalysisService, page []byte, version string) *Handler {
	return &Handler{
		analysis: analysis,
		page:     page,
		version:  version,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	engine := ""
	if h.analysis != nil {
		engine = h.analysis.EngineName()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "labelscan-backend",
		"version": h.version,
		"engine":  engine,
	})
}

// Analyze reads the uploaded label image from the request body and
// responds with the rendered report
func (h *Handler) Analyze(c *gin.Context) {
	log := requestLogger(c)

	if h.analysis == nil {
		writeError(c, http.StatusServiceUnavailable, errors.New("analysis service not configured"))
		return
	}

	image, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read request body")
		writeError(c, http.StatusBadRequest, err)
		return
	}

	analysis, err := h.analysis.Analyze(c.Request.Context(), image)
	if err != nil {
		status := statusForError(err)
		log.Error().Err(err).Int("status", status).Int("bytes", len(image)).Msg("label analysis failed")
		writeError(c, status, err)
		return
	}

	log.Debug().
		Bool("cached", analysis.Cached).
		Int("bytes", len(image)).
		Msg("report rendered")

	c.Data(http.StatusOK, contentTypeHTML, []byte(analysis.Text))
}

// Page serves the static upload page
func (h *Handler) Page(c *gin.Context) {
	c.Data(http.StatusOK, contentTypeHTML, h.page)
}

// statusForError maps analysis failures onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyImage):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOCRTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrOCRFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, status int, err error) {
	c.Data(status, contentTypeHTML, []byte("error: "+err.Error()))
}

func requestLogger(c *gin.Context) *zerolog.Logger {
	if l, ok := c.Get(loggerKey); ok {
		if logger, ok := l.(*zerolog.Logger); ok {
			return logger
		}
	}
	nop := zerolog.Nop()
	return &nop
}
