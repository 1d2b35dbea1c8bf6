package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/hiking-guide/internal/domain/edge"
	"github.com/yanqian/hiking-guide/internal/domain/safetyform"
)

// FormFactory returns a fresh form for each page load.
type FormFactory func() *safetyform.Form

// Handler wires the HTTP transport to the forwarder and the safety form.
type Handler struct {
	forwarder *edge.Forwarder
	newForm   FormFactory
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(forwarder *edge.Forwarder, newForm FormFactory, logger *slog.Logger) *Handler {
	return &Handler{
		forwarder: forwarder,
		newForm:   newForm,
		logger:    logger.With("component", "http.handler"),
	}
}

// Forward relays /api/* to the backend and returns its response with the
// CORS policy applied.
func (h *Handler) Forward(c *gin.Context) {
	remainder := strings.TrimPrefix(c.Request.URL.EscapedPath(), "/api/")

	resp, err := h.forwarder.Forward(c.Request.Context(), c.Request, remainder)
	if err != nil {
		switch {
		case errors.Is(err, edge.ErrEmptyPath):
			abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "no api path given", err))
			return
		case errors.Is(err, edge.ErrDotSegment):
			abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "api path must not contain dot segments", err))
			return
		}
		abortWithError(c, asHTTPError(err))
		return
	}
	defer resp.Body.Close()

	dst := c.Writer.Header()
	for key, values := range resp.Header {
		dst[key] = append([]string(nil), values...)
	}
	h.forwarder.ApplyCORS(dst)
	c.Status(resp.StatusCode)

	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		h.logger.Warn("copy backend body interrupted", "path", c.Request.URL.Path, "error", err)
	}
}

// ShowForm mounts a fresh form and renders it.
func (h *Handler) ShowForm(c *gin.Context) {
	form := h.newForm()
	form.Mount(c.Request.Context())
	h.renderForm(c, form.Snapshot())
}

// SubmitForm handles a posted form: it mounts, applies the inputs,
// submits and renders the outcome.
func (h *Handler) SubmitForm(c *gin.Context) {
	form := h.newForm()
	form.Mount(c.Request.Context())

	trailID := strings.TrimSpace(c.PostForm("trail_id"))
	desc := strings.TrimSpace(c.PostForm("user_path_desc"))
	if trailID == "" || desc == "" {
		if trailID != "" {
			form.SetTrailID(trailID)
		}
		if desc != "" {
			form.SetUserDesc(desc)
		}
		state := form.Snapshot()
		state.Error = "trail and description are both required"
		c.Status(http.StatusUnprocessableEntity)
		h.renderForm(c, state)
		return
	}

	form.SetTrailID(trailID)
	form.SetUserDesc(desc)
	form.Submit(c.Request.Context())
	h.renderForm(c, form.Snapshot())
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) renderForm(c *gin.Context, state safetyform.State) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := renderFormPage(c.Writer, state); err != nil {
		h.logger.Error("render form failed", "error", err)
	}
}
