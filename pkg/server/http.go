package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// APIPrefix is the route group of the versioned HTTP API.
const APIPrefix = "/v1"

const maxTrainBody = 32 << 20

// Handler serves the Service over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler creates the HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type trainBody struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Suggest handles GET /v1/suggest?context=&prefix=&limit=
func (h *Handler) Suggest(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.abort(c, badRequest("limit must be an integer"))
			return
		}
		limit = n
	}

	resp, err := h.svc.Suggest(c.Query("id"), c.Query("context"), c.Query("prefix"), limit)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats handles GET /v1/stats
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats(""))
}

// Train handles POST /v1/train. The body is either plain text or a JSON
// object with a text field.
func (h *Handler) Train(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxTrainBody)

	var body trainBody
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.abort(c, badRequest("invalid json body"))
			return
		}
	} else {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			h.abort(c, badRequest("unreadable body"))
			return
		}
		body.Text = string(data)
	}

	resp, err := h.svc.Train(body.ID, body.Text)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Health handles GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) abort(c *gin.Context, err error) {
	resp := errorResponse(c.Query("id"), err)
	c.AbortWithStatusJSON(resp.Code, resp)
}

// rateLimit rejects requests beyond the configured rate with 429.
func (h *Handler) rateLimit(c *gin.Context) {
	if !h.svc.Allow() {
		h.abort(c, errRateLimited)
		return
	}
	c.Next()
}

// requestLogger logs each request through the service logger.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.svc.logger.Debug("http",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"took", time.Since(start))
}

// RegisterRoutes mounts the API on router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.Health)

	api := router.Group(APIPrefix, h.rateLimit)
	{
		api.GET("/suggest", h.Suggest)
		api.GET("/stats", h.Stats)
		api.POST("/train", h.Train)
	}
}

// SetDebugMode switches gin between debug and release mode. Release mode
// keeps route registration notices off stdout.
func SetDebugMode(debug bool) {
	if debug {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}

// NewRouter builds a gin engine with recovery, request logging and the API routes.
func NewRouter(svc *Service) *gin.Engine {
	h := NewHandler(svc)
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)
	h.RegisterRoutes(router)
	return router
}

// ListenAndServe serves router on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, router http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
