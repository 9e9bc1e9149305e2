package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordchain/internal/utils"
	"github.com/bastiangx/wordchain/pkg/config"
	"github.com/bastiangx/wordchain/pkg/suggest"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// RequestError is a failure that maps onto a protocol status code.
type RequestError struct {
	Code    int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

var errRateLimited = &RequestError{Code: http.StatusTooManyRequests, Message: "rate limit exceeded"}

func badRequest(format string, args ...any) *RequestError {
	return &RequestError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Service applies limits and validation in front of the engine. The IPC
// and HTTP servers share one Service.
type Service struct {
	engine  suggest.ISuggester
	cfg     config.ServerConfig
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewService wraps engine with the limits of cfg. A zero rate limit
// disables limiting.
func NewService(engine suggest.ISuggester, cfg config.ServerConfig, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	s := &Service{engine: engine, cfg: cfg, logger: logger}
	if cfg.RateLimit > 0 {
		burst := max(int(cfg.RateLimit), 1)
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s
}

// Allow consumes one request token. It is always true without a limiter.
func (s *Service) Allow() bool {
	return s.limiter == nil || s.limiter.Allow()
}

// clampLimit maps a requested limit onto [1, MaxLimit]; non-positive
// values take the default.
func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if s.cfg.MaxLimit > 0 && limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	return limit
}

// Suggest validates the query and returns the top suggestions.
func (s *Service) Suggest(id, context, prefix string, limit int) (*SuggestResponse, error) {
	if err := utils.ValidateQueryText("prefix", prefix, s.cfg.MaxPrefix); err != nil {
		return nil, badRequest("%v", err)
	}
	if err := utils.ValidateQueryText("context", context, s.cfg.MaxPrefix); err != nil {
		return nil, badRequest("%v", err)
	}
	if limit < 0 {
		return nil, badRequest("limit must not be negative")
	}
	limit = s.clampLimit(limit)

	start := time.Now()
	suggestions := s.engine.SuggestN(context, prefix, limit)
	elapsed := time.Since(start)

	s.logger.Debug("suggest", "id", id, "context", context, "prefix", prefix, "count", len(suggestions), "took", elapsed)
	return &SuggestResponse{
		ID:          id,
		Context:     context,
		Prefix:      prefix,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}, nil
}

// Stats returns the engine counters.
func (s *Service) Stats(id string) *StatsResponse {
	return &StatsResponse{ID: id, Status: "ok", Stats: s.engine.Stats()}
}

// Train replaces the engine's model with one trained on text.
func (s *Service) Train(id, text string) (*TrainResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, badRequest("missing text to train on")
	}
	if !utf8.ValidString(text) {
		return nil, badRequest("text is not valid utf-8")
	}
	stats := s.engine.Train(text)
	s.logger.Info("retrained", "id", id, "vocabulary", stats.Vocabulary, "tokens", stats.Tokens)
	return &TrainResponse{
		ID:         id,
		Status:     "ok",
		Tokens:     stats.Tokens,
		Vocabulary: stats.Vocabulary,
		Pairs:      stats.Pairs,
		TimeTaken:  stats.Took.Microseconds(),
	}, nil
}

// errorResponse converts any error into its wire form.
func errorResponse(id string, err error) *ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return &ErrorResponse{ID: id, Error: reqErr.Message, Code: reqErr.Code}
	}
	return &ErrorResponse{ID: id, Error: "internal server error", Code: http.StatusInternalServerError}
}
