package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles msgpack IPC over a reader/writer pair, normally stdin and stdout.
type Server struct {
	svc     *Service
	decoder *msgpack.Decoder
	writer  *bufio.Writer
	encoder *msgpack.Encoder
	logger  *log.Logger
}

// NewServer creates an IPC server reading requests from r and writing
// responses to w.
func NewServer(svc *Service, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		svc:     svc,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		writer:  bw,
		encoder: msgpack.NewEncoder(bw),
		logger:  svc.logger,
	}
}

// Start sends the ready message and serves requests until the input ends.
// A request that decodes as msgpack but not as a Request gets a 400 and the
// loop continues. A broken stream ends the loop with an error.
func (s *Server) Start() error {
	s.logger.Debug("Starting IPC server.")

	if err := s.send(map[string]string{"status": "ready"}); err != nil {
		return err
	}

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("IPC input closed")
				return nil
			}
			s.logger.Errorf("Reading request stream: %v", err)
			_ = s.send(&ErrorResponse{Error: "malformed msgpack stream", Code: http.StatusBadRequest})
			return fmt.Errorf("decode request: %w", err)
		}

		if err := s.send(s.handleRaw(raw)); err != nil {
			return err
		}
	}
}

// handleRaw decodes one message and returns the response to write.
func (s *Server) handleRaw(raw msgpack.RawMessage) any {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Warnf("Unmarshaling request: %v", err)
		return &ErrorResponse{Error: "invalid request", Code: http.StatusBadRequest}
	}
	return s.handleRequest(&req)
}

// handleRequest dispatches on the action.
func (s *Server) handleRequest(req *Request) any {
	if !s.svc.Allow() {
		s.logger.Warn("rate limited", "id", req.ID)
		return errorResponse(req.ID, errRateLimited)
	}

	switch req.Action {
	case ActionSuggest:
		resp, err := s.svc.Suggest(req.ID, req.Context, req.Prefix, req.Limit)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return resp
	case ActionStats:
		return s.svc.Stats(req.ID)
	case ActionTrain:
		resp, err := s.svc.Train(req.ID, req.Text)
		if err != nil {
			return errorResponse(req.ID, err)
		}
		return resp
	}
	return errorResponse(req.ID, badRequest("unknown action: %s", req.Action))
}

// send encodes one response and flushes it so the client sees it immediately.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Marshaling response: %v", err)
		return fmt.Errorf("encode response: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
