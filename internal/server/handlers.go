package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/recompile/pkg/depgraph"
	apperr "github.com/matzehuels/recompile/pkg/errors"
	pkgio "github.com/matzehuels/recompile/pkg/io"
)

type errorResponse struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Source   string `json:"source,omitempty"`
	Vertices int    `json:"vertices"`
	Edges    int    `json:"edges"`
}

type graphResponse struct {
	ID       string `json:"id"`
	Vertices int    `json:"vertices"`
	Edges    int    `json:"edges"`
}

type orderResponse struct {
	ID    string   `json:"id"`
	Start string   `json:"start"`
	Rule  string   `json:"rule"`
	Order []string `json:"order"`
	Text  string   `json:"text"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	g, source := s.Graph()
	if g != nil {
		resp.Source = source
		resp.Vertices = g.VertexCount()
		resp.Edges = g.EdgeCount()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	g, _ := s.Graph()
	if g == nil {
		s.writeError(w, r, apperr.New(apperr.ErrCodeGraphNotBuilt, "no graph loaded"))
		return
	}

	var buf bytes.Buffer
	if err := pkgio.WriteJSON(g, &buf); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "encode graph"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	g, err := s.runner.Build(r.Context(), "request", body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = apperr.Wrap(apperr.ErrCodeInvalidInput, err, "request body exceeds %d bytes", s.maxBody)
		}
		s.writeError(w, r, err)
		return
	}

	s.SetGraph(g, "request "+RequestID(r.Context()))
	writeJSON(w, http.StatusOK, graphResponse{
		ID:       RequestID(r.Context()),
		Vertices: g.VertexCount(),
		Edges:    g.EdgeCount(),
	})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	class := chi.URLParam(r, "class")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(class); err == nil {
			class = unescaped
		}
	}

	rule := s.runner.Rule
	if q := r.URL.Query().Get("rule"); q != "" {
		parsed, err := depgraph.ParseRule(q)
		if err != nil {
			s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid rule %q", q))
			return
		}
		rule = parsed
	}

	g, _ := s.Graph()
	order, err := s.runner.OrderWith(r.Context(), g, class, rule)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{
		ID:    RequestID(r.Context()),
		Start: order.Start,
		Rule:  rule.String(),
		Order: order.Labels,
		Text:  order.String(),
	})
}

// statusFor maps an error code to an HTTP status.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case apperr.ErrCodeInvalidClass, apperr.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperr.ErrCodeCycleDetected:
		return http.StatusConflict
	case apperr.ErrCodeGraphNotBuilt:
		return http.StatusServiceUnavailable
	case apperr.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: apperr.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
