package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"dompetku/internal/core"
	"dompetku/internal/log"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	calc := s.ledger.Calculator()
	now := s.ledger.Now()

	start := calc.CurrentStart(now)
	if raw := strings.TrimSpace(r.URL.Query().Get("period")); raw != "" {
		token, err := calc.ParseToken(raw)
		if err != nil {
			logger.WarnContext(ctx, "Invalid period requested", log.FieldPeriod, raw, log.FieldError, err)
			NewRedirect("/").Error(msgInvalidPeriod).Write(w, r, s.flashes)
			return
		}
		start = calc.StartFor(token)
		if calc.BeforeFloor(start) {
			logger.WarnContext(ctx, "Period before floor requested", log.FieldPeriod, raw)
			NewRedirect("/").Error(msgInvalidPeriod).Write(w, r, s.flashes)
			return
		}
	}

	summary, err := s.ledger.Summary(ctx, start)
	if err != nil {
		s.fail(w, r, log.OpList, err)
		return
	}

	view := newIndexView(summary, calc.Options(now, s.periodOptions), calc.OptionFor(start), s.currency)
	if f, ok := s.flashes.Pop(w, r); ok {
		view.Flash = &f
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", view); err != nil {
		logger.ErrorContext(ctx, "Index template execution failed",
			log.FieldOperation, log.OpRender, log.FieldError, err)
		writeFailurePage(w, s.templates, http.StatusInternalServerError, msgFailure)
		return
	}
	logger.DebugContext(ctx, "Rendered period",
		log.FieldPeriod, view.Selected, "transactions", len(view.Rows))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fields, err := ParseTransactionFields(NewRequestBodyParser(w, r))
	if err != nil {
		s.reject(w, r, log.OpCreate, "", err)
		return
	}
	id, err := s.ledger.Create(ctx, fields)
	if err != nil {
		s.reject(w, r, log.OpCreate, "", err)
		return
	}
	log.FromContext(ctx).LogMutation(ctx, log.OpCreate, id, nil)
	NewRedirect("/").Success(msgAdded).Write(w, r, s.flashes)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	fields, err := ParseTransactionFields(NewRequestBodyParser(w, r))
	if err != nil {
		s.reject(w, r, log.OpUpdate, id, err)
		return
	}
	if err := s.ledger.Update(ctx, id, fields); err != nil {
		s.reject(w, r, log.OpUpdate, id, err)
		return
	}
	log.FromContext(ctx).LogMutation(ctx, log.OpUpdate, id, nil)
	NewRedirect("/").Info(msgUpdated).Write(w, r, s.flashes)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if err := s.ledger.Delete(ctx, id); err != nil {
		s.reject(w, r, log.OpDelete, id, err)
		return
	}
	log.FromContext(ctx).LogMutation(ctx, log.OpDelete, id, nil)
	NewRedirect("/").Error(msgDeleted).Write(w, r, s.flashes)
}

// reject maps a failed mutation to its response: a notice for missing
// records and bad input, the failure page for everything else.
func (s *Server) reject(w http.ResponseWriter, r *http.Request, op, id string, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, core.ErrNotFound):
		log.FromContext(ctx).LogMutation(ctx, op, id, err)
		NewRedirect("/").Info(msgNotFound).Write(w, r, s.flashes)
	case errors.Is(err, core.ErrInvalidInput):
		log.FromContext(ctx).LogMutation(ctx, op, id, err)
		NewRedirect("/").Error(invalidInputMessage(err)).Write(w, r, s.flashes)
	default:
		s.fail(w, r, op, err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
		log.FieldOperation, op, log.FieldError, err)
	writeFailurePage(w, s.templates, http.StatusInternalServerError, msgFailure)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.ledger.Ping(ctx); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
