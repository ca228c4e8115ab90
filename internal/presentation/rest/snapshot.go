package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/LibertytechX/seeds-metrics/internal/application/dto"
	"github.com/LibertytechX/seeds-metrics/internal/application/usecase"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	"github.com/LibertytechX/seeds-metrics/pkg/auth"
)

// SnapshotReader returns stored snapshots.
type SnapshotReader interface {
	Execute(ctx context.Context, req dto.GetSnapshotRequest) (dto.SnapshotResponse, error)
}

// SnapshotHandler exposes stored snapshots read-only over HTTP.
type SnapshotHandler struct {
	reader SnapshotReader
	jwt    *auth.JWTService
	logger *slog.Logger
}

// NewSnapshotHandler creates the snapshot HTTP handler. When jwtService is
// nil the routes are served without authentication.
func NewSnapshotHandler(reader SnapshotReader, jwtService *auth.JWTService, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{reader: reader, jwt: jwtService, logger: logger}
}

// RegisterRoutes attaches snapshot routes to the given mux.
func (h *SnapshotHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /v1/loans/{loanID}/metrics", h.authenticate(http.HandlerFunc(h.getSnapshot)))
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *SnapshotHandler) getSnapshot(w http.ResponseWriter, r *http.Request) {
	req := dto.GetSnapshotRequest{LoanID: r.PathValue("loanID")}

	if raw := r.URL.Query().Get("as_of"); raw != "" {
		asOf, err := civil.ParseDate(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid as_of: expected YYYY-MM-DD"})
			return
		}
		req.AsOf = &asOf
	}

	resp, err := h.reader.Execute(r.Context(), req)
	if err != nil {
		code := httpStatus(err)
		if code == http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "get snapshot failed", "loan_id", req.LoanID, "error", err)
		}
		writeJSON(w, code, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *SnapshotHandler) authenticate(next http.Handler) http.Handler {
	if h.jwt == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}
		claims, err := h.jwt.ValidateToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
	})
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrSnapshotNotFound), errors.Is(err, model.ErrMissingLoanTerms):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
