// File: internal/handlers/ledger_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/iyunix/go-brainchat/internal/dtos"
	"github.com/iyunix/go-brainchat/internal/middleware"
	"github.com/iyunix/go-brainchat/internal/repository/submission"
	"github.com/iyunix/go-brainchat/internal/services"
)

// LedgerHandler exposes the caller's submission audit trail.
type LedgerHandler struct {
	repo      submission.SubmissionRepository
	presenter *dtos.Presenter
	logger    Logger
}

func NewLedgerHandler(repo submission.SubmissionRepository, presenter *dtos.Presenter, logger Logger) *LedgerHandler {
	if presenter == nil {
		presenter = dtos.NewPresenter(nil)
	}
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &LedgerHandler{repo: repo, presenter: presenter, logger: logger}
}

// GetSubmissions returns outcome counts and the newest records;
// ?limit=N picks how many.
func (h *LedgerHandler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	counts, err := h.repo.CountByOutcome(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("failed to count submissions", "owner_id", ownerID, "error", err)
		writeError(w, "Could not load submissions", http.StatusInternalServerError)
		return
	}
	recs, err := h.repo.FindRecent(r.Context(), ownerID, limit)
	if err != nil {
		h.logger.Error("failed to load submissions", "owner_id", ownerID, "error", err)
		writeError(w, "Could not load submissions", http.StatusInternalServerError)
		return
	}

	out := dtos.SubmissionStatsDTO{Counts: counts, Recent: make([]dtos.SubmissionDTO, 0, len(recs))}
	for _, rec := range recs {
		out.Recent = append(out.Recent, h.presenter.Submission(rec))
	}
	writeJSON(w, http.StatusOK, out)
}
