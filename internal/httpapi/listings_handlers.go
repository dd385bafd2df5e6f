package httpapi

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const defaultListingsLimit = 100

type ListingsHandler struct {
	Listings Lister
	Log      *zap.Logger
}

func (h ListingsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultListingsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "bad_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	recs, err := h.Listings.List(r.Context(), limit)
	if err != nil {
		h.Log.Error("list listings failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to read listings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": recs, "count": len(recs)})
}
