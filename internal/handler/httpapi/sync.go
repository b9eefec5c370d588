package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/forkline/order-events-service/internal/service"
)

type syncRequestBody struct {
	SyncTimes map[string]*string `json:"syncTimes"`
}

type syncResponseBody struct {
	NewOrders []model.OrderPreview        `json:"newOrders"`
	Truncated []string                    `json:"truncated,omitempty"`
	Errors    map[string]*model.SyncError `json:"errors,omitempty"`
}

type SyncHandler struct {
	reconciler service.Reconciler
}

func NewSyncHandler(reconciler service.Reconciler) *SyncHandler {
	return &SyncHandler{reconciler: reconciler}
}

// ServeHTTP answers POST /api/sync: the catch-up call a client makes after
// reconnecting to fill whatever gap its live channels missed.
func (h *SyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body syncRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	req, err := toSyncRequest(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := h.reconciler.Reconcile(r.Context(), req)
	writeJSON(w, toSyncResponse(result))
}

func toSyncRequest(body syncRequestBody) (model.SyncRequest, error) {
	req := model.SyncRequest{
		SyncTimes: make(map[string]*time.Time, len(body.SyncTimes)),
	}
	for businessID, raw := range body.SyncTimes {
		if raw == nil || *raw == "" {
			req.SyncTimes[businessID] = nil
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, *raw)
		if err != nil {
			return model.SyncRequest{}, fmt.Errorf("invalid sync time for %s: %q", businessID, *raw)
		}
		req.SyncTimes[businessID] = &t
	}
	return req, nil
}

func toSyncResponse(result model.SyncResult) syncResponseBody {
	res := syncResponseBody{
		NewOrders: make([]model.OrderPreview, 0),
	}

	// Deterministic response order: businesses sorted, orders already
	// ascending by creation time within each.
	businessIDs := make([]string, 0, len(result.Businesses))
	for id := range result.Businesses {
		businessIDs = append(businessIDs, id)
	}
	sort.Strings(businessIDs)

	for _, id := range businessIDs {
		entry := result.Businesses[id]
		if entry.Err != nil {
			if res.Errors == nil {
				res.Errors = make(map[string]*model.SyncError)
			}
			res.Errors[id] = entry.Err
			continue
		}
		res.NewOrders = append(res.NewOrders, entry.Orders...)
		if entry.Truncated {
			res.Truncated = append(res.Truncated, id)
		}
	}
	return res
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
