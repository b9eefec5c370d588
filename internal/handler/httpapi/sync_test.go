package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/stretchr/testify/require"
)

type fakeReconciler struct {
	got    model.SyncRequest
	result model.SyncResult
}

func (f *fakeReconciler) Reconcile(_ context.Context, req model.SyncRequest) model.SyncResult {
	f.got = req
	return f.result
}

func postSync(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestSyncHandler_FlattensAndSorts(t *testing.T) {
	req := require.New(t)

	rec := &fakeReconciler{
		result: model.SyncResult{
			Businesses: map[string]model.BusinessSync{
				"B2": {
					Orders:    []model.OrderPreview{{ID: "O3", BusinessID: "B2"}},
					Truncated: true,
				},
				"B1": {
					Orders: []model.OrderPreview{
						{ID: "O1", BusinessID: "B1"},
						{ID: "O2", BusinessID: "B1"},
					},
				},
				"B3": {
					Err: &model.SyncError{Code: model.SyncStoreTimeout, Message: "deadline exceeded"},
				},
			},
		},
	}

	w := postSync(t, NewSyncHandler(rec), `{"syncTimes":{"B1":"2026-03-01T10:00:00Z","B2":null,"B3":"2026-03-01T10:00:00Z"}}`)

	req.Equal(http.StatusOK, w.Code)
	req.Equal("application/json", w.Header().Get("Content-Type"))

	var body syncResponseBody
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))

	req.Len(body.NewOrders, 3)
	req.Equal("O1", body.NewOrders[0].ID)
	req.Equal("O2", body.NewOrders[1].ID)
	req.Equal("O3", body.NewOrders[2].ID)
	req.Equal([]string{"B2"}, body.Truncated)
	req.Equal(model.SyncStoreTimeout, body.Errors["B3"].Code)

	// Null sync time means "never synced"; the parsed one survives intact.
	req.Nil(rec.got.SyncTimes["B2"])
	want := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	req.True(rec.got.SyncTimes["B1"].Equal(want))
}

func TestSyncHandler_EmptyResultHasEmptyArray(t *testing.T) {
	req := require.New(t)

	rec := &fakeReconciler{result: model.SyncResult{Businesses: map[string]model.BusinessSync{}}}
	w := postSync(t, NewSyncHandler(rec), `{"syncTimes":{}}`)

	req.Equal(http.StatusOK, w.Code)
	// newOrders must be [], not null.
	req.Contains(w.Body.String(), `"newOrders":[]`)
}

func TestSyncHandler_BadRequests(t *testing.T) {
	req := require.New(t)
	h := NewSyncHandler(&fakeReconciler{})

	w := postSync(t, h, `{not json`)
	req.Equal(http.StatusBadRequest, w.Code)

	w = postSync(t, h, `{"syncTimes":{"B1":"yesterday"}}`)
	req.Equal(http.StatusBadRequest, w.Code)
}
