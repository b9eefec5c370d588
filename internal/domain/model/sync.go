package model

import "time"

// SyncRequest maps each business the client tracks to the last timestamp it
// has observed. A nil entry means the client has never synced that business;
// the reconciler then applies a bounded default lookback instead of querying
// from the beginning of time.
type SyncRequest struct {
	SyncTimes map[string]*time.Time
}

// SyncErrorCode enumerates per-business reconciliation failures.
type SyncErrorCode string

const (
	SyncStoreUnavailable SyncErrorCode = "STORE_UNAVAILABLE"
	SyncStoreTimeout     SyncErrorCode = "STORE_TIMEOUT"
)

// SyncError is a partial-failure entry. One tenant's store trouble never
// aborts the whole reconciliation.
type SyncError struct {
	Code    SyncErrorCode `json:"code"`
	Message string        `json:"message"`
}

// BusinessSync is the per-business slice of a SyncResult. Orders are ordered
// ascending by CreatedAt so the last element is the client's next watermark.
type BusinessSync struct {
	Orders    []OrderPreview
	Truncated bool
	Err       *SyncError
}

// SyncResult holds one entry per requested business.
type SyncResult struct {
	Businesses map[string]BusinessSync
}
