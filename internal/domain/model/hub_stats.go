package model

import "time"

type HubStats struct {
	TotalConnections int                 `json:"total_connections"`
	TotalChannels    int                 `json:"total_channels"`
	ChannelsByKind   map[ChannelKind]int `json:"channels_by_kind,omitempty"`
	Uptime           time.Duration       `json:"uptime"`
}

type DispatchStats struct {
	Published uint64 `json:"published"`
	Delivered uint64 `json:"delivered"`
	Dropped   uint64 `json:"dropped"`
}
