package lpmarshaller

import (
	"encoding/json"

	"github.com/forkline/order-events-service/internal/domain/event"
	wsmarshaller "github.com/forkline/order-events-service/internal/handler/marshaller/ws"
)

// Response is the top-level array shape supporting event batching.
type Response struct {
	Events []*wsmarshaller.WireEvent `json:"events"`
}

// MarshallEvents converts a batch of domain events into one JSON payload.
func MarshallEvents(events []event.Eventer) ([]byte, error) {
	res := Response{
		Events: make([]*wsmarshaller.WireEvent, 0, len(events)),
	}
	for _, ev := range events {
		res.Events = append(res.Events, wsmarshaller.MapEvent(ev))
	}
	return json.Marshal(res)
}
