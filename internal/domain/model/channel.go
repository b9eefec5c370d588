package model

import (
	"fmt"
	"strings"
)

// ChannelKind discriminates the logical broadcast groups events are routed to.
type ChannelKind string

const (
	ChannelBusiness        ChannelKind = "BUSINESS"
	ChannelDeliveryCompany ChannelKind = "DELIVERY_COMPANY"
	ChannelCustomer        ChannelKind = "CUSTOMER"
	ChannelOrder           ChannelKind = "ORDER"
)

// Valid reports whether the kind is one of the recognized channel kinds.
func (k ChannelKind) Valid() bool {
	switch k {
	case ChannelBusiness, ChannelDeliveryCompany, ChannelCustomer, ChannelOrder:
		return true
	}
	return false
}

// ChannelKey identifies a single broadcast group. A channel has no lifetime
// of its own: it exists while at least one connection is a member.
type ChannelKey struct {
	Kind    ChannelKind
	ScopeID string
}

func NewChannelKey(kind ChannelKind, scopeID string) ChannelKey {
	return ChannelKey{Kind: kind, ScopeID: scopeID}
}

func (k ChannelKey) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.ScopeID)
}

// ParseChannelKey decodes the "KIND:scope" form used on the wire.
func ParseChannelKey(s string) (ChannelKey, error) {
	kind, scope, ok := strings.Cut(s, ":")
	if !ok || scope == "" {
		return ChannelKey{}, fmt.Errorf("malformed channel key %q", s)
	}
	key := ChannelKey{Kind: ChannelKind(kind), ScopeID: scope}
	if !key.Kind.Valid() {
		return ChannelKey{}, fmt.Errorf("unknown channel kind %q", kind)
	}
	return key, nil
}
