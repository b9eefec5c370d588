package model

// Role classifies the identity behind a connection. The principal id is the
// entity the role is scoped to: the customer id, the business id or the
// delivery-company id respectively.
type Role string

const (
	RoleCustomer      Role = "CUSTOMER"
	RoleBusinessStaff Role = "BUSINESS_STAFF"
	RoleDeliveryStaff Role = "DELIVERY_STAFF"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleBusinessStaff, RoleDeliveryStaff:
		return true
	}
	return false
}
