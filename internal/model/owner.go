package model

// Owner identifies whose cart an operation targets. A shopper is either an
// authenticated customer or an anonymous guest; the two cases are kept in a
// single value so that cart operations never juggle a nullable customer id
// next to a session key.
//
// An authenticated owner still carries the browser's current session key:
// cart reads for a customer return the union of lines stored under the
// customer id and lines still stored under that session key, so items added
// just before login stay visible while the merge is in flight.
type Owner struct {
	customerID uint64 // 0 while anonymous
	sessionKey string // current browser session key
}

// CustomerOwner returns the owner context for an authenticated customer.
// sessionKey is the customer's current browser session and may be empty when
// the call has no HTTP session attached (e.g. background jobs).
func CustomerOwner(customerID uint64, sessionKey string) Owner {
	return Owner{customerID: customerID, sessionKey: sessionKey}
}

// GuestOwner returns the owner context for an anonymous session.
func GuestOwner(sessionKey string) Owner {
	return Owner{sessionKey: sessionKey}
}

// IsCustomer reports whether this owner is an authenticated customer.
func (o Owner) IsCustomer() bool { return o.customerID != 0 }

// CustomerID returns the customer id, or 0 for a guest.
func (o Owner) CustomerID() uint64 { return o.customerID }

// SessionKey returns the browser session key attached to this owner.
func (o Owner) SessionKey() string { return o.sessionKey }
