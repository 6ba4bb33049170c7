package domain

// ClientRecord is the cached projection of a client owned by the identity
// service. Records are written only by the event-feed consumer; everything
// else treats the cache as read-only and tolerates stale or absent entries.
type ClientRecord struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Identification string `json:"identification"`
	Active         bool   `json:"active"`
}
