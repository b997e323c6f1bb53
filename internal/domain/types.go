package domain

import "time"

// CreatedAtFormat is the timestamp layout used in route documents,
// RFC 1123 with a literal GMT zone.
const CreatedAtFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// Route maps an alias on the Lampions domain to a verified forward address.
type Route struct {
	ID        string `json:"id"`
	Active    bool   `json:"active"`
	Alias     string `json:"alias"`
	Forward   string `json:"forward"`
	CreatedAt string `json:"createdAt"`
	Meta      string `json:"meta"`
}

// Created parses the route's creation timestamp. Routes with a malformed
// timestamp sort last.
func (r Route) Created() time.Time {
	t, err := time.Parse(CreatedAtFormat, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// RecipientRelations maps alias -> address hash -> reply-to address. The
// hash identifies the external correspondent; the reply-to value is where
// outbound replies through the alias are delivered.
type RecipientRelations map[string]map[string]string

// Lookup returns the reply-to address recorded for the given alias and
// address hash.
func (r RecipientRelations) Lookup(alias, hash string) (string, bool) {
	forAlias, ok := r[alias]
	if !ok {
		return "", false
	}
	replyTo, ok := forAlias[hash]
	return replyTo, ok
}

// Set records a relation, allocating the per-alias map if needed.
func (r RecipientRelations) Set(alias, hash, replyTo string) {
	forAlias, ok := r[alias]
	if !ok {
		forAlias = make(map[string]string)
		r[alias] = forAlias
	}
	forAlias[hash] = replyTo
}

// ForwardTarget is the resolved destination for an inbound message.
type ForwardTarget struct {
	Alias   string
	Address string
}
