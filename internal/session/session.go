// Package session carries the authenticated caller's identity through
// component calls. It is passed explicitly; nothing reads it from
// ambient state.
package session

import "strings"

// Session identifies one authenticated storefront caller. Token is the
// raw bearer token forwarded to collaborator services; CustomerRef keys
// the caller's cart and orders.
type Session struct {
	Token       string
	CustomerRef string
	Email       string
	Role        string
}

// Valid reports whether the session can address a customer-scoped
// resource. Components reject invalid sessions before any network call.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Token) != "" && strings.TrimSpace(s.CustomerRef) != ""
}
