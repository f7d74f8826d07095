package domain

import "time"

// TokenCredential is the immutable value of a login token: the opaque token
// string plus its validity window and usage counters. A credential is never
// mutated in place; an update replaces the whole value.
type TokenCredential struct {
	// Value is the opaque random token string and the credential's identity key.
	Value string `json:"value"`

	// NotBefore is the earliest instant the token is valid.
	NotBefore time.Time `json:"not_before"`

	// NotAfter is the latest instant the token is valid. Nil means no fixed
	// expiration; lifetime is then governed by UsedMax or Keepalive.
	NotAfter *time.Time `json:"not_after,omitempty"`

	// Used counts successful authentications so far. It never decreases.
	Used int `json:"used"`

	// UsedMax caps the number of successful authentications. Nil means unlimited.
	UsedMax *int `json:"used_max,omitempty"`

	// Keepalive, when set, causes every successful lookup to push NotAfter
	// out to now+Keepalive.
	Keepalive *time.Duration `json:"keepalive,omitempty"`
}

// ValidAt reports whether the credential is valid at the given instant:
// within the [NotBefore, NotAfter] window and not exhausted.
func (c TokenCredential) ValidAt(t time.Time) bool {
	if t.Before(c.NotBefore) {
		return false
	}
	if c.NotAfter != nil && t.After(*c.NotAfter) {
		return false
	}
	if c.UsedMax != nil && c.Used >= *c.UsedMax {
		return false
	}
	return true
}

// WithNotAfter returns a copy of the credential with a replaced expiration.
func (c TokenCredential) WithNotAfter(notAfter time.Time) TokenCredential {
	c.NotAfter = &notAfter
	return c
}

// WithUsed returns a copy of the credential with a replaced usage count.
func (c TokenCredential) WithUsed(used int) TokenCredential {
	c.Used = used
	return c
}

// TokenRecord pairs a credential with the identity and permissions it grants.
// This is the unit stored and retrieved by the token stores.
type TokenRecord struct {
	Credential TokenCredential `json:"credential"`

	// Username is set only if the token corresponds to an existing user.
	Username string `json:"username,omitempty"`

	// Permissions are capability strings in domain:action:selector format.
	Permissions []string `json:"permissions"`
}

// Anonymous reports whether the record has no associated user.
func (r TokenRecord) Anonymous() bool { return r.Username == "" }

// Principal returns the identity the record authenticates as.
func (r TokenRecord) Principal() Principal {
	return Principal{Username: r.Username, Permissions: r.Permissions}
}

// Principal is the authenticated identity handed to the authorization layer:
// a username (empty for anonymous tokens) and a set of permission strings.
type Principal struct {
	Username    string   `json:"username,omitempty"`
	Permissions []string `json:"permissions"`
}
