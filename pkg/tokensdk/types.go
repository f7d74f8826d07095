package tokensdk

import "time"

// FaultTypeTokenNotFound identifies the soft fault reported when an extend
// request names a token the service does not know.
const FaultTypeTokenNotFound = "token_not_found"

// TokenRequest describes one requested token in a create request. All
// fields are optional; the service fills in defaults.
type TokenRequest struct {
	// NotBefore is the requested validity start. Defaults to the server's
	// current time.
	NotBefore *time.Time `json:"not_before,omitempty"`

	// NotAfter is the requested expiration. Defaults to NotBefore plus the
	// server's configured token lifetime.
	NotAfter *time.Time `json:"not_after,omitempty"`

	// NotMoreThan caps how many times the token may authenticate.
	NotMoreThan *int `json:"not_more_than,omitempty"`
}

// CreateLoginTokenRequest asks the service to mint one token per entry in
// Data. The response preserves the order of Data.
type CreateLoginTokenRequest struct {
	Data []TokenRequest `json:"data"`
}

// TokenAttributes are the resolved attributes of a minted token, with
// server-side defaults applied.
type TokenAttributes struct {
	NotBefore   time.Time `json:"not_before"`
	NotAfter    time.Time `json:"not_after"`
	NotMoreThan *int      `json:"not_more_than,omitempty"`
}

// IssuedToken is one minted token in a create response.
type IssuedToken struct {
	Token      string          `json:"token"`
	Attributes TokenAttributes `json:"attributes"`
}

// CreateLoginTokenResponse lists the minted tokens in request order.
type CreateLoginTokenResponse struct {
	Data []IssuedToken `json:"data"`
}

// ExtendLoginTokenRequest asks the service to push a token's expiration out
// by the configured lifetime.
type ExtendLoginTokenRequest struct {
	AuthorizationToken string `json:"authorization_token"`
}

// Fault is a soft failure reported inside a successful response body.
type Fault struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// ExtendLoginTokenResponse echoes the token and its new expiration. Faults
// is always present, empty on success. When the extension could not be
// performed, Faults carries the reason, the token and expiration are
// omitted, and the HTTP status is still 200.
type ExtendLoginTokenResponse struct {
	AuthorizationToken string     `json:"authorization_token,omitempty"`
	NotAfter           *time.Time `json:"not_after,omitempty"`
	Faults             []Fault    `json:"faults"`
}

// ErrorResponse is the JSON body of protocol-level errors.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthChecks reports the status of the service's dependencies.
type HealthChecks struct {
	Store string `json:"store"`
}

// HealthResponse is returned by the livez and readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
