// Package tokensdk provides a Go client and the shared wire types for the
// tokend login token service. The same types are used by the server's HTTP
// handlers, so the SDK and the service can never disagree about the wire
// format.
package tokensdk
