// Package connection provides server communication for stallgate-cli.
//
// It wraps net/http with the response envelope used by the server and
// persists the session token between CLI invocations so a login is
// good for subsequent commands until it idles out.
package connection
