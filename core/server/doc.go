// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber app from this configuration: listen
// port, request timeouts and the API key checked by the auth middleware.
package server
