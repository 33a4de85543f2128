// Package middleware groups the fiber handlers that run before every feature
// route.
//
// rayid tags each request with an X-Ray-ID, reusing a well-formed incoming
// one. auth checks the API key (X-API-Key or a Bearer token) and is skipped
// for the liveness probe so orchestrators can call it without credentials.
// Register rayid first so rejected requests still carry an id in the logs.
package middleware
