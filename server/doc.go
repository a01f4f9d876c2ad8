// Package server hosts the HTTP API: a gin engine behind a net/http
// middleware chain (recovery, request id, CORS, body limit, access log),
// served over HTTP/1.1 and h2c.
//
// Handlers answer with the DataResponse envelope on success and the
// errors package envelope on failure, see RespondOK and RespondWithError.
//
// Probe routes registered by RegisterDefaultEndpoints:
//
//	/health  component health, 503 when any component is unhealthy
//	/ready   readiness
//	/live    liveness
//	/info    build information
package server
