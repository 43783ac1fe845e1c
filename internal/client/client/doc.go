// Package client contains client-side building blocks for TrackMate.
//
// # Overview
//
// The package provides:
//  1. The API contract the services consume (see the Client interface):
//     login and the OTP endpoints, the employee roster and task calls.
//  2. A REST implementation (see HTTPClient) that attaches the bearer token
//     carried by the context (WithToken), guards the API behind a circuit
//     breaker and classifies every failure into a *common.Error.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Status codes never leak to callers. 401/403 become auth errors wrapping
// ErrUnauthorized, other 4xx are remote rejections carrying the server's
// message, and 5xx, network failures and an open circuit are transport
// errors wrapping ErrUnavailable. Bodies that do not decode wrap
// ErrMalformedResponse.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and the configured timeout.
package client
