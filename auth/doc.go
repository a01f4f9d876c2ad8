// Package auth identifies the caller of every /api/v1 request.
//
// Clients send "Authorization: Bearer <jwt>". The token carries user_id
// (or a numeric sub); the identity middleware in server/middleware
// verifies it with a TokenParser, loads the store.User through a
// UserLoader and stores it on the request context. Handlers read it with
// CurrentUser. Issuing tokens belongs to the account service, not here.
package auth
