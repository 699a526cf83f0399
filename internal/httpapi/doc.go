// Package httpapi exposes the archive services as a JSON API over gin.
//
// Clients log in with POST /api/login and send the returned token as
// "Authorization: Bearer <token>". Tokens are HS256 JWTs carrying the user
// id; the acting user is looked up again on every request, so deleted
// accounts lose access immediately. Routes under the admin group also
// require the ADMIN role.
//
// Errors are returned as {"error": "..."} with a status chosen by statusFor.
// Unexpected errors are logged and reported with a generic message.
package httpapi
