// Package auth provides HS256 access tokens, bcrypt password hashing,
// and the HTTP middlewares that attach and enforce request identity.
package auth
