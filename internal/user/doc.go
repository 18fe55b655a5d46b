// Package user manages account registration, login, and maintenance.
package user
