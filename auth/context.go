// Package auth carries the caller's identity explicitly through ledger and
// feed operations instead of reading it from ambient state.
package auth

// UserContext identifies the authenticated caller for a single operation.
// Handlers build it from the verified token; services and tests never touch
// globals.
type UserContext struct {
	UID         string
	DisplayName string
	PhotoURL    string
	IsAdmin     bool
}
