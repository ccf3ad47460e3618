// Package runtime holds the navigation transition relation.
//
// Every function here is pure: it takes a domain.State and returns a fresh one,
// never aliasing the input stack. Locking, publishing and hooks live in the
// coordinator that calls these functions.
package runtime
