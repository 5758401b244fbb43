// Package devserver is a reference implementation of the storefront REST
// backend on sqlite. It serves the same routes and error bodies as the real
// backend so the client packages can be exercised end to end in tests and in
// the demo command. The bearer token, when present, is taken as the user id.
package devserver
