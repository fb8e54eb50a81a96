// Package memhost is an in-memory host tree. It implements host.Host,
// records every operation it performs, and serialises the tree to HTML.
//
// It is the host used by tests, the command-line tools and the dev server.
package memhost
