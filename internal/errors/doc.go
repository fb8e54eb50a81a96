// Package errors provides structured, coded errors for Reflow.
//
// Every failure the runtime can surface has a registered code that maps to a
// category, a short message and a longer explanation:
//
//	err := errors.New("R001").WithDetailf("descriptor <%s> has no host node", "li")
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R001: Descriptor has no host node
//	//
//	//   descriptor <li> has no host node
//
// # Error Categories
//
//   - reactive: dependency tracking and scheduling (stack underflow, goroutine affinity)
//   - reconcile: render/patch pairing broken (missing host reference)
//   - config: configuration files
//   - export: snapshot storage
//
// Errors created from the same code compare equal under errors.Is, so
// packages can export sentinel values built with New and callers can match
// them regardless of the detail attached at the failure site.
package errors
