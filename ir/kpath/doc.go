// Package kpath provides kinded paths: durable structural positions in a
// document tree.
//
// Kinded paths encode the kind of container being entered in the syntax:
//   - .field - Object field access
//   - [index] - Array index
//
// Fields that are empty or contain separators, quotes or spaces are written
// single-quoted, with backslash escapes for quotes and backslashes.
//
// # Usage
//
//	kp, err := kpath.Parse("users[0]")
//	email := kp.Append(kpath.Field("email")) // users[0].email
//	for _, seg := range email.Segments() { ... }
//
// The empty string denotes the root and parses to a nil *KPath.
//
// # Related Packages
//
//   - github.com/signadot/tony-include/ir - tree navigation by kinded path
package kpath
