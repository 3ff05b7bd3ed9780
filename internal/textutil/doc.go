// Package textutil provides small text helpers: filename sanitization,
// path segment checks for capsule identifiers, and prompt sentence splitting.
package textutil
