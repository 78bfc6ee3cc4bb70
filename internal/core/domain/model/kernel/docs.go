// Package kernel holds the value objects shared by the pickup domain:
// identifiers (UUID) and contact address snapshots (Address).
//
// Both are immutable and must be built through their constructors; the zero
// value fails Validate.
package kernel
