// Package id provides unique identifier generation utilities.
//
// This is the canonical source for ID generation across the codebase.
// It provides two formats:
//
//   - UUID: Standard UUID v4 (random) for general-purpose unique identifiers
//   - Short: 12-character hex IDs for user-facing contexts where brevity
//     matters, like request log entries
//
// Both are backed by github.com/google/uuid, which uses crypto/rand.
package id
