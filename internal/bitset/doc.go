// Package bitset provides a fixed-size lock-free bitset for concurrent access.
//
// Architecture:
//   - Flat layout: one atomic.Uint64 word per 64 nodes, sized once at construction
//   - Lock-free: Set/Unset use atomic Or/And on the word, never read-modify-write
//   - Aggregates (Count, AllSet) are plain scans meant for a single thread between supersteps
//
// Used internally for:
//   - Vote-to-halt flags (one bit per node)
//   - Message presence markers of the reduced messenger
package bitset
