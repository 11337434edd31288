// Package messenger delivers messages between nodes across supersteps.
//
// Every messenger keeps two buffers. Sends of superstep k go to the write
// buffer; InitIteration swaps the buffers at the start of superstep k+1 so the
// values become readable. A message is therefore never visible in the
// superstep it was sent in.
//
// Two implementations exist:
//   - Reduced: folds all messages to a node into one float64 accumulator with
//     a CAS loop. Memory is O(nodeCount) regardless of fan-in.
//   - Queue: keeps every message in a per-node list guarded by striped
//     mutexes. Memory grows with message volume and is accounted against a
//     resource.Controller.
package messenger
