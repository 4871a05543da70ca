// Package dayops is the operational surface of the core: day
// initialization with carry-forward config routing, immutable log
// submission, score computation, session tracking and plan upkeep.
//
// External collaborators (the CLI, a dashboard) go through a Service; no
// other access path to the store is assumed safe. Every logical operation
// gets a fresh op token (UUIDv7) that stamps the audit rows it writes, so
// the trail of one operation can be correlated after the fact.
package dayops
