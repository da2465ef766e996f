package resolver

// The iterative delegation walk driven by Query is modeled on three
// states: Start (no server contacted yet), Querying(current) (a UDP
// exchange with the current candidate server is in flight or just
// returned a delegation), and Resolved(server) (the current server
// answered authoritatively). The walk is implemented as a bounded for
// loop rather than a literal state enum — each iteration either
// transitions back to Querying with a new current server (on
// delegation), terminates at Resolved (on an authoritative answer), or
// falls through to Error once maxHops iterations are exhausted.
//
// This comment documents the state machine's semantics; see Query in
// resolver.go for the loop that implements it.
const maxHops = 16
