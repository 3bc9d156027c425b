// Package poller drives the fixed-interval sweep over every configured host
// and margin type.
//
// Each sweep fetches all host×type pairs with bounded concurrency, every call
// fault-isolated behind its own timeout, then reconciles the two margin-type
// results per host. The first sweep runs immediately on start; the loop stops
// only through context cancellation, so it can be shut down deterministically
// in tests.
package poller
