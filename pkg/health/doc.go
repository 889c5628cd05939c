// Package health provides lightweight liveness checks for the two
// external dependencies the pipeline polls: the shard node's RPC port
// (TCPChecker) and the embedder's HTTP endpoint (HTTPChecker). Both
// implement Checker, and Status tracks consecutive pass/fail counts so
// a single blip doesn't flip a dependency unhealthy — only Retries
// consecutive failures does.
//
// This package makes no decisions about what to do with an unhealthy
// result; it reports Status and leaves any reaction (backing off,
// marking a shard errored, retrying) to the caller.
package health
