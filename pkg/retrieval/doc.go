// Package retrieval implements the three search modes (semantic,
// keyword, hybrid) over casts and profiles, plus the single-user cast
// ranking composite used by the "ask as this user" feature.
//
// Storage stays dumb on purpose: pkg/storage returns raw (similarity,
// text, timestamp) tuples and leaves every scoring decision here.
// Hybrid cast search fuses two independently-ranked lists with
// Reciprocal Rank Fusion (score = sum(1/(k+rank)), k=60 by default);
// hybrid profile search is fused server-side by
// storage.HybridSearchProfiles instead, since profiles have no
// persisted embedding to rank independently of the keyword leg.
package retrieval
