// Package sqlite provides a persistent SQLite-backed vector store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Segment embeddings are
// stored as little-endian float32 blobs and similarity search runs as a
// brute-force cosine scan over the requested collection. That is plenty for
// the corpus sizes a local document assistant handles; swap in the memory
// backend's HNSW index when collections grow past a few hundred thousand
// segments.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
