// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Turns text into vectors (Ollama, OpenAI).
//   - VectorStore: Persists and similarity-searches segment vectors
//     (SQLite, vecgo).
//   - GenerationService: Produces grounded answers, single-shot or streamed
//     (Ollama, OpenAI).
//
// # Optional Interfaces
//
//   - TextExtractor: Pulls plain text out of a source file. Only a plaintext
//     implementation ships; PDF/OCR extractors plug in here.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
