// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Connector: Fetches raw profile bytes from a source
//   - Extractor: Parses raw bytes into a ProfileRecord
//   - Splitter: Converts a ProfileRecord into ordered chunks
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Generates completions
//   - IndexFactory / ProfileIndex: Builds and queries a retrieval index
//   - SessionStore: Maps session IDs to built indexes
//   - PromptStore: Loads LLM prompt templates
//
// # Import Rules
//
//   - Can Import: domain, standard library
//   - Cannot Import: services, adapters, any external dependency
package driven
