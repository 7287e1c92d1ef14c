// Package extract defines the entity-extraction capability consumed by
// ingestion. The core validates extractor output and rejects malformed
// items; it does not retry or tune the underlying model.
package extract
