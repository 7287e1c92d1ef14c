// Package types defines the core data model shared across DevGraph:
// artifacts, relationships, ingestion records, extraction output, and
// the error taxonomy. All other packages depend on types; types depends
// on nothing but the standard library.
package types
