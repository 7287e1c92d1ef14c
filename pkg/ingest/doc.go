// Package ingest turns normalized meeting and document records into
// graph and index writes through the extraction capability. Each record
// is merged as one logical unit; a record that fails validation or
// extraction is rejected without touching the graph, and batch loads
// isolate failures per record.
package ingest
