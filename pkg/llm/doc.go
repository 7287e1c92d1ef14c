// Package llm provides chat clients for language models, plus retry and
// circuit-breaking decorators. Both the extraction and synthesis
// capabilities are built on the Client interface so tests can
// substitute deterministic stubs.
package llm
