// Package ripple evaluates the downstream impact of changing an
// artifact. Candidates come from a bounded traversal of the dependency
// chains; each candidate is judged by the synthesis capability
// concurrently, and judgments that fail or time out degrade to a
// manual-review flag rather than silently disappearing.
package ripple
