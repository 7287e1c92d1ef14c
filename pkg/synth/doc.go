// Package synth defines the synthesis capability shared by the query
// engine and the ripple detector: given a question or proposed change
// plus a context bundle, it produces free text and the subset of bundle
// ids it actually used.
package synth
