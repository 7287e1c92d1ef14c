// Package utils provides shared helpers: bounded concurrent execution,
// panic recovery, and vector similarity.
package utils
