// Package parallel runs independent tasks concurrently with bounded parallelism.
package parallel
