// Package metrics records how long each orchestrator step took and whether it
// succeeded. The registry can be dumped to a node-exporter textfile after a run.
package metrics
