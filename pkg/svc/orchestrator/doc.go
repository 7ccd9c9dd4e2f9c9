// Package orchestrator sequences the lifecycle of a box cluster: image
// setup, storage provisioning, container group start, seed bootstrap, host
// enrolment and OSD deployment, and the reverse on teardown.
//
// Operations are split between the two places box runs: the developer's
// machine ("outside") and the seed container ("inside"). Each operation checks
// where it runs before doing anything else.
package orchestrator
