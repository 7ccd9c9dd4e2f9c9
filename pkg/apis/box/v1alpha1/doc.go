// Package v1alpha1 holds the box configuration value object, the cluster topology types
// and the bootstrap request exchanged between the outside orchestrator and the seed.
package v1alpha1
