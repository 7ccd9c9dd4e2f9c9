// Package apis provides the versioned configuration and message types of box.
//
//   - box/v1alpha1: the configuration, the cluster topology and the bootstrap request
package apis
