// Package configmanager loads the box configuration.
//
// Values are layered as defaults < box.yaml < BOX_* environment variables <
// command-line flags. The result is validated before use. When no box
// directory is configured it is derived from the enclosing ceph checkout.
package configmanager
