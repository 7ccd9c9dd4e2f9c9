package v1alpha1

import "errors"

// ErrUnsupportedRequest is returned when a bootstrap request has an unknown apiVersion or kind.
var ErrUnsupportedRequest = errors.New("unsupported bootstrap request")

// ErrNegativeCount is returned when an OSD or host count is negative.
var ErrNegativeCount = errors.New("osd and host counts must not be negative")
