package v1alpha1

import (
	"encoding/json"
	"fmt"
	"io"
)

// BootstrapRequestKind is the kind of the message sent from the outside orchestrator to the seed.
const BootstrapRequestKind = "BootstrapRequest"

// BootstrapRequest asks the seed to bootstrap itself.
// It is the whole argument contract between the outside orchestrator and the in-seed one.
type BootstrapRequest struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`

	OSDs                int  `json:"osds"`
	Hosts               int  `json:"hosts"`
	SkipDeployOSDs      bool `json:"skipDeployOsds,omitzero"`
	SkipDashboard       bool `json:"skipDashboard,omitzero"`
	SkipMonitoringStack bool `json:"skipMonitoringStack,omitzero"`
	Verbose             bool `json:"verbose,omitzero"`
}

// NewBootstrapRequest builds the request forwarded to the seed during start.
func NewBootstrapRequest(opts StartOptions, verbose bool) BootstrapRequest {
	return BootstrapRequest{
		APIVersion:          APIVersion,
		Kind:                BootstrapRequestKind,
		OSDs:                opts.OSDs,
		Hosts:               opts.Hosts,
		SkipDeployOSDs:      opts.SkipDeployOSDs,
		SkipDashboard:       opts.SkipDashboard,
		SkipMonitoringStack: opts.SkipMonitoringStack,
		Verbose:             verbose,
	}
}

// Encode writes the request as JSON.
func (r BootstrapRequest) Encode(w io.Writer) error {
	err := json.NewEncoder(w).Encode(r)
	if err != nil {
		return fmt.Errorf("encode bootstrap request: %w", err)
	}

	return nil
}

// DecodeBootstrapRequest reads and checks a request written by Encode.
func DecodeBootstrapRequest(r io.Reader) (BootstrapRequest, error) {
	var req BootstrapRequest

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(&req)
	if err != nil {
		return BootstrapRequest{}, fmt.Errorf("decode bootstrap request: %w", err)
	}

	if req.APIVersion != APIVersion || req.Kind != BootstrapRequestKind {
		return BootstrapRequest{}, fmt.Errorf(
			"%w: got %s %s", ErrUnsupportedRequest, req.APIVersion, req.Kind,
		)
	}

	if req.OSDs < 0 || req.Hosts < 0 {
		return BootstrapRequest{}, fmt.Errorf(
			"%w: osds=%d hosts=%d", ErrNegativeCount, req.OSDs, req.Hosts,
		)
	}

	return req, nil
}
