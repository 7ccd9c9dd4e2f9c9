package cluster

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidOutputFormat is returned for an unknown --output value.
var ErrInvalidOutputFormat = errors.New("invalid output format")

// OutputFormat selects how list renders the topology.
type OutputFormat string

const (
	// OutputTable renders an aligned table.
	OutputTable OutputFormat = "table"
	// OutputJSON renders indented JSON.
	OutputJSON OutputFormat = "json"
	// OutputYAML renders YAML.
	OutputYAML OutputFormat = "yaml"
)

// ValidValues returns every accepted format.
func (f *OutputFormat) ValidValues() []string {
	return []string{string(OutputTable), string(OutputJSON), string(OutputYAML)}
}

// String implements pflag.Value.
func (f *OutputFormat) String() string {
	return string(*f)
}

// Set implements pflag.Value.
func (f *OutputFormat) Set(value string) error {
	value = strings.ToLower(value)
	if !slices.Contains(f.ValidValues(), value) {
		return fmt.Errorf("%w: %q (valid options: %s)",
			ErrInvalidOutputFormat, value, strings.Join(f.ValidValues(), ", "))
	}

	*f = OutputFormat(value)

	return nil
}

// Type implements pflag.Value.
func (f *OutputFormat) Type() string {
	return "string"
}
