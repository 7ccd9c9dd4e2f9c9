package transport

// RemoteLine exports remoteLine for testing.
var RemoteLine = remoteLine //nolint:gochecknoglobals // export_test.go pattern
