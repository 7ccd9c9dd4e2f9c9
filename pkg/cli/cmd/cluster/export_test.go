package cluster

// ReadRequest exports readRequest for tests.
var ReadRequest = readRequest

// WriteTopology exports writeTopology for tests.
var WriteTopology = writeTopology
