package orchestrator

import "errors"

var (
	// ErrMustRunOutside is returned when an operation that manages containers runs inside the seed.
	ErrMustRunOutside = errors.New("must run outside of the box containers")
	// ErrMustRunInside is returned when a seed-only operation runs on the host.
	ErrMustRunInside = errors.New("must run inside the seed container")
	// ErrOSDsWithoutVolumes is returned when OSD deployment is requested without logical volumes to deploy on.
	ErrOSDsWithoutVolumes = errors.New("osd deployment requested without logical volumes")
	// ErrCephadmPathUnset is returned when the seed does not say where to expose cephadm.
	ErrCephadmPathUnset = errors.New("CEPHADM_PATH is not set")
	// ErrNoMonIP is returned when the seed cannot determine its own address.
	ErrNoMonIP = errors.New("cannot determine the seed address")
	// ErrOSDNotCreated is returned when the orchestrator did not confirm an OSD.
	ErrOSDNotCreated = errors.New("osd was not created")
	// ErrNoOrchestratorHosts is returned when the cluster reports no hosts to place OSDs on.
	ErrNoOrchestratorHosts = errors.New("cluster has no hosts")
	// ErrHostNotFound is returned when no running host container has the requested index.
	ErrHostNotFound = errors.New("host not found")
)
