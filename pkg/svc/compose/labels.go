package compose

// Labels docker compose sets on every container it creates.
const (
	LabelProject         = "com.docker.compose.project"
	LabelService         = "com.docker.compose.service"
	LabelContainerNumber = "com.docker.compose.container-number"
)

// Compose files in the box directory.
const (
	FileBase    = "docker-compose.yml"
	FileCgroup1 = "docker-compose.cgroup1.yml"
)

// Files returns the compose files for the host's cgroup hierarchy.
func Files(cgroupV2 bool) []string {
	if cgroupV2 {
		return []string{FileBase}
	}

	return []string{FileBase, FileCgroup1}
}
