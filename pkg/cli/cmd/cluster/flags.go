package cluster

import "github.com/devantler-tech/box/pkg/cli/helpers"

const (
	flagOSDs                = "osds"
	flagHosts               = "hosts"
	flagSkipDeployOSDs      = "skip-deploy-osds"
	flagSkipCreateLoop      = "skip-create-loop"
	flagSkipMonitoringStack = "skip-monitoring-stack"
	flagSkipDashboard       = "skip-dashboard"
	flagExpanded            = "expanded"
	flagRequest             = "request"
	flagOutput              = "output"
)

func startBindings() helpers.Bindings {
	return helpers.Bindings{
		flagOSDs:                "cluster.osds",
		flagHosts:               "cluster.hosts",
		flagSkipDeployOSDs:      "cluster.skip-deploy-osds",
		flagSkipCreateLoop:      "cluster.skip-create-loop",
		flagSkipMonitoringStack: "cluster.skip-monitoring-stack",
		flagSkipDashboard:       "cluster.skip-dashboard",
		flagExpanded:            "cluster.expanded",
	}
}
