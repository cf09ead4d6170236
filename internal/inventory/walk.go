package inventory

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/thoas/go-funk"
	"github.com/vmware/govmomi/vim25/mo"
)

// Walker drives the datacenter → cluster → host/VM traversal for one report
// invocation. All rows produced by one Walker share a single generation
// timestamp taken when the Walker is created, so downstream grouping sees one
// consistent snapshot time instead of per-row wall clocks.
//
// Failures listing top-level collections are fatal for the endpoint; failures
// resolving one leaf's detail are logged, counted and skipped so one bad
// entity does not cost the whole report. Host network config is the
// deliberate exception: see CollectHostNetworkRows.
//
// A VM's cluster is whatever cluster search root the VM was returned under at
// query time. DRS/HA can relocate VMs while the walk runs, so this
// attribution is an approximation by design.
type Walker struct {
	generatedAt string
	diag        *Diagnostics
}

func NewWalker() *Walker {
	return &Walker{
		generatedAt: time.Now().UTC().Format(time.RFC3339),
		diag:        &Diagnostics{},
	}
}

func (w *Walker) GeneratedAt() string {
	return w.generatedAt
}

func (w *Walker) Diagnostics() *Diagnostics {
	return w.diag
}

// CollectHostNetworkRows walks every host and resolves its network config
// into adapter rows. Any failure resolving one host's config bundle aborts
// the whole report: a partially described host network is worse than none.
func (w *Walker) CollectHostNetworkRows(ctx context.Context, ep Endpoint) ([]NetworkAdapterRow, error) {
	datacenters, err := ep.Datacenters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list datacenters on %s: %w", ep.Name(), err)
	}
	portGroups, err := ep.DistributedPortGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributed port groups on %s: %w", ep.Name(), err)
	}
	pgIndex := BuildPortGroupIndex(portGroups, w.diag)

	rows := []NetworkAdapterRow{}
	for _, dc := range datacenters {
		clusters, err := ep.Clusters(ctx, &dc.Self)
		if err != nil {
			return nil, fmt.Errorf("failed to list clusters in %s: %w", dc.Name, err)
		}
		for _, cluster := range clusters {
			hosts, err := ep.Hosts(ctx, &cluster.Self)
			if err != nil {
				return nil, fmt.Errorf("failed to list hosts in %s: %w", cluster.Name, err)
			}
			for _, host := range hosts {
				hostRows, err := ResolveHostNetworkConfig(host, pgIndex, w.diag)
				if err != nil {
					return nil, err
				}
				for i := range hostRows {
					w.stampNetworkRow(&hostRows[i], ep.Name(), dc.Name, cluster.Name)
				}
				rows = append(rows, hostRows...)
			}
		}
	}
	return rows, nil
}

// CollectGuestAdapterRows walks every VM and correlates its hardware NICs
// with the live guest network stack. The port-group and switch indices are
// fetched once per endpoint, not once per VM.
func (w *Walker) CollectGuestAdapterRows(ctx context.Context, ep Endpoint) ([]GuestAdapterRow, error) {
	datacenters, err := ep.Datacenters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list datacenters on %s: %w", ep.Name(), err)
	}
	portGroups, err := ep.DistributedPortGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributed port groups on %s: %w", ep.Name(), err)
	}
	switches, err := ep.DistributedSwitches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributed switches on %s: %w", ep.Name(), err)
	}
	pgIndex := BuildPortGroupIndex(portGroups, w.diag)
	switchIndex := BuildSwitchIndex(switches)

	rows := []GuestAdapterRow{}
	for _, dc := range datacenters {
		clusters, err := ep.Clusters(ctx, &dc.Self)
		if err != nil {
			return nil, fmt.Errorf("failed to list clusters in %s: %w", dc.Name, err)
		}
		for _, cluster := range clusters {
			vms, err := ep.VirtualMachines(ctx, &cluster.Self)
			if err != nil {
				return nil, fmt.Errorf("failed to list VMs in %s: %w", cluster.Name, err)
			}
			for _, vm := range vms {
				folderPath, err := ResolveFolderPath(ctx, ep, vm.Parent)
				if err != nil {
					w.diag.RecordSkip("VM", vm.Name, err)
					continue
				}
				vmRows := ResolveGuestAdapters(vm, pgIndex, switchIndex, w.diag)
				for i := range vmRows {
					vmRows[i].Endpoint = ep.Name()
					vmRows[i].Datacenter = dc.Name
					vmRows[i].Cluster = cluster.Name
					vmRows[i].FolderPath = folderPath
					vmRows[i].GeneratedAt = w.generatedAt
				}
				rows = append(rows, vmRows...)
			}
		}
	}
	return rows, nil
}

// CollectVMRows walks every VM and emits its configuration summary with the
// resolved folder path.
func (w *Walker) CollectVMRows(ctx context.Context, ep Endpoint) ([]VMRow, error) {
	datacenters, err := ep.Datacenters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list datacenters on %s: %w", ep.Name(), err)
	}

	rows := []VMRow{}
	for _, dc := range datacenters {
		clusters, err := ep.Clusters(ctx, &dc.Self)
		if err != nil {
			return nil, fmt.Errorf("failed to list clusters in %s: %w", dc.Name, err)
		}
		for _, cluster := range clusters {
			vms, err := ep.VirtualMachines(ctx, &cluster.Self)
			if err != nil {
				return nil, fmt.Errorf("failed to list VMs in %s: %w", cluster.Name, err)
			}
			for _, vm := range vms {
				folderPath, err := ResolveFolderPath(ctx, ep, vm.Parent)
				if err != nil {
					w.diag.RecordSkip("VM", vm.Name, err)
					continue
				}
				row := vmRow(vm)
				row.Endpoint = ep.Name()
				row.Datacenter = dc.Name
				row.Cluster = cluster.Name
				row.FolderPath = folderPath
				row.GeneratedAt = w.generatedAt
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

// CollectHostRows walks every host and emits its hardware summary.
func (w *Walker) CollectHostRows(ctx context.Context, ep Endpoint) ([]HostRow, error) {
	datacenters, err := ep.Datacenters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list datacenters on %s: %w", ep.Name(), err)
	}

	rows := []HostRow{}
	for _, dc := range datacenters {
		clusters, err := ep.Clusters(ctx, &dc.Self)
		if err != nil {
			return nil, fmt.Errorf("failed to list clusters in %s: %w", dc.Name, err)
		}
		for _, cluster := range clusters {
			hosts, err := ep.Hosts(ctx, &cluster.Self)
			if err != nil {
				return nil, fmt.Errorf("failed to list hosts in %s: %w", cluster.Name, err)
			}
			for _, host := range hosts {
				row := hostRow(host)
				row.Endpoint = ep.Name()
				row.Datacenter = dc.Name
				row.Cluster = cluster.Name
				row.GeneratedAt = w.generatedAt
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

// CollectClusterSummary counts hosts and non-template VMs per cluster and
// appends one endpoint rollup row with the totals.
func (w *Walker) CollectClusterSummary(ctx context.Context, ep Endpoint) ([]SummaryRow, error) {
	datacenters, err := ep.Datacenters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list datacenters on %s: %w", ep.Name(), err)
	}
	networks, err := ep.Networks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list networks on %s: %w", ep.Name(), err)
	}

	rows := []SummaryRow{}
	totalClusters, totalHosts, totalVMs := 0, 0, 0
	for _, dc := range datacenters {
		clusters, err := ep.Clusters(ctx, &dc.Self)
		if err != nil {
			return nil, fmt.Errorf("failed to list clusters in %s: %w", dc.Name, err)
		}
		totalClusters += len(clusters)
		for _, cluster := range clusters {
			vms, err := ep.VirtualMachines(ctx, &cluster.Self)
			if err != nil {
				return nil, fmt.Errorf("failed to list VMs in %s: %w", cluster.Name, err)
			}
			vmCount := len(funk.Filter(vms, func(vm mo.VirtualMachine) bool {
				return !isTemplate(vm)
			}).([]mo.VirtualMachine))

			totalHosts += len(cluster.Host)
			totalVMs += vmCount
			rows = append(rows, SummaryRow{
				Scope:       SummaryScopeCluster,
				Endpoint:    ep.Name(),
				Datacenter:  dc.Name,
				Cluster:     cluster.Name,
				HostCount:   strconv.Itoa(len(cluster.Host)),
				VMCount:     strconv.Itoa(vmCount),
				GeneratedAt: w.generatedAt,
			})
		}
	}

	rows = append(rows, SummaryRow{
		Scope:           SummaryScopeEndpoint,
		Endpoint:        ep.Name(),
		HostCount:       strconv.Itoa(totalHosts),
		VMCount:         strconv.Itoa(totalVMs),
		ClusterCount:    strconv.Itoa(totalClusters),
		DatacenterCount: strconv.Itoa(len(datacenters)),
		NetworkCount:    strconv.Itoa(len(networks)),
		GeneratedAt:     w.generatedAt,
	})
	return rows, nil
}

func (w *Walker) stampNetworkRow(row *NetworkAdapterRow, endpoint, datacenter, cluster string) {
	row.Endpoint = endpoint
	row.Datacenter = datacenter
	row.Cluster = cluster
	row.GeneratedAt = w.generatedAt
}

func isTemplate(vm mo.VirtualMachine) bool {
	if vm.Config != nil {
		return vm.Config.Template
	}
	return vm.Summary.Config.Template
}

func vmRow(vm mo.VirtualMachine) VMRow {
	row := VMRow{
		VM:         vm.Name,
		PowerState: string(vm.Runtime.PowerState),
		Template:   strconv.FormatBool(isTemplate(vm)),
	}
	if vm.Config != nil {
		row.GuestOS = vm.Config.GuestFullName
		row.UUID = vm.Config.Uuid
	}
	if summary := vm.Summary.Config; summary.Name != "" || summary.NumCpu > 0 {
		row.CPUs = strconv.Itoa(int(summary.NumCpu))
		row.MemoryMB = strconv.Itoa(int(summary.MemorySizeMB))
		if row.GuestOS == "" {
			row.GuestOS = summary.GuestFullName
		}
	}
	if vm.Guest != nil {
		row.ToolsStatus = string(vm.Guest.ToolsStatus)
		row.IPAddress = vm.Guest.IpAddress
		row.HostName = vm.Guest.HostName
	}
	return row
}

func hostRow(host mo.HostSystem) HostRow {
	row := HostRow{
		Host: host.Name,
	}
	if hw := host.Summary.Hardware; hw != nil {
		row.Vendor = hw.Vendor
		row.Model = hw.Model
		row.CPUCores = strconv.Itoa(int(hw.NumCpuCores))
		row.CPUSockets = strconv.Itoa(int(hw.NumCpuPkgs))
		row.MemoryMB = strconv.FormatInt(hw.MemorySize/1024/1024, 10)
	}
	if product := host.Summary.Config.Product; product != nil {
		row.Product = product.FullName
	}
	if rt := host.Summary.Runtime; rt != nil {
		row.PowerState = string(rt.PowerState)
		row.ConnectionState = string(rt.ConnectionState)
	}
	return row
}
