package inventory

import (
	"context"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// Endpoint is the live, queryable handle onto one connected management
// server. Queries are property-filtered: only the properties the
// implementation requests from the server are guaranteed populated, anything
// else may be nil. A nil root scopes a query to the whole inventory,
// otherwise results are restricted to descendants of the given reference.
//
// References returned by one Endpoint are only meaningful on that same
// Endpoint; they must never be resolved against another one.
type Endpoint interface {
	Name() string
	Version() string

	Datacenters(ctx context.Context) ([]mo.Datacenter, error)
	Clusters(ctx context.Context, root *types.ManagedObjectReference) ([]mo.ClusterComputeResource, error)
	Hosts(ctx context.Context, root *types.ManagedObjectReference) ([]mo.HostSystem, error)
	VirtualMachines(ctx context.Context, root *types.ManagedObjectReference) ([]mo.VirtualMachine, error)
	Networks(ctx context.Context) ([]mo.Network, error)
	DistributedSwitches(ctx context.Context) ([]mo.DistributedVirtualSwitch, error)
	DistributedPortGroups(ctx context.Context) ([]mo.DistributedVirtualPortgroup, error)

	// Folder resolves one folder by reference with its name and parent
	// populated. Used by the folder-path resolver to ascend the tree.
	Folder(ctx context.Context, ref types.ManagedObjectReference) (*mo.Folder, error)
}
