package vsphere

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kubev2v/vsphere-reporter/internal/config"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"
)

// Endpoint is the govmomi-backed implementation of inventory.Endpoint. It
// issues property-filtered container-view queries: only the listed properties
// are populated on the returned objects, anything else is left zero/nil.
type Endpoint struct {
	name    string
	version string
	client  *vim25.Client
	logout  func(context.Context) error
}

// Connect dials one management server and returns a live endpoint handle.
// The caller owns the session and must call Close when the run is done.
func Connect(ctx context.Context, cfg config.EndpointConfig, insecure bool) (*Endpoint, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse endpoint URL %q: %w", cfg.URL, err)
	}
	u.User = url.UserPassword(cfg.Username, cfg.Password)

	if cfg.Insecure != nil {
		insecure = *cfg.Insecure
	}
	client, err := govmomi.NewClient(ctx, u, insecure)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %q: %w", u.Host, err)
	}

	name := cfg.Name
	if name == "" {
		name = u.Host
	}
	zap.S().Named("vsphere").Infof("connected to %s (%s)", name, client.ServiceContent.About.FullName)

	return &Endpoint{
		name:    name,
		version: client.ServiceContent.About.Version,
		client:  client.Client,
		logout:  client.Logout,
	}, nil
}

// NewEndpoint wraps an already-established vim25 client, e.g. a simulator
// connection in tests.
func NewEndpoint(name string, client *vim25.Client) *Endpoint {
	return &Endpoint{
		name:    name,
		version: client.ServiceContent.About.Version,
		client:  client,
	}
}

func (e *Endpoint) Name() string {
	return e.name
}

func (e *Endpoint) Version() string {
	return e.version
}

func (e *Endpoint) Close(ctx context.Context) {
	if e.logout == nil {
		return
	}
	if err := e.logout(ctx); err != nil {
		zap.S().Named("vsphere").Warnf("failed to log out of %s: %v", e.name, err)
	}
}

func (e *Endpoint) Datacenters(ctx context.Context) ([]mo.Datacenter, error) {
	var datacenters []mo.Datacenter
	err := e.retrieve(ctx, "Datacenter", []string{"name"}, nil, &datacenters)
	return datacenters, err
}

func (e *Endpoint) Clusters(ctx context.Context, root *types.ManagedObjectReference) ([]mo.ClusterComputeResource, error) {
	var clusters []mo.ClusterComputeResource
	err := e.retrieve(ctx, "ClusterComputeResource", []string{"name", "host"}, root, &clusters)
	return clusters, err
}

func (e *Endpoint) Hosts(ctx context.Context, root *types.ManagedObjectReference) ([]mo.HostSystem, error) {
	var hosts []mo.HostSystem
	err := e.retrieve(ctx, "HostSystem",
		[]string{"name", "summary", "config.network", "config.virtualNicManagerInfo"}, root, &hosts)
	return hosts, err
}

func (e *Endpoint) VirtualMachines(ctx context.Context, root *types.ManagedObjectReference) ([]mo.VirtualMachine, error) {
	var vms []mo.VirtualMachine
	err := e.retrieve(ctx, "VirtualMachine",
		[]string{"name", "parent", "config", "guest", "summary", "runtime"}, root, &vms)
	return vms, err
}

func (e *Endpoint) Networks(ctx context.Context) ([]mo.Network, error) {
	var networks []mo.Network
	err := e.retrieve(ctx, "Network", []string{"name"}, nil, &networks)
	return networks, err
}

func (e *Endpoint) DistributedSwitches(ctx context.Context) ([]mo.DistributedVirtualSwitch, error) {
	var switches []mo.DistributedVirtualSwitch
	err := e.retrieve(ctx, "DistributedVirtualSwitch", []string{"name", "uuid"}, nil, &switches)
	return switches, err
}

func (e *Endpoint) DistributedPortGroups(ctx context.Context) ([]mo.DistributedVirtualPortgroup, error) {
	var portGroups []mo.DistributedVirtualPortgroup
	err := e.retrieve(ctx, "DistributedVirtualPortgroup", []string{"name", "key", "config"}, nil, &portGroups)
	return portGroups, err
}

func (e *Endpoint) Folder(ctx context.Context, ref types.ManagedObjectReference) (*mo.Folder, error) {
	var folder mo.Folder
	pc := property.DefaultCollector(e.client)
	if err := pc.RetrieveOne(ctx, ref, []string{"name", "parent"}, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// retrieve runs one container-view query for the given object kind, scoped
// to root when set, otherwise to the whole inventory.
func (e *Endpoint) retrieve(ctx context.Context, kind string, props []string, root *types.ManagedObjectReference, dst interface{}) error {
	viewRoot := e.client.ServiceContent.RootFolder
	if root != nil {
		viewRoot = *root
	}

	m := view.NewManager(e.client)
	v, err := m.CreateContainerView(ctx, viewRoot, []string{kind}, true)
	if err != nil {
		return fmt.Errorf("failed to create %s view: %w", kind, err)
	}
	defer func() {
		_ = v.Destroy(ctx)
	}()

	if err := v.Retrieve(ctx, []string{kind}, props, dst); err != nil {
		return fmt.Errorf("failed to retrieve %s objects: %w", kind, err)
	}
	return nil
}
