package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// emptyEndpoint answers every query with an empty inventory.
type emptyEndpoint struct {
	datacentersErr error
}

func (e *emptyEndpoint) Name() string    { return "vcenter01" }
func (e *emptyEndpoint) Version() string { return "8.0.2" }

func (e *emptyEndpoint) Datacenters(ctx context.Context) ([]mo.Datacenter, error) {
	return nil, e.datacentersErr
}

func (e *emptyEndpoint) Clusters(ctx context.Context, root *types.ManagedObjectReference) ([]mo.ClusterComputeResource, error) {
	return nil, nil
}

func (e *emptyEndpoint) Hosts(ctx context.Context, root *types.ManagedObjectReference) ([]mo.HostSystem, error) {
	return nil, nil
}

func (e *emptyEndpoint) VirtualMachines(ctx context.Context, root *types.ManagedObjectReference) ([]mo.VirtualMachine, error) {
	return nil, nil
}

func (e *emptyEndpoint) Networks(ctx context.Context) ([]mo.Network, error) {
	return nil, nil
}

func (e *emptyEndpoint) DistributedSwitches(ctx context.Context) ([]mo.DistributedVirtualSwitch, error) {
	return nil, nil
}

func (e *emptyEndpoint) DistributedPortGroups(ctx context.Context) ([]mo.DistributedVirtualPortgroup, error) {
	return nil, nil
}

func (e *emptyEndpoint) Folder(ctx context.Context, ref types.ManagedObjectReference) (*mo.Folder, error) {
	return nil, errors.New("no folders in an empty inventory")
}

func TestDriverGenerateAllReports(t *testing.T) {
	dir := t.TempDir()
	driver := NewDriver(dir)

	failed := driver.Generate(context.Background(), &emptyEndpoint{}, AllReports)
	assert.Equal(t, 0, failed)

	for _, name := range AllReports {
		path := filepath.Join(dir, "vcenter01_"+name+".csv")
		_, err := os.Stat(path)
		require.NoError(t, err, "report %s must be written", name)
	}
}

func TestDriverGenerateUnknownReport(t *testing.T) {
	driver := NewDriver(t.TempDir())

	failed := driver.Generate(context.Background(), &emptyEndpoint{}, []string{"disk-usage"})
	assert.Equal(t, 1, failed)
}

func TestDriverGenerateContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	driver := NewDriver(dir)
	ep := &emptyEndpoint{datacentersErr: errors.New("permission denied")}

	failed := driver.Generate(context.Background(), ep, AllReports)
	assert.Equal(t, len(AllReports), failed, "every report fails, none aborts the rest")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a failed report is not written")
}
