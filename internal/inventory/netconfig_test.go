package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

func TestResolveHostNetworkConfig(t *testing.T) {
	host := scenarioHost("esx01.example.com")
	diag := &Diagnostics{}
	pgIndex := BuildPortGroupIndex([]mo.DistributedVirtualPortgroup{
		dvPortGroup("dvportgroup-55", "DPG-Mgmt", 55, nil),
	}, diag)

	rows, err := ResolveHostNetworkConfig(host, pgIndex, diag)
	require.NoError(t, err)
	require.Len(t, rows, 3, "one row per physical plus one per virtual adapter")

	vmnic0 := rows[0]
	assert.Equal(t, AdapterTypePhysical, vmnic0.AdapterType)
	assert.Equal(t, "vmnic0", vmnic0.Device)
	assert.Equal(t, "a0:36:9f:00:00:01", vmnic0.MAC)
	assert.Equal(t, "ixgben", vmnic0.Driver)
	assert.Equal(t, "10000", vmnic0.SpeedMb)
	assert.Equal(t, "vSwitch0", vmnic0.VSSSwitch)
	assert.Equal(t, "1500", vmnic0.MTU, "MTU comes from the same switch entry as the name")
	assert.Empty(t, vmnic0.DVSSwitch)

	vmnic1 := rows[1]
	assert.Equal(t, "vmnic1", vmnic1.Device)
	assert.Empty(t, vmnic1.VSSSwitch, "an unattached NIC leaves every switch column empty")
	assert.Empty(t, vmnic1.DVSSwitch)
	assert.Empty(t, vmnic1.MTU)
	assert.Empty(t, vmnic1.SpeedMb, "no link means no speed")

	vmk0 := rows[2]
	assert.Equal(t, AdapterTypeVirtual, vmk0.AdapterType)
	assert.Equal(t, "vmk0", vmk0.Device)
	assert.Equal(t, "00:50:56:6a:00:01", vmk0.MAC)
	assert.Equal(t, "10.1.1.10", vmk0.IPAddress)
	assert.Equal(t, "255.255.255.0", vmk0.SubnetMask)
	assert.Equal(t, "false", vmk0.DHCP)
	assert.Equal(t, "DPG-Mgmt", vmk0.DVSPortGroup)
	assert.Equal(t, "55", vmk0.DVSPortGroupVLAN)
	assert.Empty(t, vmk0.VSSPortGroup)

	assert.Equal(t, "true", vmk0.ManagementTraffic)
	assert.Empty(t, vmk0.VMotionTraffic)
	assert.Empty(t, vmk0.VSANTraffic)
	assert.Empty(t, vmk0.ProvisioningTraffic)
	assert.Empty(t, vmk0.ReplicationTraffic)
	assert.Empty(t, vmk0.ReplicationNFCTraffic)
	assert.Empty(t, vmk0.FaultToleranceTraffic)

	assert.Equal(t, 0, diag.AmbiguousMatches)
}

func TestResolveHostNetworkConfigMissingBundle(t *testing.T) {
	tests := []struct {
		name string
		host mo.HostSystem
	}{
		{
			name: "No config at all",
			host: mo.HostSystem{ManagedEntity: managedEntity("HostSystem", "host-1", "esx-bare")},
		},
		{
			name: "Config without network info",
			host: mo.HostSystem{
				ManagedEntity: managedEntity("HostSystem", "host-2", "esx-partial"),
				Config:        &types.HostConfigInfo{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveHostNetworkConfig(tt.host, BuildPortGroupIndex(nil, &Diagnostics{}), &Diagnostics{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.host.Name)
		})
	}
}

func TestResolvePhysicalAdapterClaimedByBothSwitchKinds(t *testing.T) {
	network := &types.HostNetworkInfo{
		Pnic: []types.PhysicalNic{
			{Key: "key-vim.host.PhysicalNic-vmnic2", Device: "vmnic2", Mac: "a0:36:9f:00:00:03"},
		},
		Vswitch: []types.HostVirtualSwitch{
			{Name: "vSwitch1", Mtu: 1500, Pnic: []string{"key-vim.host.PhysicalNic-vmnic2"}},
		},
		ProxySwitch: []types.HostProxySwitch{
			{DvsName: "DSwitch-Prod", Mtu: 9000, Pnic: []string{"key-vim.host.PhysicalNic-vmnic2"}},
		},
	}

	diag := &Diagnostics{}
	row := resolvePhysicalAdapter("esx01", network.Pnic[0], network, diag)

	assert.Equal(t, "vSwitch1", row.VSSSwitch, "both claims are surfaced, not treated as conflict")
	assert.Equal(t, "DSwitch-Prod", row.DVSSwitch)
	assert.Equal(t, 0, diag.AmbiguousMatches)
}

func TestResolvePhysicalAdapterDuplicateMembership(t *testing.T) {
	network := &types.HostNetworkInfo{
		Pnic: []types.PhysicalNic{
			{Key: "key-vim.host.PhysicalNic-vmnic3", Device: "vmnic3"},
		},
		Vswitch: []types.HostVirtualSwitch{
			{Name: "vSwitch1", Mtu: 1500, Pnic: []string{"key-vim.host.PhysicalNic-vmnic3"}},
			{Name: "vSwitch2", Mtu: 9000, Pnic: []string{"key-vim.host.PhysicalNic-vmnic3"}},
		},
	}

	diag := &Diagnostics{}
	row := resolvePhysicalAdapter("esx01", network.Pnic[0], network, diag)

	assert.Equal(t, "vSwitch1", row.VSSSwitch, "the first claim wins deterministically")
	assert.Equal(t, "1500", row.MTU)
	assert.Equal(t, 1, diag.AmbiguousMatches)
}

func TestResolveVirtualAdapterStandardPortGroup(t *testing.T) {
	network := &types.HostNetworkInfo{
		Portgroup: []types.HostPortGroup{
			{Spec: types.HostPortGroupSpec{Name: "Management Network", VlanId: 100, VswitchName: "vSwitch0"}},
		},
	}
	vnic := types.HostVirtualNic{
		Device: "vmk1",
		Key:    "key-vim.host.VirtualNic-vmk1",
		Portgroup: "Management Network",
		Spec: types.HostVirtualNicSpec{
			Mac: "00:50:56:6a:00:02",
			Mtu: 1500,
			Ip:  &types.HostIpConfig{Dhcp: true, IpAddress: "10.1.1.11"},
		},
	}

	row := resolveVirtualAdapter("esx01", vnic, network, nil, BuildPortGroupIndex(nil, &Diagnostics{}), &Diagnostics{})

	assert.Equal(t, "Management Network", row.VSSPortGroup)
	assert.Equal(t, "100", row.VSSPortGroupVLAN)
	assert.Equal(t, "vSwitch0", row.VSSSwitch)
	assert.Equal(t, "true", row.DHCP)
	assert.Empty(t, row.DVSPortGroup)
}

func TestResolveVirtualAdapterPortGroupIndexMiss(t *testing.T) {
	vnic := types.HostVirtualNic{
		Device: "vmk2",
		Spec: types.HostVirtualNicSpec{
			Mac: "00:50:56:6a:00:03",
			DistributedVirtualPort: &types.DistributedVirtualSwitchPortConnection{
				PortgroupKey: "dvportgroup-77",
			},
		},
	}

	row := resolveVirtualAdapter("esx01", vnic, &types.HostNetworkInfo{}, nil, BuildPortGroupIndex(nil, &Diagnostics{}), &Diagnostics{})

	assert.Empty(t, row.DVSPortGroup, "a missing port group leaves the columns empty")
	assert.Empty(t, row.DVSPortGroupVLAN)
}

func TestResolveVirtualAdapterRoleFromAnotherDeviceStaysEmpty(t *testing.T) {
	netConfig := []types.VirtualNicManagerNetConfig{
		{NicType: "vmotion", SelectedVnic: []string{"vmotion.key-vim.host.VirtualNic-vmk9"}},
	}
	vnic := types.HostVirtualNic{
		Device: "vmk0",
		Key:    "key-vim.host.VirtualNic-vmk0",
		Spec:   types.HostVirtualNicSpec{Mac: "00:50:56:6a:00:04"},
	}

	row := resolveVirtualAdapter("esx01", vnic, &types.HostNetworkInfo{}, netConfig, BuildPortGroupIndex(nil, &Diagnostics{}), &Diagnostics{})

	assert.Empty(t, row.VMotionTraffic, `a role never renders "false", it stays absent`)
}
