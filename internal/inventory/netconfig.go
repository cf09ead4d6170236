package inventory

import (
	"fmt"
	"strconv"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// trafficRoles are the virtual NIC manager service types rendered as row
// columns, in column order.
var trafficRoles = []string{
	string(types.HostVirtualNicManagerNicTypeManagement),
	string(types.HostVirtualNicManagerNicTypeVmotion),
	string(types.HostVirtualNicManagerNicTypeVsan),
	string(types.HostVirtualNicManagerNicTypeVSphereProvisioning),
	string(types.HostVirtualNicManagerNicTypeVSphereReplication),
	string(types.HostVirtualNicManagerNicTypeVSphereReplicationNFC),
	string(types.HostVirtualNicManagerNicTypeFaultToleranceLogging),
}

// ResolveHostNetworkConfig produces one row per physical and one row per
// virtual adapter of the host, resolving switch, port group, VLAN and
// traffic roles by cross-referencing the independent sub-collections of the
// host's network config bundle. The distributed port-group index is built
// once per endpoint by the caller.
//
// A host without its config bundle populated is an error: the host-network
// report fails fast rather than emitting a partial picture of a host.
func ResolveHostNetworkConfig(host mo.HostSystem, pgIndex *PortGroupIndex, diag *Diagnostics) ([]NetworkAdapterRow, error) {
	if host.Config == nil || host.Config.Network == nil {
		return nil, fmt.Errorf("host %q: network config not available", host.Name)
	}
	network := host.Config.Network

	rows := make([]NetworkAdapterRow, 0, len(network.Pnic)+len(network.Vnic))

	for _, pnic := range network.Pnic {
		rows = append(rows, resolvePhysicalAdapter(host.Name, pnic, network, diag))
	}

	var netConfig []types.VirtualNicManagerNetConfig
	if host.Config.VirtualNicManagerInfo != nil {
		netConfig = host.Config.VirtualNicManagerInfo.NetConfig
	}
	for _, vnic := range network.Vnic {
		rows = append(rows, resolveVirtualAdapter(host.Name, vnic, network, netConfig, pgIndex, diag))
	}

	return rows, nil
}

// resolvePhysicalAdapter resolves the switch membership of one physical NIC.
// Switch adapter lists name their members with the "<prefix>-<device>"
// encoding, so membership is a suffix match, not equality. At most one of
// standard/distributed should claim a NIC; when both do, both are surfaced.
func resolvePhysicalAdapter(hostName string, pnic types.PhysicalNic, network *types.HostNetworkInfo, diag *Diagnostics) NetworkAdapterRow {
	row := NetworkAdapterRow{
		Host:        hostName,
		AdapterType: AdapterTypePhysical,
		Device:      pnic.Device,
		MAC:         pnic.Mac,
		Driver:      pnic.Driver,
	}
	if pnic.LinkSpeed != nil {
		row.SpeedMb = strconv.Itoa(int(pnic.LinkSpeed.SpeedMb))
	}

	matched := false
	for _, vswitch := range network.Vswitch {
		if !claimsDevice(vswitch.Pnic, pnic.Device) {
			continue
		}
		if matched {
			diag.RecordAmbiguous("standard switch membership", pnic.Device)
			continue
		}
		matched = true
		// Name and MTU come from the same entry so the pair stays consistent.
		row.VSSSwitch = vswitch.Name
		row.MTU = strconv.Itoa(int(vswitch.Mtu))
	}

	matched = false
	for _, proxy := range network.ProxySwitch {
		if !claimsDevice(proxy.Pnic, pnic.Device) {
			continue
		}
		if matched {
			diag.RecordAmbiguous("distributed switch membership", pnic.Device)
			continue
		}
		matched = true
		row.DVSSwitch = proxy.DvsName
		row.MTU = strconv.Itoa(int(proxy.Mtu))
	}

	return row
}

func resolveVirtualAdapter(hostName string, vnic types.HostVirtualNic, network *types.HostNetworkInfo, netConfig []types.VirtualNicManagerNetConfig, pgIndex *PortGroupIndex, diag *Diagnostics) NetworkAdapterRow {
	row := NetworkAdapterRow{
		Host:        hostName,
		AdapterType: AdapterTypeVirtual,
		Device:      vnic.Device,
		MAC:         vnic.Spec.Mac,
		MTU:         strconv.Itoa(int(vnic.Spec.Mtu)),
	}
	if ip := vnic.Spec.Ip; ip != nil {
		row.IPAddress = ip.IpAddress
		row.SubnetMask = ip.SubnetMask
		row.DHCP = strconv.FormatBool(ip.Dhcp)
	}

	if port := vnic.Spec.DistributedVirtualPort; port != nil {
		// A lookup miss leaves the name/VLAN columns empty.
		if pg, ok := pgIndex.ByKey(port.PortgroupKey); ok {
			row.DVSPortGroup = pg.Name
			row.DVSPortGroupVLAN = pg.VlanID
		}
	} else if vnic.Portgroup != "" {
		row.VSSPortGroup = vnic.Portgroup
		matched := false
		for _, pg := range network.Portgroup {
			if pg.Spec.Name != vnic.Portgroup {
				continue
			}
			if matched {
				diag.RecordAmbiguous("standard port group", vnic.Portgroup)
				continue
			}
			matched = true
			row.VSSPortGroupVLAN = strconv.Itoa(int(pg.Spec.VlanId))
			row.VSSSwitch = pg.Spec.VswitchName
		}
	}

	roles := map[string]*string{
		trafficRoles[0]: &row.ManagementTraffic,
		trafficRoles[1]: &row.VMotionTraffic,
		trafficRoles[2]: &row.VSANTraffic,
		trafficRoles[3]: &row.ProvisioningTraffic,
		trafficRoles[4]: &row.ReplicationTraffic,
		trafficRoles[5]: &row.ReplicationNFCTraffic,
		trafficRoles[6]: &row.FaultToleranceTraffic,
	}
	for _, nc := range netConfig {
		flag, known := roles[nc.NicType]
		if !known {
			continue
		}
		for _, selected := range nc.SelectedVnic {
			if claimsDevice([]string{selected}, vnic.Device) {
				*flag = "true"
				break
			}
		}
	}

	return row
}

func claimsDevice(refs []string, device string) bool {
	for _, ref := range refs {
		if HasDeviceSuffix(ref, device) {
			return true
		}
	}
	return false
}
