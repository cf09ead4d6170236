package inventory

import (
	"strconv"
	"strings"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// ResolveGuestAdapters correlates a VM's hardware NICs with the guest's live
// network stack by MAC address. The MAC is the discriminator for "is a
// network adapter": devices without one are skipped. The MAC join is only
// ever applied within this one VM's two collections, so duplicate MACs
// across VMs are harmless. The distributed port-group and switch indices are
// global per endpoint and hoisted above the per-VM loop by the caller.
func ResolveGuestAdapters(vm mo.VirtualMachine, pgIndex *PortGroupIndex, switchIndex *SwitchIndex, diag *Diagnostics) []GuestAdapterRow {
	if vm.Config == nil {
		return nil
	}

	var liveNics []types.GuestNicInfo
	if vm.Guest != nil {
		liveNics = vm.Guest.Net
	}

	rows := []GuestAdapterRow{}
	for _, device := range vm.Config.Hardware.Device {
		nic, ok := device.(types.BaseVirtualEthernetCard)
		if !ok {
			continue
		}
		card := nic.GetVirtualEthernetCard()
		if card.MacAddress == "" {
			continue
		}

		row := GuestAdapterRow{
			VM:      vm.Name,
			MAC:     card.MacAddress,
			MACType: card.AddressType,
		}
		if card.Connectable != nil {
			row.Connected = strconv.FormatBool(card.Connectable.Connected)
			row.StartConnected = strconv.FormatBool(card.Connectable.StartConnected)
		}

		resolveGuestBacking(card, pgIndex, switchIndex, &row)
		correlateLiveState(card.MacAddress, liveNics, &row)

		rows = append(rows, row)
	}

	return rows
}

// resolveGuestBacking classifies the adapter backing into exactly one of
// Distributed, NotAssigned or Standard. The declared backing kind wins; only
// a non-distributed device whose summary is the literal "None" counts as
// unassigned.
func resolveGuestBacking(card *types.VirtualEthernetCard, pgIndex *PortGroupIndex, switchIndex *SwitchIndex, row *GuestAdapterRow) {
	if backing, ok := card.Backing.(*types.VirtualEthernetCardDistributedVirtualPortBackingInfo); ok {
		row.PortGroupType = PortGroupTypeDistributed
		if pg, found := pgIndex.ByKey(backing.Port.PortgroupKey); found {
			row.PortGroup = pg.Name
			if name, found := switchIndex.NameByRef(pg.SwitchRef); found {
				row.DVSSwitch = name
			}
		}
		if row.DVSSwitch == "" && backing.Port.SwitchUuid != "" {
			if name, found := switchIndex.NameByUUID(backing.Port.SwitchUuid); found {
				row.DVSSwitch = name
			}
		}
		return
	}

	if summary := deviceSummary(card); summary == "None" {
		row.PortGroupType = PortGroupTypeNotAssigned
		return
	}

	row.PortGroupType = PortGroupTypeStandard
	if backing, ok := card.Backing.(*types.VirtualEthernetCardNetworkBackingInfo); ok {
		row.PortGroup = backing.DeviceName
	}
}

// correlateLiveState joins the guest's live NIC list against the device MAC.
// Every matching entry contributes, pipe-joined in guest order: dual-stack
// guests report two entries for one MAC and neither may be dropped.
func correlateLiveState(mac string, liveNics []types.GuestNicInfo, row *GuestAdapterRow) {
	ips := []string{}
	prefixes := []string{}
	dhcp := []string{}

	for _, nic := range liveNics {
		if !strings.EqualFold(nic.MacAddress, mac) {
			continue
		}
		if nic.IpConfig != nil {
			for _, addr := range nic.IpConfig.IpAddress {
				ips = append(ips, addr.IpAddress)
				prefixes = append(prefixes, strconv.Itoa(int(addr.PrefixLength)))
			}
			dhcp = append(dhcp, strconv.FormatBool(guestDhcpEnabled(nic.IpConfig)))
			continue
		}
		// Older tools report plain addresses without prefix information.
		for _, addr := range nic.IpAddress {
			ips = append(ips, addr)
			prefixes = append(prefixes, "")
		}
		dhcp = append(dhcp, "false")
	}

	row.IPAddresses = strings.Join(ips, "|")
	row.PrefixLengths = strings.Join(prefixes, "|")
	row.DHCP = strings.Join(dhcp, "|")
}

func guestDhcpEnabled(ipConfig *types.NetIpConfigInfo) bool {
	if ipConfig.Dhcp == nil {
		return false
	}
	if v4 := ipConfig.Dhcp.Ipv4; v4 != nil && v4.Enable {
		return true
	}
	if v6 := ipConfig.Dhcp.Ipv6; v6 != nil && v6.Enable {
		return true
	}
	return false
}

func deviceSummary(card *types.VirtualEthernetCard) string {
	if card.DeviceInfo == nil {
		return ""
	}
	return card.DeviceInfo.GetDescription().Summary
}
