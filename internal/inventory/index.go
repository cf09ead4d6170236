package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"
)

// HasDeviceSuffix reports whether ref names the given device using the
// "<prefix>-<device>" encoding used by switch adapter-membership lists and
// the virtual NIC manager's selected-adapter references, e.g.
// "key-vim.host.PhysicalNic-vmnic0" names device "vmnic0". An empty device
// never matches.
func HasDeviceSuffix(ref, device string) bool {
	if device == "" {
		return false
	}
	return strings.HasSuffix(ref, "-"+device)
}

// Diagnostics counts conditions worth surfacing without aborting a report:
// leaf entities skipped after a failed detail fetch and correlation lookups
// that matched more than one entry.
type Diagnostics struct {
	SkippedLeaves    int
	AmbiguousMatches int
}

func (d *Diagnostics) RecordSkip(kind, name string, err error) {
	d.SkippedLeaves++
	zap.S().Named("inventory").Warnf("skipping %s %q: %v", kind, name, err)
}

func (d *Diagnostics) RecordAmbiguous(what, key string) {
	d.AmbiguousMatches++
	zap.S().Named("inventory").Warnf("ambiguous correlation: %s has multiple matches for %q, using the first", what, key)
}

// DVPortGroup is one distributed port group flattened out of its managed
// object: the key is unique only within the owning endpoint.
type DVPortGroup struct {
	Key       string
	Name      string
	VlanID    string
	SwitchRef types.ManagedObjectReference
}

// PortGroupIndex resolves distributed port groups by exact key equality.
type PortGroupIndex struct {
	byKey map[string]DVPortGroup
	diag  *Diagnostics
}

func BuildPortGroupIndex(portGroups []mo.DistributedVirtualPortgroup, diag *Diagnostics) *PortGroupIndex {
	ix := &PortGroupIndex{
		byKey: make(map[string]DVPortGroup, len(portGroups)),
		diag:  diag,
	}
	for _, pg := range portGroups {
		key := pg.Key
		if pg.Config.Key != "" {
			key = pg.Config.Key
		}
		if key == "" {
			continue
		}
		if _, dup := ix.byKey[key]; dup {
			diag.RecordAmbiguous("distributed port group", key)
			continue
		}
		entry := DVPortGroup{
			Key:    key,
			Name:   pg.Name,
			VlanID: vlanIDString(pg.Config.DefaultPortConfig),
		}
		if pg.Config.Name != "" {
			entry.Name = pg.Config.Name
		}
		if pg.Config.DistributedVirtualSwitch != nil {
			entry.SwitchRef = *pg.Config.DistributedVirtualSwitch
		}
		ix.byKey[key] = entry
	}
	return ix
}

// ByKey looks a port group up by key. A miss is not an error: the caller
// renders the absent value as empty.
func (ix *PortGroupIndex) ByKey(key string) (DVPortGroup, bool) {
	pg, ok := ix.byKey[key]
	return pg, ok
}

func (ix *PortGroupIndex) Len() int {
	return len(ix.byKey)
}

// SwitchIndex resolves distributed switch display names by managed object
// reference or by switch UUID (virtual adapters carry the UUID, port groups
// carry the reference).
type SwitchIndex struct {
	byRef  map[types.ManagedObjectReference]string
	byUUID map[string]string
}

func BuildSwitchIndex(switches []mo.DistributedVirtualSwitch) *SwitchIndex {
	ix := &SwitchIndex{
		byRef:  make(map[types.ManagedObjectReference]string, len(switches)),
		byUUID: make(map[string]string, len(switches)),
	}
	for _, sw := range switches {
		ix.byRef[sw.Self] = sw.Name
		if sw.Uuid != "" {
			ix.byUUID[sw.Uuid] = sw.Name
		}
	}
	return ix
}

func (ix *SwitchIndex) NameByRef(ref types.ManagedObjectReference) (string, bool) {
	name, ok := ix.byRef[ref]
	return name, ok
}

func (ix *SwitchIndex) NameByUUID(uuid string) (string, bool) {
	name, ok := ix.byUUID[uuid]
	return name, ok
}

// vlanIDString renders the VLAN assignment of a distributed port group.
// Trunk specs cover a set of ranges, private VLANs carry the secondary id.
func vlanIDString(portConfig types.BaseDVPortSetting) string {
	setting, ok := portConfig.(*types.VMwareDVSPortSetting)
	if !ok || setting.Vlan == nil {
		return ""
	}
	switch vlan := setting.Vlan.(type) {
	case *types.VmwareDistributedVirtualSwitchVlanIdSpec:
		return strconv.Itoa(int(vlan.VlanId))
	case *types.VmwareDistributedVirtualSwitchTrunkVlanSpec:
		ranges := make([]string, 0, len(vlan.VlanId))
		for _, r := range vlan.VlanId {
			if r.Start == r.End {
				ranges = append(ranges, strconv.Itoa(int(r.Start)))
				continue
			}
			ranges = append(ranges, fmt.Sprintf("%d-%d", r.Start, r.End))
		}
		return strings.Join(ranges, "|")
	case *types.VmwareDistributedVirtualSwitchPvlanSpec:
		return strconv.Itoa(int(vlan.PvlanId))
	default:
		return ""
	}
}
