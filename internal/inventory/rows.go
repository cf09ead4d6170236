package inventory

// Row is one flat report record. Header and Record always have the same
// length and order: the CSV layer assumes a fixed column set per report, so
// absent values are rendered as empty strings rather than dropped.
type Row interface {
	Header() []string
	Record() []string
}

const (
	AdapterTypePhysical = "Physical"
	AdapterTypeVirtual  = "Virtual"

	PortGroupTypeDistributed = "Distributed"
	PortGroupTypeStandard    = "Standard"
	PortGroupTypeNotAssigned = "NotAssigned"
)

// NetworkAdapterRow is one physical or virtual adapter on one host with its
// switch, port group, VLAN and traffic-role columns resolved. Role columns
// hold "true" or stay empty; an explicit "false" never occurs because a
// non-matching role is simply not evaluated further.
type NetworkAdapterRow struct {
	Endpoint    string
	Datacenter  string
	Cluster     string
	Host        string
	AdapterType string
	Device      string
	MAC         string
	Driver      string
	SpeedMb     string
	MTU         string

	VSSSwitch        string
	VSSPortGroup     string
	VSSPortGroupVLAN string
	DVSSwitch        string
	DVSPortGroup     string
	DVSPortGroupVLAN string

	IPAddress  string
	SubnetMask string
	DHCP       string

	ManagementTraffic     string
	VMotionTraffic        string
	VSANTraffic           string
	ProvisioningTraffic   string
	ReplicationTraffic    string
	ReplicationNFCTraffic string
	FaultToleranceTraffic string

	GeneratedAt string
}

func (r NetworkAdapterRow) Header() []string {
	return []string{
		"Endpoint", "Datacenter", "Cluster", "Host", "AdapterType", "Device",
		"MAC", "Driver", "SpeedMb", "MTU",
		"VSSSwitch", "VSSPortGroup", "VSSPortGroupVLAN",
		"DVSSwitch", "DVSPortGroup", "DVSPortGroupVLAN",
		"IPAddress", "SubnetMask", "DHCP",
		"ManagementTraffic", "VMotionTraffic", "VSANTraffic",
		"ProvisioningTraffic", "ReplicationTraffic", "ReplicationNFCTraffic",
		"FaultToleranceTraffic", "GeneratedAt",
	}
}

func (r NetworkAdapterRow) Record() []string {
	return []string{
		r.Endpoint, r.Datacenter, r.Cluster, r.Host, r.AdapterType, r.Device,
		r.MAC, r.Driver, r.SpeedMb, r.MTU,
		r.VSSSwitch, r.VSSPortGroup, r.VSSPortGroupVLAN,
		r.DVSSwitch, r.DVSPortGroup, r.DVSPortGroupVLAN,
		r.IPAddress, r.SubnetMask, r.DHCP,
		r.ManagementTraffic, r.VMotionTraffic, r.VSANTraffic,
		r.ProvisioningTraffic, r.ReplicationTraffic, r.ReplicationNFCTraffic,
		r.FaultToleranceTraffic, r.GeneratedAt,
	}
}

// GuestAdapterRow is one VM hardware NIC correlated with the guest's live
// network stack. Multi-valued live fields (dual-stack addresses) are
// pipe-joined in the order the guest reported them.
type GuestAdapterRow struct {
	Endpoint   string
	Datacenter string
	Cluster    string
	VM         string
	FolderPath string

	MAC           string
	MACType       string
	PortGroup     string
	PortGroupType string
	DVSSwitch     string

	IPAddresses    string
	PrefixLengths  string
	DHCP           string
	Connected      string
	StartConnected string

	GeneratedAt string
}

func (r GuestAdapterRow) Header() []string {
	return []string{
		"Endpoint", "Datacenter", "Cluster", "VM", "FolderPath",
		"MAC", "MACType", "PortGroup", "PortGroupType", "DVSSwitch",
		"IPAddresses", "PrefixLengths", "DHCP", "Connected", "StartConnected",
		"GeneratedAt",
	}
}

func (r GuestAdapterRow) Record() []string {
	return []string{
		r.Endpoint, r.Datacenter, r.Cluster, r.VM, r.FolderPath,
		r.MAC, r.MACType, r.PortGroup, r.PortGroupType, r.DVSSwitch,
		r.IPAddresses, r.PrefixLengths, r.DHCP, r.Connected, r.StartConnected,
		r.GeneratedAt,
	}
}

// VMRow is one virtual machine with its resolved folder path and basic
// configuration.
type VMRow struct {
	Endpoint   string
	Datacenter string
	Cluster    string
	VM         string
	FolderPath string

	PowerState  string
	GuestOS     string
	CPUs        string
	MemoryMB    string
	Template    string
	UUID        string
	ToolsStatus string
	IPAddress   string
	HostName    string

	GeneratedAt string
}

func (r VMRow) Header() []string {
	return []string{
		"Endpoint", "Datacenter", "Cluster", "VM", "FolderPath",
		"PowerState", "GuestOS", "CPUs", "MemoryMB", "Template", "UUID",
		"ToolsStatus", "IPAddress", "HostName", "GeneratedAt",
	}
}

func (r VMRow) Record() []string {
	return []string{
		r.Endpoint, r.Datacenter, r.Cluster, r.VM, r.FolderPath,
		r.PowerState, r.GuestOS, r.CPUs, r.MemoryMB, r.Template, r.UUID,
		r.ToolsStatus, r.IPAddress, r.HostName, r.GeneratedAt,
	}
}

// HostRow is one host's hardware and runtime summary.
type HostRow struct {
	Endpoint   string
	Datacenter string
	Cluster    string
	Host       string

	Vendor          string
	Model           string
	CPUCores        string
	CPUSockets      string
	MemoryMB        string
	Product         string
	PowerState      string
	ConnectionState string

	GeneratedAt string
}

func (r HostRow) Header() []string {
	return []string{
		"Endpoint", "Datacenter", "Cluster", "Host",
		"Vendor", "Model", "CPUCores", "CPUSockets", "MemoryMB",
		"Product", "PowerState", "ConnectionState", "GeneratedAt",
	}
}

func (r HostRow) Record() []string {
	return []string{
		r.Endpoint, r.Datacenter, r.Cluster, r.Host,
		r.Vendor, r.Model, r.CPUCores, r.CPUSockets, r.MemoryMB,
		r.Product, r.PowerState, r.ConnectionState, r.GeneratedAt,
	}
}

const (
	SummaryScopeCluster  = "Cluster"
	SummaryScopeEndpoint = "Endpoint"
)

// SummaryRow is one per-cluster count line; the aggregator appends one
// endpoint rollup row carrying the totals. Template VMs are never counted.
type SummaryRow struct {
	Scope      string
	Endpoint   string
	Datacenter string
	Cluster    string

	HostCount       string
	VMCount         string
	ClusterCount    string
	DatacenterCount string
	NetworkCount    string

	GeneratedAt string
}

func (r SummaryRow) Header() []string {
	return []string{
		"Scope", "Endpoint", "Datacenter", "Cluster",
		"HostCount", "VMCount", "ClusterCount", "DatacenterCount",
		"NetworkCount", "GeneratedAt",
	}
}

func (r SummaryRow) Record() []string {
	return []string{
		r.Scope, r.Endpoint, r.Datacenter, r.Cluster,
		r.HostCount, r.VMCount, r.ClusterCount, r.DatacenterCount,
		r.NetworkCount, r.GeneratedAt,
	}
}
