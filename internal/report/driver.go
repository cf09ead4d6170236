package report

import (
	"context"
	"fmt"
	"time"

	"github.com/kubev2v/vsphere-reporter/internal/inventory"
	"go.uber.org/zap"
)

const (
	ReportVMInfo      = "vm-info"
	ReportVMNetwork   = "vm-network"
	ReportHostInfo    = "host-info"
	ReportHostNetwork = "host-network"
	ReportSummary     = "summary"
)

// AllReports lists every report kind in generation order.
var AllReports = []string{
	ReportVMInfo,
	ReportVMNetwork,
	ReportHostInfo,
	ReportHostNetwork,
	ReportSummary,
}

// Driver runs report generation for one endpoint. Each report gets its own
// Walker, so each report carries its own generation timestamp; one report
// failing is logged and does not stop the remaining reports.
type Driver struct {
	outputDir string
}

func NewDriver(outputDir string) *Driver {
	return &Driver{outputDir: outputDir}
}

// Generate runs the named reports against the endpoint and returns how many
// failed. Already-written sibling reports are unaffected by later failures;
// a failed report is simply not written.
func (d *Driver) Generate(ctx context.Context, ep inventory.Endpoint, reports []string) int {
	log := zap.S().Named("report")
	failed := 0
	for _, name := range reports {
		start := time.Now()
		if err := d.generateOne(ctx, ep, name); err != nil {
			failed++
			log.Errorf("report %s for %s failed: %v", name, ep.Name(), err)
			continue
		}
		log.Infof("report %s for %s written in %s", name, ep.Name(), time.Since(start).Round(time.Millisecond))
	}
	return failed
}

func (d *Driver) generateOne(ctx context.Context, ep inventory.Endpoint, name string) error {
	walker := inventory.NewWalker()

	var (
		path string
		err  error
	)
	switch name {
	case ReportVMInfo:
		var rows []inventory.VMRow
		if rows, err = walker.CollectVMRows(ctx, ep); err == nil {
			path, err = WriteCSV(d.outputDir, fileName(ep.Name(), name), rows)
		}
	case ReportVMNetwork:
		var rows []inventory.GuestAdapterRow
		if rows, err = walker.CollectGuestAdapterRows(ctx, ep); err == nil {
			path, err = WriteCSV(d.outputDir, fileName(ep.Name(), name), rows)
		}
	case ReportHostInfo:
		var rows []inventory.HostRow
		if rows, err = walker.CollectHostRows(ctx, ep); err == nil {
			path, err = WriteCSV(d.outputDir, fileName(ep.Name(), name), rows)
		}
	case ReportHostNetwork:
		var rows []inventory.NetworkAdapterRow
		if rows, err = walker.CollectHostNetworkRows(ctx, ep); err == nil {
			path, err = WriteCSV(d.outputDir, fileName(ep.Name(), name), rows)
		}
	case ReportSummary:
		var rows []inventory.SummaryRow
		if rows, err = walker.CollectClusterSummary(ctx, ep); err == nil {
			path, err = WriteCSV(d.outputDir, fileName(ep.Name(), name), rows)
		}
	default:
		return fmt.Errorf("unknown report %q", name)
	}
	if err != nil {
		return err
	}

	diag := walker.Diagnostics()
	if diag.SkippedLeaves > 0 || diag.AmbiguousMatches > 0 {
		zap.S().Named("report").Warnf("report %s: %d entities skipped, %d ambiguous correlations",
			path, diag.SkippedLeaves, diag.AmbiguousMatches)
	}
	return nil
}

func fileName(endpoint, report string) string {
	return endpoint + "_" + report
}
