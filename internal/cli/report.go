package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/kubev2v/vsphere-reporter/internal/config"
	"github.com/kubev2v/vsphere-reporter/internal/report"
	"github.com/kubev2v/vsphere-reporter/internal/vsphere"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type ReportOptions struct {
	endpointsFilePath string
	url               string
	username          string
	password          string
	reports           []string
	config            *config.Config
}

func NewReportOptions(cfg *config.Config) *ReportOptions {
	return &ReportOptions{
		config:  cfg,
		reports: report.AllReports,
	}
}

func NewCmdReport(cfg *config.Config) *cobra.Command {
	o := NewReportOptions(cfg)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate inventory CSV reports from connected vCenter endpoints",
		Example: "vsphere-reporter report " +
			"--url https://vcenter.example.com/sdk " +
			"--username administrator@vsphere.local " +
			"--password secret " +
			"--output-dir ./reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *ReportOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.endpointsFilePath, "endpoints-file", "", "YAML file listing the endpoints to query")
	fs.StringVar(&o.url, "url", "", "vsphere url")
	fs.StringVarP(&o.username, "username", "u", "", "vsphere username")
	fs.StringVarP(&o.password, "password", "p", "", "vsphere password")
	fs.StringVar(&o.config.OutputDir, "output-dir", o.config.OutputDir, "directory where the CSV reports are written")
	fs.StringSliceVar(&o.reports, "reports", o.reports, "report kinds to generate")
	fs.DurationVar(&o.config.QueryTimeout.Duration, "timeout", o.config.QueryTimeout.Duration, "per-endpoint deadline for one full report run")
	fs.BoolVar(&o.config.Insecure, "insecure", o.config.Insecure, "skip TLS certificate verification")
}

// Run processes every configured endpoint to completion independently: a
// failure connecting to or walking one endpoint never aborts its siblings.
func (o *ReportOptions) Run(ctx context.Context, args []string) error {
	log := zap.S().Named("cli")

	if err := o.gatherEndpoints(); err != nil {
		return err
	}
	if err := os.MkdirAll(o.config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	runID := uuid.New().String()
	log.Infof("run %s: %d endpoint(s), reports %v", runID, len(o.config.Endpoints), o.reports)

	driver := report.NewDriver(o.config.OutputDir)
	failedEndpoints := 0
	for _, epCfg := range o.config.Endpoints {
		if err := o.runEndpoint(ctx, driver, epCfg); err != nil {
			failedEndpoints++
			log.Errorf("endpoint %s failed: %v", epCfg.Name, err)
		}
	}

	if failedEndpoints == len(o.config.Endpoints) {
		return fmt.Errorf("all %d endpoint(s) failed", failedEndpoints)
	}
	log.Infof("run %s finished, output in %s", runID, o.config.OutputDir)
	return nil
}

func (o *ReportOptions) runEndpoint(ctx context.Context, driver *report.Driver, epCfg config.EndpointConfig) error {
	ctx, cancel := context.WithTimeout(ctx, o.config.QueryTimeout.Duration)
	defer cancel()

	ep, err := vsphere.Connect(ctx, epCfg, o.config.Insecure)
	if err != nil {
		return err
	}
	defer ep.Close(ctx)

	if failed := driver.Generate(ctx, ep, o.reports); failed > 0 {
		zap.S().Named("cli").Warnf("endpoint %s: %d report(s) failed", ep.Name(), failed)
	}
	return nil
}

func (o *ReportOptions) gatherEndpoints() error {
	if o.endpointsFilePath != "" {
		if err := o.config.ParseEndpointsFile(o.endpointsFilePath); err != nil {
			return err
		}
	}

	hasURL := len(o.url) > 0
	hasUser := len(o.username) > 0
	hasPass := len(o.password) > 0
	if hasURL || hasUser || hasPass {
		if !(hasURL && hasUser && hasPass) {
			return fmt.Errorf("incomplete credentials: url, username and password must all be set")
		}
		o.config.Endpoints = append(o.config.Endpoints, config.EndpointConfig{
			URL:      o.url,
			Username: o.username,
			Password: o.password,
		})
	}

	if len(o.config.Endpoints) == 0 {
		return fmt.Errorf("no endpoints configured: pass --endpoints-file or --url/--username/--password")
	}
	return nil
}
