package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/kubev2v/vsphere-reporter/internal/util"
	"sigs.k8s.io/yaml"
)

const (
	// DefaultQueryTimeout bounds one full report run against one endpoint.
	DefaultQueryTimeout = 10 * time.Minute
)

type Config struct {
	OutputDir string `envconfig:"VSPHERE_REPORTER_OUTPUT_DIR" default:"."`
	LogLevel  string `envconfig:"VSPHERE_REPORTER_LOG_LEVEL" default:"info"`
	Insecure  bool   `envconfig:"VSPHERE_REPORTER_INSECURE" default:"true"`

	QueryTimeout util.Duration

	Endpoints []EndpointConfig
}

// EndpointConfig identifies one management server to connect to.
type EndpointConfig struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	Insecure *bool  `json:"insecure,omitempty"`
}

func (e *EndpointConfig) Validate() error {
	if e.URL == "" {
		return fmt.Errorf("endpoint %q: url is required", e.Name)
	}
	if e.Username == "" || e.Password == "" {
		return fmt.Errorf("endpoint %q: username and password are required", e.Name)
	}
	return nil
}

func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	cfg.QueryTimeout = util.Duration{Duration: DefaultQueryTimeout}
	return cfg, nil
}

// ParseEndpointsFile reads a YAML list of endpoint definitions and appends
// them to the config.
func (cfg *Config) ParseEndpointsFile(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read endpoints file: %w", err)
	}
	endpoints := []EndpointConfig{}
	if err := yaml.Unmarshal(contents, &endpoints); err != nil {
		return fmt.Errorf("failed to unmarshal endpoints file: %w", err)
	}
	for i := range endpoints {
		if err := endpoints[i].Validate(); err != nil {
			return err
		}
	}
	cfg.Endpoints = append(cfg.Endpoints, endpoints...)
	return nil
}
