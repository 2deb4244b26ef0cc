package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

const envPrefix = "APPROVALS_"

type Config struct {
	Temporal Temporal `yaml:"temporal"`
	Chain    Chain    `yaml:"chain"`
	API      API      `yaml:"api"`
	LogLevel string   `yaml:"logLevel"`
}

type Temporal struct {
	HostPort  string `yaml:"hostPort"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"taskQueue"`
}

type Chain struct {
	RPCURL string `yaml:"rpcUrl"`
	// CanonicalOperator is accepted as a single-token ERC721 approval.
	// Empty means Seaport 1.5.
	CanonicalOperator string `yaml:"canonicalOperator"`
}

type API struct {
	Listen string `yaml:"listen"`
}

func Default() Config {
	return Config{
		Temporal: Temporal{
			HostPort:  "localhost:7233",
			Namespace: "default",
			TaskQueue: "APPROVAL_TASK_QUEUE",
		},
		Chain:    Chain{RPCURL: "http://localhost:8545"},
		API:      API{Listen: ":8090"},
		LogLevel: "info",
	}
}

// Load reads path (optional, "" skips the file), then applies APPROVALS_*
// environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	override(&cfg.Temporal.HostPort, "TEMPORAL_HOSTPORT")
	override(&cfg.Temporal.Namespace, "TEMPORAL_NAMESPACE")
	override(&cfg.Temporal.TaskQueue, "TASK_QUEUE")
	override(&cfg.Chain.RPCURL, "RPC_URL")
	override(&cfg.Chain.CanonicalOperator, "CANONICAL_OPERATOR")
	override(&cfg.API.Listen, "LISTEN")
	override(&cfg.LogLevel, "LOG_LEVEL")

	return cfg, cfg.Validate()
}

func override(dst *string, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		*dst = v
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Temporal.HostPort == "" {
		errs = append(errs, errors.New("temporal.hostPort is required"))
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, errors.New("temporal.taskQueue is required"))
	}
	if op := c.Chain.CanonicalOperator; op != "" && !common.IsHexAddress(op) {
		errs = append(errs, fmt.Errorf("chain.canonicalOperator %q is not an address", op))
	}
	return errors.Join(errs...)
}
