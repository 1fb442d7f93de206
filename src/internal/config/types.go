package config

import (
	"path/filepath"
	"time"

	"github.com/maksimkurb/blocklist-attest/src/internal/utils"
)

const (
	DefaultConfigFile     = "blocklist.toml"
	DefaultSeedsFile      = "scripts/vendors.txt"
	DefaultBlocklistFile  = "app/src/main/assets/blocklists/manipulation-blocklist.txt"
	DefaultSignatureExt   = ".sig"
	DefaultBackend        = BackendAuto
	DefaultWorkers        = 50
	DefaultTimeoutSeconds = 3.0
	DefaultKeyEnv         = "BLOCKLIST_SIGNING_KEY"
	DefaultEnvFile        = ".env"
	DefaultListenAddr     = "127.0.0.1:8080"
)

const (
	BackendAuto   = "auto"
	BackendDNS    = "dns"
	BackendSystem = "system"
)

type Config struct {
	// Paths locates the seed list, the blocklist and its signature.
	Paths *PathsConfig `toml:"paths"`
	// Discovery tunes DNS probing.
	Discovery *DiscoveryConfig `toml:"discovery"`
	// Signing describes where the Ed25519 seed comes from.
	Signing *SigningConfig `toml:"signing"`
	// Server configures the distribution endpoint.
	Server *ServerConfig `toml:"server"`

	_absConfigFilePath string
}

type PathsConfig struct {
	// SeedsFile lists seed vendor domains, one per line.
	SeedsFile string `toml:"seeds_file" json:"seeds_file" validate:"required"`
	// BlocklistFile is the hosts-style blocklist that discovery merges into.
	BlocklistFile string `toml:"blocklist_file" json:"blocklist_file" validate:"required"`
	// SignatureFile is the detached signature path (default: <blocklist_file>.sig).
	SignatureFile string `toml:"signature_file,omitempty" json:"signature_file,omitempty"`
}

type DiscoveryConfig struct {
	// Backend selects the resolver: auto, dns (precise) or system (fallback).
	Backend string `toml:"backend" json:"backend" validate:"required,oneof=auto dns system"`
	// Nameservers used by the precise backend. Empty means /etc/resolv.conf.
	Nameservers []string `toml:"nameservers" json:"nameservers" validate:"dive,upstream_url"`
	// Workers is the number of concurrent DNS probes.
	Workers int `toml:"workers" json:"workers" validate:"min=1,max=10000"`
	// TimeoutSeconds bounds each individual DNS query.
	TimeoutSeconds float64 `toml:"timeout_seconds" json:"timeout_seconds" validate:"gt=0,lte=120"`
	// MaxQPS limits the probe rate across all workers (0 = unlimited).
	MaxQPS float64 `toml:"max_qps" json:"max_qps" validate:"gte=0"`
	// Prefixes replaces the built-in subdomain prefix list when non-empty.
	Prefixes []string `toml:"prefixes" json:"prefixes" validate:"dive,dns_label"`
	// ExtraPrefixes are appended to the effective prefix list.
	ExtraPrefixes []string `toml:"extra_prefixes" json:"extra_prefixes" validate:"dive,dns_label"`
	// KeepPrevious carries hostnames of an earlier generated section into the refreshed one.
	KeepPrevious bool `toml:"keep_previous" json:"keep_previous"`
}

type SigningConfig struct {
	// KeyEnv names the environment variable holding the base64 32-byte seed.
	KeyEnv string `toml:"key_env" json:"key_env" validate:"required,env_name"`
	// EnvFile is an optional dotenv file consulted when KeyEnv is unset.
	EnvFile string `toml:"env_file" json:"env_file"`
	// PublicKey (base64 or hex) allows verification and serving without the seed.
	PublicKey string `toml:"public_key" json:"public_key"`
}

type ServerConfig struct {
	// ListenAddr is the host:port of the distribution endpoint.
	ListenAddr string `toml:"listen_addr" json:"listen_addr" validate:"required,hostport_or_empty"`
}

// Defaults returns a configuration with every setting at its default value,
// anchored at baseDir for relative paths.
func Defaults(baseDir string) *Config {
	return &Config{
		Paths: &PathsConfig{
			SeedsFile:     DefaultSeedsFile,
			BlocklistFile: DefaultBlocklistFile,
		},
		Discovery: &DiscoveryConfig{
			Backend:        DefaultBackend,
			Workers:        DefaultWorkers,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Signing: &SigningConfig{
			KeyEnv:  DefaultKeyEnv,
			EnvFile: DefaultEnvFile,
		},
		Server: &ServerConfig{
			ListenAddr: DefaultListenAddr,
		},
		_absConfigFilePath: filepath.Join(baseDir, DefaultConfigFile),
	}
}

func (c *Config) GetConfigDir() string {
	return filepath.Dir(c._absConfigFilePath)
}

func (c *Config) GetAbsSeedsFile() string {
	return utils.GetAbsolutePath(c.Paths.SeedsFile, c.GetConfigDir())
}

func (c *Config) GetAbsBlocklistFile() string {
	return utils.GetAbsolutePath(c.Paths.BlocklistFile, c.GetConfigDir())
}

// GetAbsSignatureFile returns the configured signature path or the blocklist
// path with a ".sig" suffix.
func (c *Config) GetAbsSignatureFile() string {
	if c.Paths.SignatureFile != "" {
		return utils.GetAbsolutePath(c.Paths.SignatureFile, c.GetConfigDir())
	}
	return c.GetAbsBlocklistFile() + DefaultSignatureExt
}

func (c *Config) GetAbsEnvFile() string {
	return utils.GetAbsolutePath(c.Signing.EnvFile, c.GetConfigDir())
}

// Timeout returns the per-query DNS timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Discovery.TimeoutSeconds * float64(time.Second))
}
