// Package config handles configuration file parsing and validation.
//
// The configuration is an optional TOML file (blocklist.toml by default). It
// locates the seed list, the blocklist and its signature, tunes DNS discovery
// and names the environment variable that carries the signing seed. Relative
// paths are resolved against the directory of the configuration file.
//
// # Example
//
//	[paths]
//	seeds_file     = "scripts/vendors.txt"
//	blocklist_file = "app/src/main/assets/blocklists/manipulation-blocklist.txt"
//
//	[discovery]
//	backend         = "auto"
//	nameservers     = ["udp://1.1.1.1:53"]
//	workers         = 50
//	timeout_seconds = 3
//
// Loading:
//
//	cfg, err := config.LoadConfig("blocklist.toml", false)
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    log.Fatalf("%v", err)
//	}
//
// The returned *Config is passed explicitly to every component; nothing in
// the application reads configuration from package-level state.
package config
