// Package utils provides small helpers shared across the blocklist tools:
// hostname normalization and validation, hosts-file line handling, path
// resolution and atomic file writes.
//
//	host := utils.HostnameField("0.0.0.0 CDN.Example.com") // "cdn.example.com"
//	if utils.IsDNSName(host) { ... }
//
//	path := utils.GetAbsolutePath("scripts/vendors.txt", configDir)
//	err := utils.WriteFileAtomic(path, data, 0644)
package utils
