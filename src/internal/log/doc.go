// Package log provides simple leveled logging for the blocklist tools.
//
// Messages are written with colored level prefixes: DEBUG, INFO, WARN and
// ERROR. DEBUG output is only shown in verbose mode, which is how per-probe
// outcomes of a discovery run are surfaced.
//
// # Example Usage
//
//	log.Infof("Reading seeds from %s", path)
//	log.Warnf("Seed %q is a public suffix, skipping", seed)
//
//	log.SetVerbose(true)
//	log.Debugf("[miss]  %s", host)
//
// Tests and the CLI can redirect output:
//
//	var buf bytes.Buffer
//	log.SetOutput(&buf, &buf)
//	log.SetColors(false)
//
// All functions are safe for concurrent use.
package log
