// Package commands implements CLI command handlers for the blocklist tool.
//
// Each subcommand implements the Runner interface:
//   - Init(): parse arguments and load the configuration
//   - Run(): execute the command
//   - Name(): return the command name for routing
//
// # Available Commands
//
//   - discover: probe vendor subdomains and merge live ones into the blocklist
//   - sign: write a detached Ed25519 signature for the blocklist
//   - verify: check the blocklist against its signature
//   - generate-key: print a new signing seed and public key
//   - serve: publish the blocklist and signature over HTTP
//
// # Example Usage
//
//	cmd := commands.CreateSignCommand()
//	ctx := &commands.AppContext{ConfigPath: "blocklist.toml"}
//	if err := cmd.Init([]string{"-blocklist", "list.txt"}, ctx); err != nil {
//	    return err
//	}
//	return cmd.Run()
//
// Errors returned by Run carry codes from the errors package; the binary
// maps them to exit statuses with errors.ExitCode.
package commands
