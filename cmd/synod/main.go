// cmd/synod/main.go
package main

import (
	cmd "github.com/mwiater/synod/internal/cli"
)

// Build-time variables injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main starts the synod CLI application by delegating to the
// cobra root command defined in the synod package.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
