package appconfig

import (
	"fmt"
	"io"
	"strings"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, cfg Config) {
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Council Models:  %s\n", strings.Join(cfg.CouncilModels, ", "))
	fmt.Fprintf(out, "  Chairman Model:  %s\n", cfg.ChairmanModel)
	fmt.Fprintf(out, "  Request Timeout: %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Data Dir:        %s\n", cfg.DataDirPath())
	fmt.Fprintf(out, "  Listen Addr:     %s\n", cfg.ListenAddress())
	fmt.Fprintf(out, "  Allowed Origins: %s\n", strings.Join(cfg.Origins(), ", "))
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	if cfg.APIKey() == "" {
		fmt.Fprintln(out, "  API Key:         (not set)")
	} else {
		fmt.Fprintln(out, "  API Key:         (set)")
	}
}
