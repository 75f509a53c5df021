package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mend/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show mend build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			full, _ := cmd.Flags().GetBool("full")
			jsonOut, _ := cmd.Root().PersistentFlags().GetBool("json")
			colorMode, _ := cmd.Root().PersistentFlags().GetString("color")
			useColor, err := colorEnabled(colorMode, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			p := collectVersion(full)
			if jsonOut {
				return encodeJSON(cmd.OutOrStdout(), p)
			}
			renderVersion(cmd.OutOrStdout(), p, full, useColor)
			return nil
		},
	}
	cmd.Flags().Bool("full", false, "include commit and build date")
	return cmd
}

func collectVersion(full bool) versionPayload {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	p := versionPayload{Tool: "mend", Version: v}
	if full {
		p.GitCommit = valueOrUnknown(strings.TrimSpace(version.GitCommit))
		p.BuildDate = valueOrUnknown(strings.TrimSpace(version.BuildDate))
	}
	return p
}

func renderVersion(out io.Writer, p versionPayload, full, useColor bool) {
	v := p.Version
	if useColor {
		v = version.Colored(v)
	}
	fmt.Fprintf(out, "mend %s\n", v)
	if full {
		fmt.Fprintf(out, "commit: %s\n", p.GitCommit)
		fmt.Fprintf(out, "built:  %s\n", p.BuildDate)
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
