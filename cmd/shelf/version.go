package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/shelf/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run:   runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "shelf %s\n", version.Version)
	fmt.Fprintf(out, "  commit:  %s\n", version.Commit)
	fmt.Fprintf(out, "  built:   %s\n", version.BuildDate)
	fmt.Fprintf(out, "  go:      %s\n", version.GoVersion)
	fmt.Fprintf(out, "  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
