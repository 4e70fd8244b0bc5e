package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type buildInfo struct {
	Version   string
	Module    string
	GitCommit string
	BuildDate string
	Modified  bool
}

// currentBuildInfo prefers the ldflags values and falls back to the VCS
// stamps the Go toolchain embeds for `go build` from a checkout.
func currentBuildInfo(info *debug.BuildInfo, ok bool) buildInfo {
	b := buildInfo{Version: Version, Module: "unknown", GitCommit: GitCommit, BuildDate: BuildDate}
	if !ok || info == nil {
		return b
	}
	b.Module = info.Main.Path
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.GitCommit == "unknown" {
				b.GitCommit = s.Value
			}
		case "vcs.time":
			if b.BuildDate == "unknown" {
				b.BuildDate = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

func newVersionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			b := currentBuildInfo(debug.ReadBuildInfo())
			if short {
				fmt.Fprintln(out, b.Version)
				return
			}
			commit := b.GitCommit
			if b.Modified {
				commit += " (modified)"
			}
			fmt.Fprintf(out, "Pankho Ki Udaan Server %s\n", b.Version)
			fmt.Fprintf(out, "Module:     %s\n", b.Module)
			fmt.Fprintf(out, "Git commit: %s\n", commit)
			fmt.Fprintf(out, "Build date: %s\n", b.BuildDate)
			fmt.Fprintf(out, "Go version: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}
