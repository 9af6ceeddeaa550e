package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/abhisek/adaptiq/internal/question"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("adaptiq", currentVersion())
		fmt.Println("bank format", question.FormatVersion)
	},
}

// currentVersion prefers the ldflags version, then the module version
// recorded by go install, and reports (devel) for anything else.
func currentVersion() string {
	if semver.IsValid(version) {
		return semver.Canonical(version)
	}
	if info, ok := debug.ReadBuildInfo(); ok && semver.IsValid(info.Main.Version) {
		return info.Main.Version
	}
	return "(devel)"
}
