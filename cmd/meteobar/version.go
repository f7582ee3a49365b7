package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags at build time
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("  %s %s\n", styleTitle.Render("meteobar"), styleTemp.Render(Version))
			fmt.Printf("    %s  %s\n", styleLabel.Render("Commit"), Commit)
			fmt.Printf("    %s   %s\n", styleLabel.Render("Built"), BuildTime)
			fmt.Printf("    %s %s\n", styleLabel.Render("OS/Arch"), runtime.GOOS+"/"+runtime.GOARCH)
			fmt.Printf("    %s      %s\n", styleLabel.Render("Go"), runtime.Version())
		},
	}
}
