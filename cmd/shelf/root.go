package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Bookmark manager service",
	Long: `Shelf keeps a hierarchy of bookmarks and folders in Redis, Badger or memory
and serves it over HTTP as flat lists, trees, menus and search results.

Configuration comes from SHELF_* environment variables.

Examples:
  shelf                                   # Same as "shelf serve"
  shelf serve                             # Run the HTTP service
  shelf import -f chromium ~/Bookmarks    # Import a Chromium bookmarks file
  shelf version                           # Print build metadata`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
