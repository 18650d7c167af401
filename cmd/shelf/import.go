package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/shelf/internal/app"
	"github.com/MrSnakeDoc/shelf/internal/sources"
)

var (
	importFormat string
	importJSON   bool
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a bookmarks file into the store",
	Long: fmt.Sprintf(`Parses FILE and adds its folders and bookmarks to the configured store.
Bookmarks whose URL is already stored are counted as duplicates and skipped.

Formats: %s`, strings.Join(sources.Formats(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importFormat, "format", "f", sources.FormatHomepage, "input format")
	importCmd.Flags().BoolVarP(&importJSON, "json", "j", false, "print the result as JSON")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := app.New(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Import(cmd.Context(), importFormat, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if importJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintln(out, res.String())
	for _, e := range res.Errors {
		fmt.Fprintf(out, "  %s\n", e)
	}
	return nil
}
