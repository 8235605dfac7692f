package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/excel-viewer/internal/config"
	"alfredoptarigan/excel-viewer/internal/models"
	"alfredoptarigan/excel-viewer/internal/services"
)

var (
	filters map[string]string
	search  string
	summary bool
)

// Reads a workbook the same way the server does and prints the filtered
// rows as JSON, so a spreadsheet can be checked without uploading it.
var rootCmd = &cobra.Command{
	Use:   "inspect-sheet <workbook.xlsx>",
	Short: "Extract and filter the first worksheet of a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer zap.L().Sync() //nolint:errcheck

		dataset, err := services.NewSheetExtractor().ExtractFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		rowFilter := services.NewRowFilter(cfg.Filter.Fields, cfg.Filter.SearchColumn)
		result := rowFilter.Apply(*dataset, models.FilterCriteria{
			Exact:  filters,
			Search: search,
		})

		var out any = models.ViewResponse{
			Headers: dataset.Headers,
			Rows:    result.Rows,
		}
		if summary {
			out = map[string]any{
				"headers":  dataset.Headers,
				"total":    len(dataset.Rows),
				"matched":  len(result.Rows),
				"distinct": result.Distinct,
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.Flags().StringToStringVarP(&filters, "filter", "f", nil, "exact-match filter, e.g. -f Country=US")
	rootCmd.Flags().StringVarP(&search, "search", "s", "", "comma or newline separated search terms")
	rootCmd.Flags().BoolVar(&summary, "summary", false, "print counts and distinct values instead of rows")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
