package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sensei-learn/backend/internal/content"
	"github.com/spf13/cobra"
)

var importVocabCmd = &cobra.Command{
	Use:   "import-vocab <file.xlsx|file.csv>",
	Short: "Convert a vocabulary spreadsheet into a JSON deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := content.DefaultImportConfig(args[0])
		cfg.SheetName, _ = cmd.Flags().GetString("sheet")
		cfg.StartRow, _ = cmd.Flags().GetInt("start-row")
		cfg.IDPrefix, _ = cmd.Flags().GetString("prefix")

		result, err := content.ImportVocabulary(cfg)
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Words); err != nil {
			return fmt.Errorf("write deck: %w", err)
		}

		summary := cmd.ErrOrStderr()
		fmt.Fprintf(summary, "Processed %d rows: %d imported, %d skipped\n",
			result.TotalProcessed, len(result.Words), result.Skipped)
		for _, e := range result.Errors {
			fmt.Fprintf(summary, "  %s\n", e)
		}
		return nil
	},
}

func init() {
	importVocabCmd.Flags().String("sheet", "", "Sheet name for .xlsx files (default first sheet)")
	importVocabCmd.Flags().Int("start-row", 2, "First data row, 1-based")
	importVocabCmd.Flags().String("prefix", "import", "Prefix for generated word ids")
	importVocabCmd.Flags().String("out", "", "Write the deck here instead of stdout")
}
