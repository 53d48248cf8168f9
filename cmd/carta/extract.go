package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/menucarta/carta/internal/extract"
)

var extractShowText bool

var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Extract raw text from menu documents without parsing",
	Long: `Extract text from menu documents and print the extraction result.

Useful for checking what the parser will actually see before spending LLM
calls on a document. Scanned PDFs without a text layer will report no text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))

		results := make([]extract.Result, 0, len(args))
		for _, file := range args {
			res := extract.File(file, logger)
			if !extractShowText {
				res.Text = ""
			}
			results = append(results, res)
		}

		if len(results) == 1 {
			return output(results[0])
		}
		return output(results)
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractShowText, "text", false, "include the full extracted text in the output")

	rootCmd.AddCommand(extractCmd)
}
