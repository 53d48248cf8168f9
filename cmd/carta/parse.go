package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/menucarta/carta/internal/config"
	"github.com/menucarta/carta/internal/export"
	"github.com/menucarta/carta/internal/extract"
	"github.com/menucarta/carta/internal/home"
	"github.com/menucarta/carta/internal/menu"
	"github.com/menucarta/carta/internal/parser"
	"github.com/menucarta/carta/internal/providers"
)

var parseRestaurant string

// parseReport is the per-document result printed after a parse run.
type parseReport struct {
	SourceFile string       `json:"source_file" yaml:"source_file"`
	Restaurant string       `json:"restaurant" yaml:"restaurant"`
	Method     string       `json:"extraction_method" yaml:"extraction_method"`
	Confidence float64      `json:"extraction_confidence" yaml:"extraction_confidence"`
	Summary    menu.Summary `json:"summary" yaml:"summary"`
	Exports    []string     `json:"exports,omitempty" yaml:"exports,omitempty"`
	Error      string       `json:"error,omitempty" yaml:"error,omitempty"`
}

var parseCmd = &cobra.Command{
	Use:   "parse <file|dir>...",
	Short: "Parse menu documents into structured data",
	Long: `Parse one or more menu documents (PDF, txt, md) into structured menu data.

Directories are scanned non-recursively for supported files. Each document is
extracted, normalized, chunked and sent through structured extraction; the
validated items are exported to the home output directory in the formats
configured under export.formats.

Examples:
  carta parse menu.pdf
  carta parse --restaurant "Blue Door Cafe" menus/
  carta parse -o json dinner.txt lunch.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		recorder := providers.NewResponseRecorder(h.LastResponsePath(), logger)
		client, err := providers.NewAzureOpenAIClient(cfg.ToProviderConfig(), recorder, logger)
		if err != nil {
			return err
		}
		p := parser.New(client, cfg.Parser.MaxChunkChars, logger)

		files, err := collectFiles(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no supported files found (looking for %s)",
				strings.Join(extract.SupportedExtensions, ", "))
		}

		reports := make([]parseReport, 0, len(files))
		for _, file := range files {
			report, err := parseOne(ctx, p, h, cfg, logger, file)
			if err != nil {
				if ctx.Err() != nil {
					return err
				}
				// One bad document never aborts the batch
				logger.Warn("document failed", "file", file, "error", err)
				report.Error = err.Error()
			}
			reports = append(reports, report)
		}

		if len(reports) == 1 {
			return output(reports[0])
		}
		return output(reports)
	},
}

// parseOne runs the pipeline for a single document. The only error returned
// is context cancellation or an export write failure; extraction problems are
// reported in the parseReport.
func parseOne(ctx context.Context, p *parser.Parser, h *home.Dir, cfg *config.Config, logger *slog.Logger, file string) (parseReport, error) {
	res := extract.File(file, logger)
	restaurant := parseRestaurant
	if restaurant == "" {
		restaurant = restaurantFromFile(file)
	}

	report := parseReport{
		SourceFile: res.SourceFile,
		Restaurant: restaurant,
		Method:     res.Method,
	}
	if !res.Success {
		report.Error = res.Error
		return report, nil
	}

	data, err := p.ParseMenu(ctx, parser.Request{
		Text:           res.Text,
		RestaurantName: restaurant,
		SourceFile:     res.SourceFile,
		Method:         res.Method,
	})
	if err != nil {
		return report, err
	}

	report.Confidence = data.ExtractionConfidence
	report.Summary = data.Summarize()

	stem := strings.TrimSuffix(res.SourceFile, filepath.Ext(res.SourceFile))
	outDir := cfg.Export.OutputDir
	if outDir == "" {
		outDir = h.OutputPath()
	} else if err := os.MkdirAll(outDir, 0o755); err != nil {
		return report, err
	}
	for _, format := range cfg.Export.Formats {
		path, err := writeExport(data, outDir, stem, format)
		if err != nil {
			return report, err
		}
		report.Exports = append(report.Exports, path)
	}

	return report, nil
}

func writeExport(data *menu.MenuData, outDir, stem, format string) (string, error) {
	format = strings.ToLower(format)
	path := filepath.Join(outDir, fmt.Sprintf("%s.%s", stem, format))
	switch format {
	case "csv":
		return path, export.CSV(data, path)
	case "xlsx":
		return path, export.XLSX(data, path)
	default:
		return "", fmt.Errorf("unknown export format: %s", format)
	}
}

// collectFiles expands args into a list of supported files. Directories are
// scanned one level deep.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if extract.Supported(arg) {
				files = append(files, arg)
			}
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(arg, entry.Name())
			if extract.Supported(path) {
				files = append(files, path)
			}
		}
	}
	return files, nil
}

// restaurantFromFile derives a readable restaurant name from the file name:
// "blue_door-cafe.pdf" becomes "Blue Door Cafe".
func restaurantFromFile(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	words := strings.Fields(stem)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	if len(words) == 0 {
		return "Unknown"
	}
	return strings.Join(words, " ")
}

func init() {
	parseCmd.Flags().StringVar(&parseRestaurant, "restaurant", "", "restaurant name (default: derived from file name)")

	rootCmd.AddCommand(parseCmd)
}
