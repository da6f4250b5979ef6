// Package main provides the CLI entry point for sheetlink.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rutishh0/PowerBI/internal/config"
	"github.com/rutishh0/PowerBI/pkg/sheetlink"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/classify"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/loader"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/output"
)

// app holds the flags and state shared by all commands.
type app struct {
	configPath string
	logFormat  string
	pretty     bool

	cfg    *config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := executeContext(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	rootCmd := &cobra.Command{
		Use:   "sheetlink",
		Short: "Parse business workbooks into canonical JSON",
		Long: `sheetlink infers the layout of statement, invoice register, opportunity
tracker, shop-visit and guarantee workbooks, extracts their records and
links identifiers shared between files.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file path (default: $SHEETLINK_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "json", "Log format: json or text")
	rootCmd.PersistentFlags().BoolVar(&a.pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(a.parseCmd(), a.batchCmd(), a.classifyCmd(), a.serveCmd())
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch a.logFormat {
	case "json":
		handler = slog.NewJSONHandler(a.stderr, handlerOpts)
	case "text":
		handler = slog.NewTextHandler(a.stderr, handlerOpts)
	default:
		return fmt.Errorf("invalid log format: %s (must be json or text)", a.logFormat)
	}
	a.cfg = cfg
	a.logger = slog.New(handler)
	slog.SetDefault(a.logger)
	return nil
}

func (a *app) options() sheetlink.Options {
	return a.cfg.ParseOptions(a.logger)
}

func (a *app) parseCmd() *cobra.Command {
	var (
		outputPath string
		format     string
		validate   bool
	)
	cmd := &cobra.Command{
		Use:   "parse [input.xlsx]",
		Short: "Parse one workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			if _, err := os.Stat(inputPath); os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", inputPath)
			}

			res := sheetlink.ParseFile(inputPath, a.options())

			var data []byte
			switch format {
			case "json":
				jsonData, err := output.ToJSON(res, a.pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				if validate {
					if err := output.ValidateResult(jsonData); err != nil {
						return fmt.Errorf("validation failed: %w", err)
					}
				}
				data = jsonData
			case "toon":
				text, err := output.ToTOON(res)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				data = []byte(text)
			default:
				return fmt.Errorf("invalid format: %s (must be json or toon)", format)
			}
			return a.write(outputPath, data)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or toon")
	cmd.Flags().BoolVar(&validate, "validate", false, "Validate JSON output against the result schema")
	return cmd
}

func (a *app) batchCmd() *cobra.Command {
	var (
		outputPath string
		filesDir   string
	)
	cmd := &cobra.Command{
		Use:   "batch [input.xlsx...]",
		Short: "Parse several workbooks and link them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := make([]sheetlink.Source, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				sources = append(sources, sheetlink.Source{Name: filepath.Base(path), Data: data})
			}

			batch := sheetlink.ParseBatch(cmd.Context(), sources, a.options())
			jsonData, err := output.ToJSON(batch, a.pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			if outputPath != "" || filesDir == "" {
				if err := a.write(outputPath, jsonData); err != nil {
					return err
				}
			}
			if filesDir != "" {
				if err := a.writeFileResults(batch, filesDir); err != nil {
					return fmt.Errorf("failed to write file results: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&filesDir, "files-dir", "", "Directory for per-file result files")
	return cmd
}

// writeFileResults writes each file's result to dir as <name>.json.
func (a *app) writeFileResults(batch *models.BatchResult, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, name := range batch.FileOrder {
		jsonData, err := output.ToJSON(batch.Files[name], a.pretty)
		if err != nil {
			return err
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		if err := os.WriteFile(filepath.Join(dir, base+".json"), jsonData, 0644); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [input.xlsx...]",
		Short: "Print the detected file type of each workbook",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.options()
			classifier := classify.New(opts.Thresholds)
			for _, path := range args {
				wb, err := loader.LoadFile(path, loader.Options{
					StreamThresholdBytes: opts.StreamThresholdBytes,
					Logger:               a.logger,
				})
				if err != nil {
					a.logger.Warn("workbook load failed", "file", path, "error", err)
					fmt.Fprintf(a.stdout, "%s\t%s\n", path, models.FileTypeError)
					continue
				}
				decision := classifier.Classify(wb)
				fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", path, decision.Type, formatScores(decision.Scores))
			}
			return nil
		},
	}
}

func formatScores(scores map[models.FileType]int) string {
	parts := make([]string, 0, len(scores))
	for _, ft := range models.KnownFileTypes() {
		parts = append(parts, fmt.Sprintf("%s=%d", ft, scores[ft]))
	}
	return strings.Join(parts, " ")
}

func (a *app) write(outputPath string, data []byte) error {
	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err := fmt.Fprintln(a.stdout, string(data))
	return err
}

// executeContext runs the root command with ctx.
func executeContext(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
