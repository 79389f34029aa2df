package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/citruscounter/citruscounter/internal/config"
	"github.com/citruscounter/citruscounter/internal/counting"
	"github.com/citruscounter/citruscounter/internal/imageset"
	"github.com/citruscounter/citruscounter/internal/model"
	"github.com/citruscounter/citruscounter/internal/report"
	"github.com/citruscounter/citruscounter/internal/session"
	"github.com/citruscounter/citruscounter/internal/store"
)

// NewCountCmd creates the count command.
func NewCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count <image1> <image2> <image3> <image4>",
		Short: "Submit four tree photographs and build a yield report",
		Long: `Count submits four photographs of citrus trees to the remote counting
service and builds a yield report from the result.

All four images are required; the service was trained on four views of a
tree and rejects anything else. The per-acre estimate is the latest count
multiplied by the farm's total tree count, so record your farm details
first with 'citruscounter farm' (or pass --total-trees).

Examples:
  # Submit four photographs and print the report
  citruscounter count north.jpg east.jpg south.jpg west.jpg

  # Provide farm details inline
  citruscounter count --land-size 5 --total-trees 20 *.jpg

  # Output the report as JSON
  citruscounter count --json north.jpg east.jpg south.jpg west.jpg

  # Render a printable HTML document as well
  citruscounter count --html north.jpg east.jpg south.jpg west.jpg`,
		Args: cobra.ExactArgs(model.SubmissionImageCount),
		RunE: runCountCmd,
	}

	// Farm metadata flags
	cmd.Flags().IntP("land-size", "l", 0,
		"Farm land size in acres (stored for future runs)")
	cmd.Flags().IntP("total-trees", "t", 0,
		"Total citrus trees on the farm (stored for future runs)")

	// Service flags
	cmd.Flags().StringP("endpoint", "e", "",
		"Counting service base URL (default: production service)")
	cmd.Flags().DurationP("timeout", "T", config.DefaultTimeout,
		"Timeout for the image upload request")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .citruscounter in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("html", false,
		"Also render a printable HTML document into the data directory")
	cmd.Flags().Bool("remote-report", false,
		"Also register the report with the counting service")

	// Image inspection
	cmd.Flags().Bool("skip-exif", false,
		"Skip capture-metadata inspection of the selected images")

	return cmd
}

// runCountCmd executes the count command.
func runCountCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	db, err := store.Open(cfg.DataDir, store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer db.Close()

	return runCount(ctx, cmd, cfg, db, args, logger)
}

// runCount drives a full counting session.
func runCount(ctx context.Context, cmd *cobra.Command, cfg *config.Config, db *store.Store, args []string, logger *slog.Logger) error {
	identity, err := db.Identity(ctx)
	if err != nil {
		return err
	}

	farm, err := resolveFarmMetadata(ctx, cmd, cfg, db)
	if err != nil {
		return err
	}

	client := counting.NewClient(cfg.Endpoint,
		counting.WithTimeout(cfg.Timeout),
		counting.WithUserAgent(cfg.UserAgent),
		counting.WithLogger(logger),
	)

	sess := session.NewOrchestrator(identity, client, session.WithLogger(logger))
	if farm != nil {
		if err := sess.SupplyMetadata(*farm); err != nil {
			return err
		}
	}

	if err := collectImages(ctx, sess, args, cfg.MaxImageSize); err != nil {
		return err
	}

	if !cfg.SkipEXIF {
		warnOnCaptureMetadata(ctx, cmd, sess, cfg.MaxImageSize, logger)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Submitting %d images for counting...\n", model.SubmissionImageCount)
	startTime := time.Now()

	result, err := sess.Submit(ctx)
	if err != nil {
		return describeSubmitError(err)
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(cmd.OutOrStdout(), "Counting completed in %s\n\n", elapsed.Round(time.Millisecond))

	rep, err := sess.BuildReport()
	if err != nil {
		if errors.Is(err, report.ErrIncompleteData) {
			return fmt.Errorf("%w (record your farm details with 'citruscounter farm --total-trees N' or pass --total-trees)", err)
		}
		return err
	}

	// Persist the outcome so 'history' works offline. Failures here are
	// logged, not fatal: the user already has the result.
	if err := db.SaveLastCount(ctx, result.LatestCount); err != nil {
		logger.Error("failed to save latest count", "error", err)
	}
	if err := db.AppendCounts(ctx, rep.History); err != nil {
		logger.Error("failed to save counting history", "error", err)
	}

	if err := outputReport(cfg, cmd, rep); err != nil {
		return err
	}

	if htmlFlag, _ := cmd.Flags().GetBool("html"); htmlFlag {
		renderer := report.NewHTMLRenderer(&report.FileRenderer{
			Dir:  filepath.Join(cfg.DataDir, "reports"),
			Name: "report-" + rep.DateString(),
		})
		uri, err := renderer.Render(ctx, rep)
		if err != nil {
			return fmt.Errorf("failed to render HTML report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "HTML report: %s\n", uri)
	}

	if remote, _ := cmd.Flags().GetBool("remote-report"); remote {
		if err := client.GenerateReport(ctx, rep); err != nil {
			return fmt.Errorf("failed to register report with the service: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Report registered with the counting service.")
	}

	return nil
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	endpoint, err := cmd.Flags().GetString("endpoint")
	if err != nil {
		return nil, err
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load persistent defaults from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file exists.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.File.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	if cfg.JSONReport && cfg.MarkdownReport {
		return nil, errors.New("--json and --markdown are mutually exclusive")
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.SkipEXIF, err = cmd.Flags().GetBool("skip-exif")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveFarmMetadata determines the farm details for this run.
// Precedence: explicit flags > local store > config file defaults.
// Flag-provided values are stored for future runs.
func resolveFarmMetadata(ctx context.Context, cmd *cobra.Command, cfg *config.Config, db *store.Store) (*model.FarmMetadata, error) {
	landSize, err := cmd.Flags().GetInt("land-size")
	if err != nil {
		return nil, err
	}
	totalTrees, err := cmd.Flags().GetInt("total-trees")
	if err != nil {
		return nil, err
	}

	if landSize > 0 || totalTrees > 0 {
		// Merge partial flags with stored values so --total-trees alone
		// doesn't wipe a previously recorded land size.
		md, err := db.FarmMetadata(ctx)
		if err != nil && !errors.Is(err, store.ErrNoFarmMetadata) {
			return nil, err
		}
		if landSize > 0 {
			md.LandSizeAcres = landSize
		}
		if totalTrees > 0 {
			md.TotalTrees = totalTrees
		}
		if err := md.Validate(); err != nil {
			return nil, err
		}
		if err := db.SaveFarmMetadata(ctx, md); err != nil {
			return nil, fmt.Errorf("failed to save farm metadata: %w", err)
		}
		return &md, nil
	}

	md, err := db.FarmMetadata(ctx)
	if err == nil {
		return &md, nil
	}
	if !errors.Is(err, store.ErrNoFarmMetadata) {
		return nil, err
	}

	if cfg.File != nil && cfg.File.Farm.TotalTrees > 0 {
		md = model.FarmMetadata{
			LandSizeAcres: cfg.File.Farm.LandSizeAcres,
			TotalTrees:    cfg.File.Farm.TotalTrees,
		}
		if err := md.Validate(); err != nil {
			return nil, err
		}
		return &md, nil
	}

	// No metadata anywhere. The session can still submit; the report will
	// fail with advice on how to record the details.
	return nil, nil
}

// collectImages picks each image path through the file picker and places it
// into the session's slots.
func collectImages(ctx context.Context, sess *session.Orchestrator, args []string, maxSize int64) error {
	picker := imageset.NewFilePicker(args, maxSize)
	for i := range model.SubmissionImageCount {
		ref, err := picker.PickImage(ctx, imageset.SourceGallery)
		if err != nil {
			return fmt.Errorf("image %d: %w", i+1, err)
		}
		if err := sess.SetImage(i, ref); err != nil {
			return err
		}
	}
	return nil
}

// warnOnCaptureMetadata inspects the selected images and warns about
// anything that suggests they are not fresh field photographs. The
// inspection is advisory; it never blocks the submission.
func warnOnCaptureMetadata(ctx context.Context, cmd *cobra.Command, sess *session.Orchestrator, maxSize int64, logger *slog.Logger) {
	inspector := imageset.NewInspector(maxSize)
	manager := imageset.NewManager()
	for i, slot := range sess.Images() {
		if slot.Filled() {
			_ = manager.SetSlot(i, slot.Ref)
		}
	}

	infos, err := inspector.Inspect(ctx, manager)
	if err != nil {
		logger.Warn("image inspection failed", "error", err)
		return
	}
	emitCaptureWarnings(cmd.ErrOrStderr(), infos, time.Now(), logger)
}

// staleCaptureAge is how old a photo can be before the CLI flags it as a
// questionable input for a fresh count.
const staleCaptureAge = 30 * 24 * time.Hour

// emitCaptureWarnings writes one line per suspicious image to w.
func emitCaptureWarnings(w io.Writer, infos []imageset.CaptureInfo, now time.Time, logger *slog.Logger) {
	for _, info := range infos {
		if !info.HasEXIF {
			fmt.Fprintf(w, "Warning: %s has no capture metadata (screenshot or edited image?)\n", filepath.Base(info.Ref))
			continue
		}
		if info.HasGPS {
			logger.Debug("image carries GPS coordinates", "image", filepath.Base(info.Ref))
		}
		if !info.CaptureTime.IsZero() && now.Sub(info.CaptureTime) > staleCaptureAge {
			fmt.Fprintf(w, "Warning: %s was taken on %s; older photos skew the estimate\n",
				filepath.Base(info.Ref), info.CaptureTime.Format(model.ReportDateLayout))
		}
	}
}

// describeSubmitError augments submission failures with actionable advice.
func describeSubmitError(err error) error {
	var incomplete *session.IncompleteImageSetError
	if errors.As(err, &incomplete) {
		return fmt.Errorf("%w (the counting service requires exactly %d images)", err, model.SubmissionImageCount)
	}

	var netErr *counting.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w (check your connection and try again; the images are unchanged)", err)
	}

	return err
}

// outputReport writes the report in the requested format to the requested
// destination.
func outputReport(cfg *config.Config, cmd *cobra.Command, rep *model.Report) error {
	var output io.Writer = cmd.OutOrStdout()
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports name the farmer, so keep them owner-readable only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output)
	}

	_, err := w.Write(rep)
	return err
}
