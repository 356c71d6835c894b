// structdxf imports an annotated DXF drawing into a structural model.
//
// Lines in the drawing become members; text next to a line or a node
// carries the command that sets its properties, supports or loads:
//
//	structdxf -config configs/structdxf.yaml -name portal frame.dxf
//
// Stored models are listed with -list and removed with -delete <id>.
//
// The model is stored in SQLite and, when enabled, the import is announced
// over MQTT and its statistics written to InfluxDB.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "github.com/nerrad567/structdxf/migrations"

	"github.com/nerrad567/structdxf/internal/dxfimport"
	"github.com/nerrad567/structdxf/internal/infrastructure/config"
	"github.com/nerrad567/structdxf/internal/infrastructure/database"
	"github.com/nerrad567/structdxf/internal/infrastructure/influxdb"
	"github.com/nerrad567/structdxf/internal/infrastructure/logging"
	"github.com/nerrad567/structdxf/internal/infrastructure/mqtt"
	"github.com/nerrad567/structdxf/internal/structure"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage is returned for bad command-line arguments.
var errUsage = errors.New("usage: structdxf [flags] <drawing.dxf> | -list | -delete <id>")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options are the parsed command-line flags.
type options struct {
	configPath string
	envFile    string
	name       string
	jsonOut    bool
	version    bool
	list       bool
	deleteID   int64
	drawing    string
}

func parseFlags(args []string) (options, error) {
	var o options

	fs := flag.NewFlagSet("structdxf", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.configPath, "config", os.Getenv("STRUCTDXF_CONFIG"), "path to YAML configuration (defaults only when empty)")
	fs.StringVar(&o.envFile, "env", ".env", "dotenv file loaded before the configuration")
	fs.StringVar(&o.name, "name", "", "model name (defaults to the drawing file name)")
	fs.BoolVar(&o.jsonOut, "json", false, "print the import report as JSON")
	fs.BoolVar(&o.version, "version", false, "print version and exit")
	fs.BoolVar(&o.list, "list", false, "list stored models and exit")
	fs.Int64Var(&o.deleteID, "delete", 0, "delete the stored model with this record ID and exit")

	if err := fs.Parse(args); err != nil {
		return o, fmt.Errorf("%w: %w", errUsage, err)
	}
	if o.version {
		return o, nil
	}
	if o.list || o.deleteID != 0 {
		if fs.NArg() != 0 || (o.list && o.deleteID != 0) || o.deleteID < 0 {
			return o, errUsage
		}
		return o, nil
	}
	if fs.NArg() != 1 {
		return o, errUsage
	}
	o.drawing = fs.Arg(0)
	if o.name == "" {
		o.name = strings.TrimSuffix(filepath.Base(o.drawing), filepath.Ext(o.drawing))
	}
	return o, nil
}

// report is what the command prints after an import.
type report struct {
	Model    string            `json:"model"`
	RecordID int64             `json:"record_id,omitempty"`
	Summary  structure.Summary `json:"summary"`
	Result   *dxfimport.Result `json:"result"`
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	if opts.version {
		fmt.Fprintf(stdout, "structdxf %s (%s, %s)\n", version, commit, date)
		return nil
	}

	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version)
	log.Info("starting import",
		"drawing", opts.drawing,
		"model", opts.name,
		"version", version,
	)

	if opts.list || opts.deleteID != 0 {
		return manage(ctx, cfg.Database, opts, stdout)
	}

	model := structure.NewModel()
	importer := dxfimport.NewImporter(dxfimport.Options{ThresholdFactor: cfg.Import.ThresholdFactor})
	importer.SetLogger(log.With("component", "dxfimport"))

	start := time.Now()
	res, importErr := importer.Import(opts.drawing, model)
	elapsed := time.Since(start)

	rep := report{Model: opts.name, Summary: model.Summary(), Result: res}

	if importErr == nil && cfg.Import.Persist {
		rep.RecordID, err = persist(ctx, cfg.Database, &structure.Record{
			Name:         opts.name,
			SourceFile:   res.SourceFile,
			ImportID:     res.ImportID,
			WarningCount: len(res.Warnings),
			Model:        model,
		})
		if err != nil {
			return err
		}
		log.Info("model saved", "record_id", rep.RecordID, "path", cfg.Database.Path)
	}

	notify(cfg, log, rep, importErr, elapsed)

	if importErr != nil {
		return fmt.Errorf("importing %s: %w", opts.drawing, importErr)
	}

	log.Info("import complete",
		"import_id", res.ImportID,
		"nodes", rep.Summary.Nodes,
		"elements", rep.Summary.Elements,
		"warnings", len(res.Warnings),
		"duration", elapsed,
	)
	return writeReport(stdout, rep, opts.jsonOut)
}

// openRepository opens and migrates the configured database.
func openRepository(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, *structure.SQLiteRepository, error) {
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Path,
		WALMode:     cfg.WALMode,
		BusyTimeout: cfg.BusyTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // Already failing
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, structure.NewSQLiteRepository(db.DB), nil
}

// persist stores the model in the configured database.
func persist(ctx context.Context, cfg config.DatabaseConfig, rec *structure.Record) (int64, error) {
	db, repo, err := openRepository(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer db.Close() //nolint:errcheck // Nothing left to write after Save

	id, err := repo.Save(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("saving model: %w", err)
	}
	return id, nil
}

// manage lists or deletes stored models.
func manage(ctx context.Context, cfg config.DatabaseConfig, opts options, stdout io.Writer) error {
	db, repo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Read or single delete

	if opts.deleteID != 0 {
		if err := repo.Delete(ctx, opts.deleteID); err != nil {
			return fmt.Errorf("deleting record %d: %w", opts.deleteID, err)
		}
		fmt.Fprintf(stdout, "deleted record %d\n", opts.deleteID)
		return nil
	}

	records, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("listing models: %w", err)
	}
	return writeRecords(stdout, records, opts.jsonOut)
}

// notify publishes the import event and statistics. Failures are logged
// and do not fail the import.
func notify(cfg *config.Config, log *logging.Logger, rep report, importErr error, elapsed time.Duration) {
	var res dxfimport.Result
	if rep.Result != nil {
		res = *rep.Result
	}

	if cfg.MQTT.Enabled {
		publishEvent(cfg.MQTT, log, rep, res, importErr)
	}

	if cfg.InfluxDB.Enabled {
		client, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			log.Warn("influxdb unavailable, statistics not recorded", "error", err)
			return
		}
		client.SetOnError(func(err error) {
			log.Warn("influxdb write failed", "error", err)
		})
		client.WriteImport(importStats(rep.Model, res, importErr, elapsed))
		if err := client.Close(); err != nil {
			log.Warn("closing influxdb", "error", err)
		}
	}
}

func publishEvent(cfg config.MQTTConfig, log *logging.Logger, rep report, res dxfimport.Result, importErr error) {
	client, err := mqtt.Connect(cfg)
	if err != nil {
		log.Warn("mqtt unavailable, import event not published", "error", err)
		return
	}
	client.SetLogger(log.With("component", "mqtt"))
	defer client.Close() //nolint:errcheck // Best effort

	ev := mqtt.ImportEvent{
		ImportID:   res.ImportID,
		Model:      rep.Model,
		SourceFile: res.SourceFile,
		RecordID:   rep.RecordID,
		Counts: map[string]int{
			"nodes":        rep.Summary.Nodes,
			"elements":     rep.Summary.Elements,
			"supports":     rep.Summary.Supports,
			"point_loads":  rep.Summary.PointLoads,
			"moment_loads": rep.Summary.MomentLoads,
		},
		Warnings: len(res.Warnings),
	}
	if importErr != nil {
		ev.Error = importErr.Error()
	}
	if err := client.PublishImport(ev); err != nil {
		log.Warn("publishing import event", "error", err)
	}
}

func importStats(model string, res dxfimport.Result, importErr error, elapsed time.Duration) influxdb.ImportStats {
	s := res.Statistics
	codes := make(map[string]int)
	for _, w := range res.Warnings {
		codes[w.Code]++
	}
	return influxdb.ImportStats{
		ImportID:          res.ImportID,
		Model:             model,
		SourceFile:        res.SourceFile,
		Failed:            importErr != nil,
		Segments:          s.Segments,
		AnnotatedElements: s.AnnotatedElements,
		PlainElements:     s.PlainElements,
		SkippedSegments:   s.SkippedSegments,
		Nodes:             s.Nodes,
		PointCommands:     s.PointCommands,
		SkippedPoints:     s.SkippedPoints,
		Warnings:          len(res.Warnings),
		WarningCodes:      codes,
		Duration:          elapsed,
		Timestamp:         res.ImportedAt,
	}
}

func writeReport(w io.Writer, rep report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	s := rep.Summary
	fmt.Fprintf(w, "model %s (import %s)\n", rep.Model, rep.Result.ImportID)
	if rep.RecordID != 0 {
		fmt.Fprintf(w, "  saved as record %d\n", rep.RecordID)
	}
	fmt.Fprintf(w, "  nodes %d, elements %d, supports %d, point loads %d, moment loads %d\n",
		s.Nodes, s.Elements, s.Supports, s.PointLoads, s.MomentLoads)
	for _, warn := range rep.Result.Warnings {
		fmt.Fprintf(w, "  warning %s: %s: %s\n", warn.Code, warn.Entity, warn.Message)
	}
	return nil
}

func writeRecords(w io.Writer, records []structure.Record, asJSON bool) error {
	if asJSON {
		if records == nil {
			records = []structure.Record{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\tnodes %d, elements %d, warnings %d\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Name, r.SourceFile,
			r.Summary.Nodes, r.Summary.Elements, r.WarningCount)
	}
	return nil
}
