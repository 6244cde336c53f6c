package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spacesedan/sentiboard/config"
	"github.com/spacesedan/sentiboard/internal/clients"
	"github.com/spacesedan/sentiboard/internal/ingest"
	"github.com/spacesedan/sentiboard/internal/logging"
	"github.com/spacesedan/sentiboard/internal/models"
	"github.com/spacesedan/sentiboard/internal/report"
	"github.com/spacesedan/sentiboard/internal/sentiment"
)

func main() {
	os.Exit(run())
}

func run() int {
	text := flag.String("text", "", "analyze a single sentence")
	file := flag.String("file", "", "analyze a CSV or Excel file with ID and review_text columns")
	rows := flag.Int("rows", 0, "number of rows to analyze from -file (default MAX_ROWS)")
	out := flag.String("out", "", "write results to a .csv or .xlsx file")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		logging.InitLogger("info")
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		return 1
	}
	logging.InitLogger(cfg.LogLevel)

	if (*text == "") == (*file == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -text or -file is required")
		flag.Usage()
		return 2
	}
	if *rows == 0 {
		*rows = cfg.MaxRows
	}
	if *rows < 1 {
		fmt.Fprintln(os.Stderr, "-rows must be at least 1")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	classifier, closeCache := newClassifier(ctx, cfg)
	defer closeCache()
	analyzer := sentiment.NewAnalyzer(classifier, cfg.MaxDocuments)

	var table models.ResultTable
	if *text != "" {
		table, err = analyzeText(ctx, analyzer, *text)
	} else {
		table, err = analyzeFile(ctx, analyzer, *file, *rows)
	}
	if err != nil {
		slog.Error("[Main] Analysis failed", slog.String("error", err.Error()))
		return 1
	}

	if err := printTable(os.Stdout, table); err != nil {
		slog.Error("[Main] Failed to print results", slog.String("error", err.Error()))
		return 1
	}

	if *out != "" {
		if err := writeResults(*out, table); err != nil {
			slog.Error("[Main] Failed to write results",
				slog.String("file", *out),
				slog.String("error", err.Error()))
			return 1
		}
		slog.Info("[Main] Results written", slog.String("file", *out))
	}
	return 0
}

// newClassifier builds the configured classifier. The returned func closes
// the result cache, if one was opened.
func newClassifier(ctx context.Context, cfg config.Config) (sentiment.Classifier, func()) {
	var classifier sentiment.Classifier
	if cfg.Provider == config.ProviderVader {
		classifier = sentiment.NewVaderClassifier()
	} else {
		classifier = sentiment.NewRemoteClassifier(clients.NewTextAnalyticsClient(clients.TextAnalyticsOptions{
			Endpoint:     cfg.Endpoint,
			APIKey:       cfg.APIKey,
			Language:     cfg.Language,
			MaxDocuments: cfg.MaxDocuments,
			MaxAttempts:  cfg.MaxAttempts,
			Timeout:      cfg.Timeout,
		}))
	}

	if !cfg.Valkey.Enabled() {
		return classifier, func() {}
	}
	vc, err := clients.NewValkeyClient(ctx, cfg.Valkey)
	if err != nil {
		slog.Warn("[Main] Result cache unavailable, continuing without it",
			slog.String("error", err.Error()))
		return classifier, func() {}
	}
	return sentiment.NewCachedClassifier(classifier, vc, cfg.Language), vc.Close
}

func analyzeText(ctx context.Context, analyzer *sentiment.Analyzer, text string) (models.ResultTable, error) {
	result, err := analyzer.AnalyzeText(ctx, text)
	if err != nil {
		return models.ResultTable{}, err
	}
	if result.IsFailed() {
		slog.Warn("[Main] Sentiment analysis failed", slog.String("detail", result.Detail))
	}
	return report.Single(strings.TrimSpace(text), result), nil
}

func analyzeFile(ctx context.Context, analyzer *sentiment.Analyzer, path string, maxRows int) (models.ResultTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.ResultTable{}, err
	}
	defer f.Close()

	reviews, err := ingest.Load(filepath.Base(path), f, maxRows)
	if err != nil {
		return models.ResultTable{}, err
	}

	batch, err := analyzer.AnalyzeBatch(ctx, ingest.Texts(reviews))
	if err != nil {
		return models.ResultTable{}, err
	}
	for _, failure := range batch.ChunkFailures {
		first, last := report.FailureRange(reviews, failure)
		slog.Warn("[Main] Rows could not be analyzed",
			slog.String("first_id", first),
			slog.String("last_id", last),
			slog.String("detail", failure.Detail))
	}
	return report.Build(reviews, batch)
}

func printTable(w io.Writer, table models.ResultTable) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tReview\tSentiment\tPositive\tNeutral\tNegative")
	for _, r := range table.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, preview(r.Text, 60), r.Sentiment,
			score(r.Positive), score(r.Neutral), score(r.Negative))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := table.Summary
	_, err := fmt.Fprintf(w, "\nTotal: %d  Positive: %d  Neutral: %d  Negative: %d  Mixed: %d  Errors: %d\n",
		s.Total, s.Positive, s.Neutral, s.Negative, s.Mixed, s.Errors)
	return err
}

func writeResults(path string, table models.ResultTable) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		if err := report.WriteCSV(&buf, table); err != nil {
			return err
		}
	case ".xlsx":
		if err := report.WriteXLSX(&buf, table); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output extension %q", filepath.Ext(path))
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func preview(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > limit {
		return string(r[:limit-3]) + "..."
	}
	return s
}
