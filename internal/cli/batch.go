package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/refracthq/refract/internal/fetch"
	"github.com/refracthq/refract/internal/model"
	"github.com/refracthq/refract/internal/pipeline"
	"github.com/refracthq/refract/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	batchDir     string
	batchTimeout time.Duration
	fetchTimeout time.Duration
	batchMD      bool
	// userAgent, noCache, and noFooter are defined in analyze.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple sources from a manifest in parallel",
	Long: `Batch analyzes many inputs concurrently:
- Read sources from a manifest file (one per line, # starts a comment)
- Each line is a URL, an issue reference (owner/repo#N), or a file path
- Analyze sources in parallel with a configurable worker count
- Write an individual report for each source into the output directory

Issue references in a manifest must name their repository; bare #N
lines read as comments.

Example:
  refract batch sources.txt
  refract batch sources.txt --concurrency 10 --out ./reports
  refract batch sources.txt --concurrency 5 --timeout 5m --md`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&batchDir, "out", "./refract-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchMD, "md", false, "write a Markdown rendering next to each JSON report")

	// Inherit flags from analyze command
	batchCmd.Flags().DurationVar(&fetchTimeout, "fetch-timeout", 30*time.Second, "timeout for individual fetches")
	batchCmd.Flags().StringVar(&userAgent, "ua", "Refract/0.3 (+https://github.com/refracthq/refract)", "HTTP User-Agent")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

// sourceAnalyzer adapts the pipeline and its input sources to the
// worker.Analyzer interface. URL fetches pass through the per-host
// rate limiter; issue and file sources do not.
type sourceAnalyzer struct {
	pipe    *pipeline.Pipeline
	fetcher *fetch.Fetcher
	tracker *fetch.Tracker
	limiter *worker.Limiter
}

func (a *sourceAnalyzer) AnalyzeSource(ctx context.Context, src worker.Source) (*model.Report, error) {
	text, err := a.acquire(ctx, src)
	if err != nil {
		return nil, err
	}
	return a.pipe.Analyze(text)
}

func (a *sourceAnalyzer) acquire(ctx context.Context, src worker.Source) (string, error) {
	switch src.Kind {
	case worker.SourceURL:
		if err := a.limiter.Wait(ctx, src.Raw); err != nil {
			return "", fmt.Errorf("rate limit: %w", err)
		}
		return a.fetcher.Fetch(ctx, src.Raw)
	case worker.SourceIssue:
		return a.tracker.FetchIssue(ctx, src.Raw)
	default:
		data, err := os.ReadFile(src.Raw)
		if err != nil {
			return "", fmt.Errorf("read source file: %w", err)
		}
		return string(data), nil
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Refract Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", batchDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	// Build configuration
	cfg := model.DefaultConfig()
	cfg.Fetch.Timeout = fetchTimeout
	cfg.Fetch.UserAgent = userAgent
	cfg.Cache.Enabled = !noCache
	cfg.Concurrency.Workers = concurrency
	cfg.Output.Dir = batchDir
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// Read the manifest
	fmt.Fprintf(os.Stderr, "⚙️  Reading sources...\n")
	sources, err := worker.ReadSourcesFromFile(file)
	if err != nil {
		return fmt.Errorf("read sources: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d sources\n", len(sources))
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(batchDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Create the analyzer and batch processor
	analyzer := &sourceAnalyzer{
		pipe:    pipeline.NewPipeline(cfg),
		fetcher: fetch.NewFetcher(cfg),
		tracker: fetch.NewTracker(cfg),
		limiter: worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	}
	processor := worker.NewBatchProcessor(analyzer, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing sources with %d workers...\n", concurrency)
	fmt.Fprintf(os.Stderr, "\n")

	results := processor.Process(ctx, sources)

	// Write per-source reports
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source.Raw, result.Error)
			continue
		}

		jsonPath, err := renderer.WriteJSONFile(result.Report, batchDir)
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: write JSON: %v\n", result.Source.Raw, err)
			continue
		}

		if batchMD {
			mdPath := strings.TrimSuffix(jsonPath, ".json") + ".md"
			if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: write Markdown: %v\n", result.Source.Raw, err)
			}
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%d sentences, %d focal points)\n",
			result.Source.Raw, result.Report.Deconstruction.Len(), len(result.Report.FocalPoints.Focal))
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d sources\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", batchDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
