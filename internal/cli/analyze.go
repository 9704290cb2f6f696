package cli

import (
	"context"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/refracthq/refract/internal/fetch"
	"github.com/refracthq/refract/internal/model"
	"github.com/refracthq/refract/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	inputFile   string
	inputURL    string
	inputIssue  string
	outMD       string
	outDir      string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	maxChars    int
	noCache     bool
	noFooter    bool
	insecureTLS bool
	noRobots    bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze one text and emit a triage report",
	Long: `Analyze runs the full pipeline over a single input:
- Split the text into sentences
- Classify each as fact, claim, or question
- Rank the recurring keywords
- Select focal points and generate remediation proposals
- Emit the report as JSON on stdout and into the collector directory

The text comes from exactly one source: a file, a URL, an issue
reference, inline arguments, or stdin when nothing else is given.

Example:
  refract analyze "The deploy failed twice. We should add a retry."
  refract analyze --file notes.txt --md report.md
  refract analyze --url https://example.com/postmortem
  refract analyze --issue acme/tools#42
  cat body.txt | refract analyze`,
	Args: cobra.ArbitraryArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVar(&inputFile, "file", "", "read input text from a file")
	analyzeCmd.Flags().StringVar(&inputURL, "url", "", "fetch input text from a URL (HTML is reduced to visible text)")
	analyzeCmd.Flags().StringVar(&inputIssue, "issue", "", "fetch input text from an issue reference (owner/repo#N, #N, or URL)")
	analyzeCmd.Flags().IntVar(&maxChars, "max-chars", 200_000, "input size guard in characters (0 disables)")

	// Output flags
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().StringVar(&outDir, "out", "./refract-reports", "collector directory for report files")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// HTTP flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall analyze timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "Refract/0.3 (+https://github.com/refracthq/refract)", "HTTP User-Agent")
	analyzeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	analyzeCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks on URL fetches")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Exactly one input source per run
	sources := 0
	if inputFile != "" {
		sources++
	}
	if inputURL != "" {
		sources++
	}
	if inputIssue != "" {
		sources++
	}
	if len(args) > 0 {
		sources++
	}
	if sources > 1 {
		return fmt.Errorf("specify at most one input source (--file, --url, --issue, or inline text)")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	// Build configuration from flags
	cfg := model.DefaultConfig()
	cfg.Input.MaxChars = maxChars
	cfg.Fetch.Timeout = timeout
	cfg.Fetch.UserAgent = userAgent
	cfg.Fetch.MaxBodyBytes = maxBytes
	cfg.Fetch.InsecureTLS = insecureTLS
	cfg.Fetch.RespectRobots = !noRobots
	cfg.Cache.Enabled = !noCache
	cfg.Output.Dir = outDir
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// Acquire the source text
	var text string
	var err error
	switch {
	case inputURL != "":
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Fetching URL: %s\n", inputURL)
		}
		text, err = fetch.NewFetcher(cfg).Fetch(ctx, inputURL)
	case inputIssue != "":
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Fetching issue: %s\n", inputIssue)
		}
		text, err = fetch.NewTracker(cfg).FetchIssue(ctx, inputIssue)
	default:
		text, err = pipeline.ReadInput(inputFile, args, os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("acquire input: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Acquired %d characters\n", utf8.RuneCountInString(text))
		fmt.Fprintln(os.Stderr)
	}

	// Run the pipeline
	p := pipeline.NewPipeline(cfg)
	report, err := p.Analyze(text)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Split %d sentences\n", report.Deconstruction.Len())
		fmt.Fprintf(os.Stderr, "✓ Ranked %d keywords\n", len(report.Keywords))
		fmt.Fprintf(os.Stderr, "✓ Selected %d focal points\n", len(report.FocalPoints.Focal))
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderReport(report, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
