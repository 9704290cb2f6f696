package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/refracthq/refract/internal/model"
)

// SourceKind says how a batch line's text is acquired
type SourceKind string

const (
	SourceURL   SourceKind = "url"
	SourceIssue SourceKind = "issue"
	SourceFile  SourceKind = "file"
)

var (
	issueURLRE       = regexp.MustCompile(`^https?://github\.com/[\w.-]+/[\w.-]+/issues/\d+$`)
	issueShorthandRE = regexp.MustCompile(`^[\w.-]+/[\w.-]+#\d+$`)
)

// Source is one line of a batch manifest
type Source struct {
	Raw  string
	Kind SourceKind
}

// Analyzer produces a report from one batch source
type Analyzer interface {
	AnalyzeSource(ctx context.Context, source Source) (*model.Report, error)
}

// AnalyzeJob runs one source through the analyzer
type AnalyzeJob struct {
	Source   Source
	Analyzer Analyzer
}

// Execute implements Job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeSource(ctx, j.Source)
	return &AnalyzeResult{
		Source: j.Source,
		Report: report,
		Error:  err,
	}
}

// AnalyzeResult is the outcome of one batch source
type AnalyzeResult struct {
	Source Source
	Report *model.Report
	Error  error
}

// Err implements Result
func (r *AnalyzeResult) Err() error {
	return r.Error
}

// BatchProcessor fans batch sources out to a worker pool. Parallelism
// exists only across sources; each source still runs the pipeline
// stages strictly in sequence.
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// Process analyzes all sources concurrently and returns the results in
// completion order
func (b *BatchProcessor) Process(ctx context.Context, sources []Source) []*AnalyzeResult {
	if len(sources) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, source := range sources {
		pool.Submit(&AnalyzeJob{
			Source:   source,
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}

	return analyzeResults
}

// ClassifySource guesses how a manifest line's text is acquired:
// GitHub issue URLs and owner/repo#N references resolve through the
// tracker CLI, other http(s) lines are fetched, everything else is a
// local file path
func ClassifySource(line string) SourceKind {
	switch {
	case issueURLRE.MatchString(line), issueShorthandRE.MatchString(line):
		return SourceIssue
	case strings.HasPrefix(line, "http://"), strings.HasPrefix(line, "https://"):
		return SourceURL
	default:
		return SourceFile
	}
}

// ReadSourcesFromFile reads a batch manifest, one source per line.
// Blank lines and lines starting with # are skipped, duplicates are
// dropped. Because # opens a comment, issue references in a manifest
// must be repository-qualified.
func ReadSourcesFromFile(path string) ([]Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []Source
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		sources = append(sources, Source{Raw: line, Kind: ClassifySource(line)})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan manifest: %w", err)
	}

	return sources, nil
}
