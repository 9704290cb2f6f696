package pipeline

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/refracthq/refract/internal/deconstruct"
	"github.com/refracthq/refract/internal/focal"
	"github.com/refracthq/refract/internal/model"
	"github.com/refracthq/refract/internal/rearch"
	"github.com/refracthq/refract/internal/score"
)

// Pipeline orchestrates the complete analysis process
type Pipeline struct {
	classifier *deconstruct.Classifier
	scorer     *score.Scorer
	selector   *focal.Selector
	generator  *rearch.Generator
	renderer   *Renderer
	config     *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	return &Pipeline{
		classifier: deconstruct.NewClassifier(),
		scorer:     score.NewScorer(),
		selector:   focal.NewSelector(),
		generator:  rearch.NewGenerator(),
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		config:     cfg,
	}
}

// Analyze runs the analysis stages over already-acquired text and
// returns the assembled report. Stages execute strictly in sequence;
// each consumes only the completed outputs of the stages before it.
func (p *Pipeline) Analyze(text string) (*model.Report, error) {
	// 0. Input guard
	if err := Guard(text, p.config.Input.MaxChars); err != nil {
		return nil, err
	}

	// 1. Split into sentences
	sentences := deconstruct.Sentences(text)

	// 2. Classify each sentence
	dec := p.classifier.Deconstruct(sentences)

	// 3. Rank keywords over the full raw text
	keywords := p.scorer.Rank(text)

	// 4. Select focal points
	points := p.selector.Select(sentences, keywords)

	// 5. Generate remediation proposals
	proposals := p.generator.Propose(points.Focal)

	// 6. Assemble the report
	return &model.Report{
		Meta: model.Meta{
			Timestamp:  time.Now().UTC(),
			SourceSize: utf8.RuneCountInString(text),
		},
		Deconstruction: dec,
		Keywords:       keywords,
		FocalPoints:    points,
		Rearchitecture: proposals,
	}, nil
}

// RenderReport emits the report to every configured output: indented
// JSON on stdout, a timestamped copy in the collector directory, and
// optionally a Markdown rendering
func (p *Pipeline) RenderReport(report *model.Report, mdPath string, verbose bool) error {
	if err := p.renderer.RenderJSON(report, os.Stdout); err != nil {
		return fmt.Errorf("render JSON: %w", err)
	}

	path, err := p.renderer.WriteJSONFile(report, p.config.Output.Dir)
	if err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", path)
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if verbose {
		p.renderer.RenderSummary(os.Stderr, report)
	}

	return nil
}
