package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/refracthq/refract/internal/model"
)

// Renderer writes reports to their output destinations
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON to w
func (r *Renderer) RenderJSON(report *model.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteJSONFile persists the report into the collector directory. The
// file is named by the report timestamp in Unix milliseconds; when two
// reports land in the same millisecond the name is bumped until a free
// one is found. Creating the directory is idempotent.
func (r *Renderer) WriteJSONFile(report *model.Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	var buf bytes.Buffer
	if err := r.RenderJSON(report, &buf); err != nil {
		return "", err
	}

	ms := report.Meta.Timestamp.UnixMilli()
	for {
		path := filepath.Join(dir, strconv.FormatInt(ms, 10)+".json")
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			ms++
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create report file: %w", err)
		}
		if _, err := f.Write(buf.Bytes()); err != nil {
			f.Close()
			return "", fmt.Errorf("write report file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close report file: %w", err)
		}
		return path, nil
	}
}

// RenderMarkdown writes a human-readable rendering of the report to
// the given path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Refract Report\n\n")
	fmt.Fprintf(&b, "- **Analyzed:** %s\n", report.Meta.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Source size:** %d chars\n", report.Meta.SourceSize)
	fmt.Fprintf(&b, "- **Sentences:** %d (%d facts / %d claims / %d questions)\n\n",
		report.Deconstruction.Len(),
		len(report.Deconstruction.Facts),
		len(report.Deconstruction.Claims),
		len(report.Deconstruction.Questions))

	b.WriteString("## Deconstruction\n\n")
	writeSentenceSection(&b, "Facts", report.Deconstruction.Facts)
	writeSentenceSection(&b, "Claims", report.Deconstruction.Claims)
	writeSentenceSection(&b, "Questions", report.Deconstruction.Questions)

	b.WriteString("## Keywords\n\n")
	if len(report.Keywords) == 0 {
		b.WriteString("_None._\n\n")
	} else {
		b.WriteString("| # | Keyword | Count |\n")
		b.WriteString("|---|---------|-------|\n")
		for i, kw := range report.Keywords {
			fmt.Fprintf(&b, "| %d | %s | %d |\n", i+1, kw.Keyword, kw.Count)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Focal Points\n\n")
	if len(report.FocalPoints.Focal) == 0 {
		b.WriteString("_No sentence matched a trigger keyword._\n\n")
	}
	for _, fp := range report.FocalPoints.Focal {
		fmt.Fprintf(&b, "### %s\n\n> %s\n\nTriggers: %s\n\n",
			fp.ID, fp.Summary, strings.Join(fp.Triggers, ", "))
	}
	if len(report.FocalPoints.Micro) > 0 {
		b.WriteString("### Micro\n\n")
		for _, m := range report.FocalPoints.Micro {
			fmt.Fprintf(&b, "- **%s** — `%s`\n", m.ID, m.Keyword)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Rearchitecture\n\n")
	if len(report.Rearchitecture) == 0 {
		b.WriteString("_Nothing to propose._\n\n")
	}
	for _, prop := range report.Rearchitecture {
		fmt.Fprintf(&b, "### %s — %s\n\n", prop.ID, prop.Problem)
		for i, action := range prop.Proposals {
			fmt.Fprintf(&b, "%d. %s\n", i+1, action)
		}
		fmt.Fprintf(&b, "\nPrinciples: %s\n\n", strings.Join(prop.Principles, " / "))
	}

	if r.includeFooter {
		b.WriteString("---\n\n_Generated by refract. Heuristic signals, not judgments._\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown file: %w", err)
	}
	return nil
}

func writeSentenceSection(b *strings.Builder, title string, sentences []string) {
	fmt.Fprintf(b, "### %s\n\n", title)
	if len(sentences) == 0 {
		b.WriteString("_None._\n\n")
		return
	}
	for _, s := range sentences {
		fmt.Fprintf(b, "- %s\n", s)
	}
	b.WriteString("\n")
}

// RenderSummary prints a one-screen digest of the report to w
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "\nSentences: %d (%d facts, %d claims, %d questions)\n",
		report.Deconstruction.Len(),
		len(report.Deconstruction.Facts),
		len(report.Deconstruction.Claims),
		len(report.Deconstruction.Questions))
	fmt.Fprintf(w, "Keywords:  %d ranked\n", len(report.Keywords))
	fmt.Fprintf(w, "Focal:     %d sentence / %d keyword focal points\n",
		len(report.FocalPoints.Focal), len(report.FocalPoints.Micro))
	fmt.Fprintf(w, "Proposals: %d\n", len(report.Rearchitecture))
}
