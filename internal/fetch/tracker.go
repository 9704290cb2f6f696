package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/refracthq/refract/internal/cache"
	"github.com/refracthq/refract/internal/model"
)

// runTrackerCommand executes the tracker CLI (injectable for tests)
var runTrackerCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var (
	shorthandRefRE = regexp.MustCompile(`^([\w.-]+/[\w.-]+)#(\d+)$`)
	bareNumberRE   = regexp.MustCompile(`^#?(\d+)$`)
)

// Tracker fetches issue text by shelling out to a tracker CLI, gh by
// default. The CLI carries its own authentication, so no tokens pass
// through here. Fetched text is cached in memory so a ref repeated in
// a batch manifest runs the CLI once.
type Tracker struct {
	command string
	timeout time.Duration
	cache   cache.Cache
}

// NewTracker creates a new tracker client
func NewTracker(cfg *model.Config) *Tracker {
	t := &Tracker{
		command: cfg.Tracker.Command,
		timeout: cfg.Tracker.Timeout,
	}
	if cfg.Cache.Enabled {
		t.cache = cache.NewMemoryCache(cfg.Cache.TTL)
	}
	return t
}

// issuePayload is the subset of fields requested from the CLI
type issuePayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// FetchIssue resolves an issue reference and returns its title and
// body as one text blob. Accepted forms: a full issue URL,
// "owner/repo#123", or a bare "#123" against the repository of the
// current working directory.
func (t *Tracker) FetchIssue(ctx context.Context, ref string) (string, error) {
	repo, number, err := parseIssueRef(ref)
	if err != nil {
		return "", err
	}

	// Key on the parsed form so shorthand and URL refs share an entry
	key := cache.Key(repo + "#" + number)
	if t.cache != nil {
		if text, found := t.cache.Get(key); found {
			return text, nil
		}
	}

	args := []string{"issue", "view", number, "--json", "title,body"}
	if repo != "" {
		args = append(args, "--repo", repo)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := runTrackerCommand(ctx, t.command, args...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%s: %s", t.command, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("run %s: %w", t.command, err)
	}

	var payload issuePayload
	if err := json.Unmarshal(out, &payload); err != nil {
		return "", fmt.Errorf("decode %s output: %w", t.command, err)
	}

	text := strings.TrimSpace(payload.Title)
	if body := strings.TrimSpace(payload.Body); body != "" {
		text += "\n\n" + body
	}
	if t.cache != nil {
		t.cache.Set(key, text)
	}
	return text, nil
}

// parseIssueRef extracts (repo, number) from the supported reference
// forms. repo is empty for bare numbers.
func parseIssueRef(ref string) (string, string, error) {
	ref = strings.TrimSpace(ref)

	if strings.Contains(ref, "://") || strings.HasPrefix(ref, "github.com/") {
		raw := ref
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		parsed, err := url.Parse(raw)
		if err != nil {
			return "", "", fmt.Errorf("parse issue URL: %w", err)
		}
		segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		if len(segments) == 4 && segments[2] == "issues" && bareNumberRE.MatchString(segments[3]) {
			return segments[0] + "/" + segments[1], segments[3], nil
		}
		return "", "", fmt.Errorf("unrecognized issue URL: %s", ref)
	}

	if m := shorthandRefRE.FindStringSubmatch(ref); m != nil {
		return m[1], m[2], nil
	}
	if m := bareNumberRE.FindStringSubmatch(ref); m != nil {
		return "", m[1], nil
	}
	return "", "", fmt.Errorf("unrecognized issue reference: %q", ref)
}
