// Package report prints the human-readable summaries of forge commands.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/ui/output"
	"go.trai.ch/forge/internal/ui/style"
)

// MaxListedErrors is the number of failures listed before the rest are summarized.
const MaxListedErrors = 10

// Reporter writes summaries to one output.
type Reporter struct {
	out *termenv.Output
}

// New creates a Reporter on w. A nil w means stderr.
func New(w io.Writer) *Reporter {
	return &Reporter{out: output.New(w)}
}

// BuildHeader describes a build before it starts.
type BuildHeader struct {
	Input  string
	Output string
	Preset string
	DryRun bool
}

// Header prints where a build reads from and writes to.
func (r *Reporter) Header(h BuildHeader) {
	r.printf("%s Building assets from: %s\n", r.color(style.Arrow, style.Cyan), h.Input)
	r.printf("  Output directory: %s\n", r.color(h.Output, style.Cyan))
	if h.Preset != "" {
		r.printf("  Platform preset: %s\n", r.color(h.Preset, style.Cyan))
	}
	if h.DryRun {
		r.printf("  %s\n", r.color("(Dry run - no files will be processed)", style.Yellow))
	}
	r.printf("\n")
}

// Plan lists the jobs of a dry run.
func (r *Reporter) Plan(jobs []domain.Job) {
	if len(jobs) == 0 {
		r.printf("%s No supported asset files found\n", r.color(style.Warning, style.Yellow))
		return
	}

	r.printf("Found %s asset files to process\n", r.color(fmt.Sprint(len(jobs)), style.Cyan))
	for _, job := range jobs {
		r.printf("  %s %s %s\n", r.faint(job.Rel), style.Arrow, r.color(job.Output, style.Green))
	}
}

// Build prints the outcome of a batch build, listing at most MaxListedErrors failures.
func (r *Reporter) Build(stats *domain.BuildStats, outputDir string) {
	r.printf("\n")
	if stats.Failed() {
		r.printf("%s Build finished with errors\n", r.color(style.Cross, style.Red))
	} else {
		r.printf("%s Build complete!\n", r.color(style.Check, style.Green))
	}

	r.printf("  Files processed: %s\n", r.color(fmt.Sprint(stats.Processed), style.Green))
	if stats.Skipped > 0 {
		r.printf("  Files skipped (cached): %s\n", r.faint(fmt.Sprint(stats.Skipped)))
	}

	if stats.Errored > 0 {
		r.printf("  Errors: %s\n", r.color(fmt.Sprint(stats.Errored), style.Red))
		for i, fe := range stats.Errors {
			if i == MaxListedErrors {
				r.printf("    ... and %d more errors\n", len(stats.Errors)-MaxListedErrors)
				break
			}
			r.printf("    %s %s: %s\n", r.color(style.Cross, style.Red), fe.Path, fe.Message)
		}
	}

	if stats.BytesIn > 0 {
		r.printf("  Total size: %s %s %s (%.1f%% reduction)\n",
			r.faint(FormatSize(stats.BytesIn)),
			style.Arrow,
			r.color(FormatSize(stats.BytesOut), style.Green),
			stats.Reduction())
	}

	if stats.Duration > 0 {
		r.printf("  Duration: %s\n", FormatDuration(stats.Duration))
	}
	r.printf("  Output: %s\n", r.color(outputDir, style.Cyan))
}

// WatchHeader describes a watch session before it starts.
type WatchHeader struct {
	Input    string
	Output   string
	Preset   string
	Debounce time.Duration
}

// WatchStart prints the watch banner.
func (r *Reporter) WatchStart(h WatchHeader) {
	r.printf("%s Watching for changes...\n", r.color(style.Dot, style.Ember))
	r.printf("  Watching: %s\n", r.color(h.Input, style.Cyan))
	r.printf("  Output: %s\n", r.color(h.Output, style.Cyan))
	if h.Preset != "" {
		r.printf("  Preset: %s\n", r.color(h.Preset, style.Cyan))
	}
	r.printf("  Debounce: %dms\n", h.Debounce.Milliseconds())
	r.printf("\n  Press %s to stop\n\n", r.color("Ctrl+C", style.Yellow))
	r.printf("%s\n\n", r.faint(strings.Repeat("─", 50)))
}

// Watch prints the summary of a watch session.
func (r *Reporter) Watch(stats domain.WatchStats) {
	r.printf("\n%s Watch session summary:\n", r.color(style.Dot, style.Ember))
	r.printf("  Duration: %.1fs\n", stats.Duration.Seconds())
	r.printf("  Processed: %s\n", r.color(fmt.Sprint(stats.Processed), style.Green))
	if stats.Errors > 0 {
		r.printf("  Errors: %s\n", r.color(fmt.Sprint(stats.Errors), style.Red))
	}
	if stats.Debounced > 0 {
		r.printf("  Skipped: %s\n", r.faint(fmt.Sprint(stats.Debounced)))
	}
}

// Cache prints the statistics of the build cache in dir.
func (r *Reporter) Cache(dir string, stats domain.CacheStats) {
	r.printf("%s Build cache: %s\n", r.color(style.Arrow, style.Cyan), r.color(dir, style.Cyan))
	r.printf("  Records: %d\n", stats.Total)
	r.printf("  Valid: %s\n", r.color(fmt.Sprint(stats.Valid), style.Green))
	if stats.Stale > 0 {
		r.printf("  Stale: %s\n", r.color(fmt.Sprint(stats.Stale), style.Yellow))
	}
}

// Removal is one directory handled by forge clean.
type Removal struct {
	Label string
	Path  string
	Size  uint64
	// Missing is set when there was nothing to remove.
	Missing bool
}

// Clean prints what forge clean removed.
func (r *Reporter) Clean(removals []Removal) {
	r.printf("%s Cleaning build artifacts\n", r.color(style.Arrow, style.Cyan))
	for _, rm := range removals {
		if rm.Missing {
			r.printf("  %s %s not found: %s\n", r.faint("-"), rm.Label, rm.Path)
			continue
		}
		r.printf("  %s Removed %s: %s (%s)\n",
			r.color(style.Check, style.Green), strings.ToLower(rm.Label), rm.Path, FormatSize(rm.Size))
	}
}

// Initialized prints where forge init wrote the config.
func (r *Reporter) Initialized(path string) {
	r.printf("%s Created %s\n", r.color(style.Check, style.Green), path)
}

// FormatSize renders bytes with binary units and two decimals.
func FormatSize(bytes uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)

	switch {
	case bytes >= mb:
		return fmt.Sprintf("%.2f MB", float64(bytes)/mb)
	case bytes >= kb:
		return fmt.Sprintf("%.2f KB", float64(bytes)/kb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatDuration rounds d for display.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}

func (r *Reporter) color(s string, c lipgloss.Color) string {
	return r.out.String(s).Foreground(r.out.Color(string(c))).String()
}

func (r *Reporter) faint(s string) string {
	return r.out.String(s).Faint().String()
}

func (r *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}
