package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/paomem/internal/dataset"
	"github.com/verte-zerg/paomem/internal/ledger"
	"github.com/verte-zerg/paomem/internal/model"
)

// Accuracy buckets.
const (
	BucketMastered   = "Mastered (90-100%)"
	BucketGood       = "Good (70-89%)"
	BucketNeedsWork  = "Needs Work (50-69%)"
	BucketStruggling = "Struggling (0-49%)"
	BucketUntested   = "Untested"
)

const (
	weakestCount      = 5
	bucketEntryLimit  = 10
	maxBarWidth       = 40
	fallbackTermWidth = 80
)

var bucketOrder = []string{
	BucketMastered,
	BucketGood,
	BucketNeedsWork,
	BucketStruggling,
	BucketUntested,
}

// RenderHeader prints the application banner shown before any mode's output.
func RenderHeader(w io.Writer) error {
	rule := strings.Repeat("=", 60)
	lines := []string{
		rule,
		"PAO Memory Trainer",
		"Person-Action-Object Association Training",
		rule,
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Bucket classifies a key's accuracy band.
func Bucket(accuracy float64, attempts int) string {
	switch {
	case attempts == 0:
		return BucketUntested
	case accuracy >= 90:
		return BucketMastered
	case accuracy >= 70:
		return BucketGood
	case accuracy >= 50:
		return BucketNeedsWork
	default:
		return BucketStruggling
	}
}

// RenderSummary prints overall accuracy, the session tally and the weakest
// associations.
func RenderSummary(w io.Writer, data map[string]model.Association, l *ledger.Ledger) error {
	correct, incorrect := l.Totals()
	attempts := correct + incorrect
	overall := 0.0
	if attempts > 0 {
		overall = float64(correct) / float64(attempts) * 100
	}
	session := l.Session()

	if _, err := fmt.Fprintln(w, "Overall Statistics"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total attempts: %d\n", attempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Overall accuracy: %.1f%%\n", overall); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Session: %d/%d correct\n", session.Correct, session.Total); err != nil {
		return err
	}
	if attempts == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w, "\nWeakest Associations"); err != nil {
		return err
	}
	headers := []string{"Key", "Person", "Accuracy", "Attempts"}
	var rows [][]string
	for _, weak := range l.WeakestKeys(weakestCount) {
		rec := l.Record(weak.Key)
		if rec.Attempts() == 0 {
			continue
		}
		rows = append(rows, []string{
			weak.Key,
			data[weak.Key].Person,
			fmt.Sprintf("%.0f%%", weak.Accuracy),
			fmt.Sprintf("%d", rec.Attempts()),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderBreakdown prints the five-bucket accuracy histogram with per-bucket
// entries, at most bucketEntryLimit each.
func RenderBreakdown(w io.Writer, data map[string]model.Association, l *ledger.Ledger) error {
	return RenderBreakdownWithWidth(w, data, l, autoTermWidth())
}

// RenderBreakdownWithWidth renders the breakdown sized to a given terminal width.
func RenderBreakdownWithWidth(w io.Writer, data map[string]model.Association, l *ledger.Ledger, width int) error {
	buckets := map[string][]string{}
	for _, key := range l.Keys() {
		assoc, ok := data[key]
		if !ok {
			continue
		}
		rec := l.Record(key)
		acc := l.Accuracy(key)
		name := Bucket(acc, rec.Attempts())
		entry := fmt.Sprintf("%s: %s", key, assoc.Person)
		if rec.Attempts() > 0 {
			entry = fmt.Sprintf("%s (%.0f%%)", entry, acc)
		}
		buckets[name] = append(buckets[name], entry)
	}

	if _, err := fmt.Fprintln(w, "Detailed Statistics"); err != nil {
		return err
	}
	barWidth := barWidthFor(width)
	total := len(data)
	for _, name := range bucketOrder {
		entries := buckets[name]
		if len(entries) == 0 {
			continue
		}
		bar := renderBar(len(entries), total, barWidth)
		if _, err := fmt.Fprintf(w, "\n%s (%d) %s\n", name, len(entries), bar); err != nil {
			return err
		}
		shown := entries
		if len(shown) > bucketEntryLimit {
			shown = shown[:bucketEntryLimit]
		}
		for _, entry := range shown {
			if _, err := fmt.Fprintf(w, "  %s\n", entry); err != nil {
				return err
			}
		}
		if rest := len(entries) - len(shown); rest > 0 {
			if _, err := fmt.Fprintf(w, "  ... and %d more\n", rest); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderBrowse lists every association in key order with its accuracy status.
func RenderBrowse(w io.Writer, data map[string]model.Association, l *ledger.Ledger) error {
	for _, key := range dataset.SortedKeys(data) {
		assoc := data[key]
		rec := l.Record(key)
		status := ""
		if rec.Attempts() > 0 {
			status = fmt.Sprintf(" [%.0f%% - %d attempts]", l.Accuracy(key), rec.Attempts())
		}
		if _, err := fmt.Fprintf(w, "%s: %s → %s → %s%s\n", key, assoc.Person, assoc.Action, assoc.Object, status); err != nil {
			return err
		}
	}
	return nil
}

func renderBar(count, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := int(math.Round(float64(count) / float64(total) * float64(width)))
	if count > 0 && filled == 0 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled)
}

func barWidthFor(termWidth int) int {
	width := termWidth / 2
	if width > maxBarWidth {
		width = maxBarWidth
	}
	if width < 1 {
		width = 1
	}
	return width
}

func autoTermWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}
