// Package output renders bump results and release history to the console.
package output

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/personax/relkit/model"
	"github.com/personax/relkit/service/storage"
	"github.com/personax/relkit/service/verify"
)

// Service is the interface for console rendering.
type Service interface {
	RenderSummary(result model.BumpResult)
	RenderVerifyFailures(failures []verify.Failure)
	RenderHistory(releases []storage.ReleaseSummary)
	RenderFiles(files []storage.ReleaseFile)
}

type service struct{}

// NewService creates a new output service.
func NewService() Service {
	return &service{}
}

// RenderSummary prints the old/new version pair, the stage outcomes,
// and the list of touched files.
func (s *service) RenderSummary(result model.BumpResult) {
	title := "Version bump complete"
	if result.DryRun {
		title = "Dry run complete — no files were modified"
	}
	fmt.Printf("\n%s\n\n", text.Colors{text.Bold, text.FgCyan}.Sprint(title))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendRow(table.Row{"Old Version", result.OldVersion})
	t.AppendRow(table.Row{"New Version", text.FgGreen.Sprint(result.NewVersion)})
	t.AppendRow(table.Row{"Bump Type", result.BumpType})
	if result.Branch != "" {
		t.AppendRow(table.Row{"Branch", result.Branch})
	}
	if result.Committed {
		t.AppendRow(table.Row{"Commit", result.CommitHash})
	}
	if result.Tagged {
		t.AppendRow(table.Row{"Tag", result.TagName})
	}
	if result.Committed || result.Tagged {
		t.AppendRow(table.Row{"Pushed", yesNo(result.Pushed)})
	}
	t.Render()

	if len(result.Files) == 0 {
		return
	}
	if result.DryRun {
		fmt.Println("\nFiles that would be updated:")
	} else {
		fmt.Println("\nFiles:")
	}
	for _, f := range result.Files {
		fmt.Printf("  %s %s\n", statusGlyph(f), text.FgCyan.Sprint(f.Path))
	}
}

// RenderVerifyFailures prints every verification failure.
func (s *service) RenderVerifyFailures(failures []verify.Failure) {
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "%s %s: expected %s, %s\n",
			text.FgRed.Sprint("[E]"), f.Path, text.FgGreen.Sprint(f.Want), f.Detail)
	}
}

// RenderHistory prints the release history table.
func (s *service) RenderHistory(releases []storage.ReleaseSummary) {
	if len(releases) == 0 {
		fmt.Println("No releases recorded.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "Date", "Old", "New", "Type", "Tag", "Commit", "Pushed"})
	for _, r := range releases {
		t.AppendRow(table.Row{
			r.ReleaseID,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.OldVersion,
			r.NewVersion,
			r.BumpType,
			r.TagName,
			r.CommitHash,
			yesNo(r.Pushed),
		})
	}
	t.Render()
}

// RenderFiles prints the files touched by one release.
func (s *service) RenderFiles(files []storage.ReleaseFile) {
	for _, f := range files {
		fmt.Printf("  %-10s %s\n", f.Status, text.FgCyan.Sprint(f.Path))
	}
}

func statusGlyph(f model.FileChange) string {
	switch {
	case f.Skipped:
		return text.FgYellow.Sprint("∅")
	case f.Changed:
		return text.FgGreen.Sprint("✓")
	default:
		return text.Faint.Sprint("=")
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
