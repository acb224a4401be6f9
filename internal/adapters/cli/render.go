package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	service "github.com/okian/charcache/internal/app"
	"github.com/okian/charcache/internal/domain/model"
)

const noData = "No characters found. Run option 1 to fetch data first if the store is empty."

func orUnknown(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printCharacters(out io.Writer, chars []model.Character) {
	if len(chars) == 0 {
		fmt.Fprintln(out, noData)
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tSPECIES\tGENDER\tLOCATION")
	for _, c := range chars {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Name, orUnknown(c.Status), orUnknown(c.Species), orUnknown(c.Gender), orUnknown(c.Location))
	}
	_ = tw.Flush()
	fmt.Fprintf(out, "%d character(s)\n", len(chars))
}

func printProfile(out io.Writer, c model.Character) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", c.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", c.Name)
	fmt.Fprintf(tw, "Status:\t%s\n", orUnknown(c.Status))
	fmt.Fprintf(tw, "Species:\t%s\n", orUnknown(c.Species))
	fmt.Fprintf(tw, "Type:\t%s\n", orUnknown(c.Subtype))
	fmt.Fprintf(tw, "Gender:\t%s\n", orUnknown(c.Gender))
	fmt.Fprintf(tw, "Origin:\t%s\n", orUnknown(c.Origin))
	fmt.Fprintf(tw, "Location:\t%s\n", orUnknown(c.Location))
	fmt.Fprintf(tw, "Image:\t%s\n", orUnknown(c.ImageURL))
	_ = tw.Flush()
}

func printOptions(out io.Writer, options []string) {
	for i, o := range options {
		fmt.Fprintf(out, "%3d. %s\n", i+1, o)
	}
}

// PrintReport writes a human summary of a sync pass.
func PrintReport(out io.Writer, r service.SyncReport) {
	fmt.Fprintf(out, "Sync %s finished: %d page(s), %d character(s) stored in %s.\n",
		r.RunID, r.Pages, r.Records, r.Duration().Round(time.Millisecond))
	switch r.Stop {
	case service.StopExhausted:
		fmt.Fprintln(out, "Reached the end of the collection.")
	case service.StopCanceled:
		fmt.Fprintln(out, "Interrupted; pages stored so far are kept.")
	default:
		fmt.Fprintf(out, "Stopped early (%s): %s\n", r.Stop, r.StopDetail)
	}
}

// ProgressPrinter returns a progress callback that writes one line per page.
func ProgressPrinter(out io.Writer) service.ProgressFunc {
	return func(p service.Progress) {
		if p.Pages > 0 {
			fmt.Fprintf(out, "Page %d/%d stored (%d characters)\n", p.Page, p.Pages, p.Stored)
			return
		}
		fmt.Fprintf(out, "Page %d stored (%d characters)\n", p.Page, p.Stored)
	}
}
