// Package report renders check results for people and for scripts.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/chmdznr/oss-component-checker/internal/check"
	"github.com/chmdznr/oss-component-checker/pkg/utils"
	"github.com/fatih/color"
)

const (
	SuccessMessage = "All files are present!"
	MissingHeader  = "Missing files:"
)

// Printer writes the text report
type Printer struct {
	w       io.Writer
	ok      *color.Color
	bad     *color.Color
	summary *color.Color
}

// NewPrinter returns a printer writing to w. Colors are only emitted when
// colored is true.
func NewPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:       w,
		ok:      color.New(color.FgGreen),
		bad:     color.New(color.FgRed),
		summary: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.ok, p.bad, p.summary} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Missing prints either the success message or a header followed by one
// "- name" line per missing file.
func (p *Printer) Missing(missing []string) error {
	if len(missing) == 0 {
		_, err := p.ok.Fprintln(p.w, SuccessMessage)
		return err
	}
	if _, err := fmt.Fprintln(p.w, MissingHeader); err != nil {
		return err
	}
	for _, name := range missing {
		if _, err := p.bad.Fprintf(p.w, "- %s\n", name); err != nil {
			return err
		}
	}
	return nil
}

// Summary prints a one line tally of the run
func (p *Printer) Summary(result *check.Result) error {
	_, err := p.summary.Fprintf(p.w, "Checked %d files in %s: %d present (%s), %d missing\n",
		len(result.Expected),
		utils.FormatDuration(result.Elapsed),
		len(result.Present),
		utils.FormatSize(result.PresentSize()),
		len(result.Missing),
	)
	return err
}

// Print writes the plain text report for missing to w
func Print(w io.Writer, missing []string) error {
	return NewPrinter(w, false).Missing(missing)
}

// JSONReport is the machine readable form of a run
type JSONReport struct {
	Name      string    `json:"name,omitempty"`
	BaseDir   string    `json:"base_dir"`
	CheckedAt time.Time `json:"checked_at"`
	Expected  int       `json:"expected"`
	Present   int       `json:"present"`
	Missing   []string  `json:"missing"`
}

// WriteJSON encodes result as an indented JSON document
func WriteJSON(w io.Writer, name, baseDir string, checkedAt time.Time, result *check.Result) error {
	missing := result.Missing
	if missing == nil {
		missing = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(JSONReport{
		Name:      name,
		BaseDir:   baseDir,
		CheckedAt: checkedAt.UTC(),
		Expected:  len(result.Expected),
		Present:   len(result.Present),
		Missing:   missing,
	})
}
