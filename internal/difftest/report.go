package difftest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	. "github.com/cricklet/leisertest/internal/helpers"
)

var (
	headerColor  = color.New(color.FgMagenta)
	infoColor    = color.New(color.FgBlue)
	okColor      = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	failColor    = color.New(color.FgRed)
)

var mismatchMarker = failColor.Sprint(" < MISMATCH")

// Printer writes the human readable report of a run.
type Printer struct {
	out     io.Writer
	verbose bool
}

type PrinterOption func(*Printer)

// WithVerbose adds a quoted dump of the diverging lines to failures, which
// shows differences in whitespace.
func WithVerbose(verbose bool) PrinterOption {
	return func(p *Printer) {
		p.verbose = verbose
	}
}

func NewPrinter(out io.Writer, options ...PrinterOption) *Printer {
	if out == nil {
		out = os.Stdout
	}
	p := &Printer{out: out}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *Printer) Header(s string) {
	infoColor.Fprintln(p.out, s)
}

func (p *Printer) Setting(label string, value any) {
	warningColor.Fprintf(p.out, "\t%-14s: %v\n", label, value)
}

func formatStat(v float64) string {
	return humanize.Commaf(v)
}

func printTrace(out io.Writer, label string, lines []string, mismatch int) {
	fmt.Fprintf(out, "\t%v:\n", label)
	for i, line := range lines {
		marker := ""
		if i == mismatch {
			marker = mismatchMarker
		}
		fmt.Fprintf(out, "\t\t%v%v\n", line, marker)
	}
	if mismatch >= len(lines) {
		fmt.Fprintf(out, "\t\t<missing>%v\n", mismatchMarker)
	}
}

func (p *Printer) writeCase(out io.Writer, result CaseResult) {
	name := result.Name
	if result.Depth.HasValue() {
		name = fmt.Sprintf("%v (depth %v)", name, result.Depth.Value())
	}

	switch result.Outcome {
	case Pass:
		fmt.Fprintf(out, "[ %v ] : %v\n", okColor.Sprint("PASS"), name)
		fmt.Fprintln(out, "\tReference Impl Stats:")
		for _, stat := range result.Stats {
			fmt.Fprintf(out, "\t\t%v: %v\n", stat.Label, formatStat(stat.Reference))
		}
		fmt.Fprintln(out, "\tPlayer Impl Stats:")
		for _, stat := range result.Stats {
			fmt.Fprintf(out, "\t\t%v: %v\n", stat.Label, formatStat(stat.Candidate))
		}

	case Fail:
		mismatch := result.Comparison.Index()
		fmt.Fprintf(out, "[ %v ] : %v\n", failColor.Sprint("FAIL"), name)
		printTrace(out, "Expected", result.Reference, mismatch)
		printTrace(out, "Actual", result.Candidate, mismatch)
		if p.verbose {
			expected := Empty[string]()
			if mismatch < len(result.Reference) {
				expected = Some(result.Reference[mismatch])
			}
			actual := Empty[string]()
			if mismatch < len(result.Candidate) {
				actual = Some(result.Candidate[mismatch])
			}
			dump := spew.Sdump(expected.ValueOr("<missing>"), actual.ValueOr("<missing>"))
			fmt.Fprintf(out, "\tDivergence at line %v:\n%v\n", mismatch, Indent(strings.TrimSpace(dump), "\t\t"))
		}

	case Inconclusive:
		fmt.Fprintf(out, "[ %v ] : %v\n", warningColor.Sprint("????"), name)
		fmt.Fprintln(out, Indent(result.Err.Message(), "\t"))
	}
}

func writeSummary(out io.Writer, report Report) {
	switch {
	case report.AllPassed():
		okColor.Fprintln(out, "ALL TESTS PASSED!")
	case len(report.Failed()) > 0:
		failColor.Fprintln(out, "TEST FAILED!")
	default:
		warningColor.Fprintln(out, "TESTS INCONCLUSIVE!")
	}

	fmt.Fprintln(out)
	headerColor.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "\tPASSED: %v/%v\n", len(report.Passed()), len(report.Cases))
	if len(report.Failed()) > 0 {
		fmt.Fprintf(out, "\tFAILED: %v\n", len(report.Failed()))
	}
	if len(report.Inconclusive()) > 0 {
		fmt.Fprintf(out, "\tINCONCLUSIVE: %v\n", len(report.Inconclusive()))
	}

	if report.Summary.IsEmpty() {
		fmt.Fprintf(out, "\tno statistics: %v\n", report.SummaryErr.Message())
		return
	}

	summary := report.Summary.Value()
	for _, label := range summary.Labels() {
		change := summary.MeanChange[label]
		fmt.Fprintf(out, "\t%v_INCR: %v (%+.2f%%)\n", label, change, change*100)
	}
}

// PrintCase writes the whole block at once so that a live footer is only
// redrawn once per case.
func (p *Printer) PrintCase(result CaseResult) {
	buffer := bytes.Buffer{}
	p.writeCase(&buffer, result)
	_, _ = p.out.Write(buffer.Bytes())
}

func (p *Printer) PrintSummary(report Report) {
	buffer := bytes.Buffer{}
	writeSummary(&buffer, report)
	_, _ = p.out.Write(buffer.Bytes())
}
