package difftest

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/cricklet/leisertest/internal/binary"
	. "github.com/cricklet/leisertest/internal/helpers"
	"github.com/cricklet/leisertest/internal/sampler"
	"github.com/cricklet/leisertest/internal/trace"
)

type Outcome int

const (
	Pass Outcome = iota
	Fail
	// an engine crashed or printed something the comparator couldn't read
	Inconclusive
)

func (o Outcome) String() string {
	return [3]string{"PASS", "FAIL", "INCONCLUSIVE"}[o]
}

type CaseResult struct {
	Name    string
	Depth   Optional[int]
	Outcome Outcome

	Reference []string
	Candidate []string

	Comparison trace.ComparisonResult
	Stats      []trace.StatPair

	Err Error
}

type Report struct {
	Cases []CaseResult

	// set when fail-fast skipped the remaining cases
	Stopped bool

	Summary    Optional[trace.Summary]
	SummaryErr Error
}

func (r Report) withOutcome(outcome Outcome) []CaseResult {
	return FilterSlice(r.Cases, func(c CaseResult) bool {
		return c.Outcome == outcome
	})
}

func (r Report) Passed() []CaseResult {
	return r.withOutcome(Pass)
}

func (r Report) Failed() []CaseResult {
	return r.withOutcome(Fail)
}

func (r Report) Inconclusive() []CaseResult {
	return r.withOutcome(Inconclusive)
}

func (r Report) AllPassed() bool {
	return !r.Stopped && len(r.Cases) == len(r.Passed())
}

type Runner struct {
	reference binary.Engine
	candidate binary.Engine

	statistics  []trace.Statistic
	failFast    bool
	parallelism int

	onResult func(CaseResult)
	progress ProgressBar

	logger Logger
}

type RunnerOption func(*Runner)

func WithLogger(logger Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithStatistics(statistics ...trace.Statistic) RunnerOption {
	return func(r *Runner) {
		r.statistics = statistics
	}
}

// WithFailFast stops starting new cases after the first one that doesn't pass.
func WithFailFast(failFast bool) RunnerOption {
	return func(r *Runner) {
		r.failFast = failFast
	}
}

func WithParallelism(parallelism int) RunnerOption {
	return func(r *Runner) {
		r.parallelism = MaxInt(parallelism, 1)
	}
}

// WithOnResult is called once per finished case, in completion order.
func WithOnResult(onResult func(CaseResult)) RunnerOption {
	return func(r *Runner) {
		r.onResult = onResult
	}
}

func WithProgress(progress ProgressBar) RunnerOption {
	return func(r *Runner) {
		r.progress = progress
	}
}

func NewRunner(reference binary.Engine, candidate binary.Engine, options ...RunnerOption) *Runner {
	r := &Runner{
		reference:   reference,
		candidate:   candidate,
		statistics:  trace.DefaultStatistics(),
		failFast:    true,
		parallelism: 1,
		onResult:    func(CaseResult) {},
		progress:    SilentProgressBar,
	}
	for _, option := range options {
		option(r)
	}
	if r.logger == nil {
		r.logger = &DefaultLogger
	}
	return r
}

func (r *Runner) runEngines(ctx context.Context, input string) (string, string, Error) {
	var referenceOutput, candidateOutput string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		output, err := r.reference.Run(gctx, input)
		referenceOutput = output
		if !IsNil(err) {
			return Join(Errorf("reference %v", r.reference.Name()), err)
		}
		return nil
	})
	g.Go(func() error {
		output, err := r.candidate.Run(gctx, input)
		candidateOutput = output
		if !IsNil(err) {
			return Join(Errorf("candidate %v", r.candidate.Name()), err)
		}
		return nil
	})

	err := g.Wait()
	return referenceOutput, candidateOutput, Wrap(err)
}

// RunCase feeds the same input to both engines and compares their traces.
func (r *Runner) RunCase(ctx context.Context, name string, input string) CaseResult {
	result := CaseResult{Name: name, Outcome: Inconclusive}

	testCase, err := sampler.ParseTestCase(input)
	if IsNil(err) {
		result.Depth = Some(testCase.Depth)
	}

	referenceOutput, candidateOutput, err := r.runEngines(ctx, input)
	if !IsNil(err) {
		result.Err = err
		return result
	}

	result.Reference, err = trace.ExtractTrace(referenceOutput)
	if !IsNil(err) {
		result.Err = Join(Errorf("reference %v", r.reference.Name()), err)
		return result
	}
	result.Candidate, err = trace.ExtractTrace(candidateOutput)
	if !IsNil(err) {
		result.Err = Join(Errorf("candidate %v", r.candidate.Name()), err)
		return result
	}

	result.Comparison = trace.Compare(result.Reference, result.Candidate)
	if !result.Comparison.IsMatch() {
		result.Outcome = Fail
		return result
	}

	result.Stats, err = trace.ComputeStats(r.statistics, referenceOutput, candidateOutput)
	if !IsNil(err) {
		result.Err = err
		return result
	}

	result.Outcome = Pass
	return result
}

// RunTests runs every file and summarizes the passed ones. Results keep the
// order of files regardless of parallelism.
func (r *Runner) RunTests(ctx context.Context, files []TestFile) Report {
	results := make([]Optional[CaseResult], len(files))
	stopped := atomic.Bool{}
	lock := sync.Mutex{}

	g := errgroup.Group{}
	g.SetLimit(r.parallelism)
	for i := range files {
		if stopped.Load() || ctx.Err() != nil {
			break
		}

		i := i
		g.Go(func() error {
			if stopped.Load() {
				return nil
			}

			result := r.RunCase(ctx, files[i].Name, files[i].Input)
			if result.Outcome != Pass && r.failFast {
				stopped.Store(true)
			}

			lock.Lock()
			results[i] = Some(result)
			r.onResult(result)
			r.progress.Add(1)
			lock.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	r.progress.Close()

	report := Report{}
	for _, result := range results {
		if result.HasValue() {
			report.Cases = append(report.Cases, result.Value())
		}
	}
	report.Stopped = len(report.Cases) < len(files)

	passed := MapSlice(report.Passed(), func(c CaseResult) trace.PassResult {
		return trace.PassResult{Name: c.Name, Stats: c.Stats}
	})
	summary, err := trace.Summarize(passed)
	if IsNil(err) {
		report.Summary = Some(summary)
	} else {
		report.SummaryErr = err
	}

	r.logger.Printf("ran %v of %v tests, %v passed\n", len(report.Cases), len(files), len(passed))
	return report
}

func (r *Runner) RunCorpus(ctx context.Context, dir string) (Report, Error) {
	files, err := ReadCorpus(dir)
	if !IsNil(err) {
		return Report{}, err
	}
	if len(files) == 0 {
		return Report{}, Errorf("no tests found in %v", dir)
	}
	return r.RunTests(ctx, files), NilError
}
