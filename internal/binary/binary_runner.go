package binary

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	. "github.com/cricklet/leisertest/internal/helpers"
)

const (
	maxLineLength = 4 * 1024 * 1024

	// how long Wait keeps reading output after the process is gone
	waitDelay = 500 * time.Millisecond
)

// Engine runs one test case to completion and returns everything it printed.
type Engine interface {
	Name() string
	Run(ctx context.Context, input string) (string, Error)
}

type engineFunc struct {
	name string
	run  func(ctx context.Context, input string) (string, Error)
}

func (e *engineFunc) Name() string {
	return e.name
}

func (e *engineFunc) Run(ctx context.Context, input string) (string, Error) {
	return e.run(ctx, input)
}

func EngineFunc(name string, run func(ctx context.Context, input string) (string, Error)) Engine {
	return &engineFunc{name, run}
}

// ProcessEngine starts a fresh process for every Run.
type ProcessEngine struct {
	cmdPath string
	cmdName string
	args    []string

	inputAsFile bool
	timeout     Optional[time.Duration]

	Logger Logger
}

var _ Engine = (*ProcessEngine)(nil)

type ProcessEngineOption func(*ProcessEngine)

func WithLogger(logger Logger) ProcessEngineOption {
	return func(e *ProcessEngine) {
		e.Logger = logger
	}
}

func WithName(name string) ProcessEngineOption {
	return func(e *ProcessEngine) {
		e.cmdName = name
	}
}

func WithArgs(args ...string) ProcessEngineOption {
	return func(e *ProcessEngine) {
		e.args = append(e.args, args...)
	}
}

// WithInputFile writes the test case to a temporary file and passes its path
// as the last argument instead of writing it to stdin.
func WithInputFile() ProcessEngineOption {
	return func(e *ProcessEngine) {
		e.inputAsFile = true
	}
}

func WithTimeout(timeout time.Duration) ProcessEngineOption {
	return func(e *ProcessEngine) {
		if timeout > 0 {
			e.timeout = Some(timeout)
		}
	}
}

func NewProcessEngine(cmdPath string, options ...ProcessEngineOption) *ProcessEngine {
	e := &ProcessEngine{
		cmdPath: cmdPath,
		cmdName: filepath.Base(cmdPath),
	}
	for _, option := range options {
		option(e)
	}
	if e.Logger == nil {
		e.Logger = &DefaultLogger
	}
	return e
}

func (e *ProcessEngine) Name() string {
	return e.cmdName
}

func (e *ProcessEngine) CmdPath() string {
	return e.cmdPath
}

func wrapError(e *ProcessEngine, record *Record, err error) Error {
	if IsNil(err) {
		return NilError
	}
	return Wrap(fmt.Errorf("%v: %w\n%v", e.cmdName, err, record.Flush(".  ")))
}

func writeInputFile(input string) (string, Error) {
	f, err := os.CreateTemp("", "leisertest-*")
	if !IsNil(err) {
		return "", Wrap(err)
	}
	_, err = f.WriteString(input)
	closeErr := f.Close()
	if !IsNil(err) {
		return f.Name(), Wrap(err)
	}
	return f.Name(), Wrap(closeErr)
}

// scanLines reads until EOF. After a scan error the rest is discarded so the
// writer never blocks on a full pipe.
func scanLines(reader io.Reader, callback func(string)) Error {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)
	for scanner.Scan() {
		callback(scanner.Text())
	}
	err := scanner.Err()
	if !IsNil(err) {
		_, _ = io.Copy(io.Discard, reader)
		return Wrap(err)
	}
	return NilError
}

func (e *ProcessEngine) Run(ctx context.Context, input string) (string, Error) {
	if e.timeout.HasValue() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout.Value())
		defer cancel()
	}

	record := &Record{}
	for _, line := range Lines(input) {
		record.Add(recordIn, line)
	}

	args := append([]string{}, e.args...)
	if e.inputAsFile {
		path, err := writeInputFile(input)
		if path != "" {
			defer os.Remove(path)
		}
		if !IsNil(err) {
			return "", wrapError(e, record, err)
		}
		args = append(args, path)
	}

	e.Logger.Println(e.cmdPath, args)
	cmd := exec.CommandContext(ctx, e.cmdPath, args...)
	if !e.inputAsFile {
		cmd.Stdin = strings.NewReader(input + "\n")
	}
	killProcessGroupOnCancel(cmd)
	cmd.WaitDelay = waitDelay

	stdoutReader, stdoutWriter := io.Pipe()
	stderrReader, stderrWriter := io.Pipe()
	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	scanErrs := [2]Error{}
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanErrs[0] = scanLines(stdoutReader, func(line string) {
			record.Add(recordOut, line)
		})
	}()
	go func() {
		defer wg.Done()
		scanErrs[1] = scanLines(stderrReader, func(line string) {
			record.Add(recordErr, line)
		})
	}()

	err := cmd.Run()
	stdoutWriter.Close()
	stderrWriter.Close()
	wg.Wait()

	output := strings.Join(record.Lines(recordOut), "\n") + "\n"

	if ctx.Err() != nil {
		return output, wrapError(e, record, ctx.Err())
	}
	if !IsNil(err) {
		return output, wrapError(e, record, err)
	}
	if scanErrs[0].HasError() {
		return output, Join(wrapError(e, record, fmt.Errorf("reading stdout")), scanErrs[0])
	}
	if scanErrs[1].HasError() {
		return output, Join(wrapError(e, record, fmt.Errorf("reading stderr")), scanErrs[1])
	}

	e.Logger.Printf("%v > %v lines\n", e.cmdName, len(record.Lines(recordOut)))
	return output, NilError
}
