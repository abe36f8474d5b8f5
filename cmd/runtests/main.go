package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/pkg/profile"

	"github.com/cricklet/leisertest/internal/binary"
	"github.com/cricklet/leisertest/internal/config"
	"github.com/cricklet/leisertest/internal/difftest"
	. "github.com/cricklet/leisertest/internal/helpers"
)

func usage() {
	fmt.Println("usage:")
	fmt.Println(" > runtests <player_executable> <test_dir>")
	fmt.Println(" > runtests <player_executable> <test_dir> verbose")
	fmt.Println(" > runtests <player_executable> <test_dir> profile")
}

func engineOptions(cfg *config.Config, logger Logger) []binary.ProcessEngineOption {
	options := []binary.ProcessEngineOption{binary.WithLogger(logger)}
	if cfg.Engines.InputAsFile {
		options = append(options, binary.WithInputFile())
	}
	if cfg.Engines.Timeout > 0 {
		options = append(options, binary.WithTimeout(cfg.Engines.Timeout))
	}
	return options
}

// progressFor keeps a live footer when the logger draws one and otherwise
// logs a throttled progress line.
func progressFor(logger Logger, total int) ProgressBar {
	live, ok := logger.(*LiveLogger)
	if !ok {
		return CreateProgressBar(os.Stderr, total, "tests")
	}
	done := 0
	return ProgressBar{
		Set: func(i int) {
			done = i
			live.SetFooter(fmt.Sprintf("%v/%v", done, total), 0)
		},
		Add: func(i int) {
			done += i
			live.SetFooter(fmt.Sprintf("%v/%v", done, total), 0)
		},
		Close: func() {
			live.SetFooter("", 0)
		},
	}
}

// reportWriter sends the report through the live logger when there is one,
// so its footer redraws never erase report lines.
func reportWriter(logger Logger) io.Writer {
	if live, ok := logger.(*LiveLogger); ok {
		return live.Writer()
	}
	return os.Stdout
}

func run(playerPath string, testDir string, verbose bool) int {
	cfg, err := config.Load()
	if err.HasError() {
		panic(err)
	}

	logger, err := LoggerForStyle(os.Stderr, cfg.Logs.Style, cfg.Logs.Level)
	if err.HasError() {
		panic(err)
	}

	files, err := difftest.ReadCorpus(testDir)
	if err.HasError() {
		panic(err)
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "no tests found in %v\n", testDir)
		return 1
	}

	out := reportWriter(logger)
	printer := difftest.NewPrinter(out, difftest.WithVerbose(verbose))
	printer.Header("Running Leiserchess tests")
	printer.Setting("reference", cfg.Engines.ReferencePath)
	printer.Setting("player", playerPath)
	printer.Setting("tests", len(files))
	printer.Setting("parallelism", cfg.Engines.Parallelism)
	printer.Setting("fail fast", cfg.Engines.FailFast)
	fmt.Fprintln(out)

	reference := binary.NewProcessEngine(cfg.Engines.ReferencePath,
		append(engineOptions(cfg, logger), binary.WithName("reference"))...)
	player := binary.NewProcessEngine(playerPath,
		append(engineOptions(cfg, logger), binary.WithName("player"))...)

	runner := difftest.NewRunner(reference, player,
		difftest.WithLogger(logger),
		difftest.WithParallelism(cfg.Engines.Parallelism),
		difftest.WithFailFast(cfg.Engines.FailFast),
		difftest.WithProgress(progressFor(logger, len(files))),
		difftest.WithOnResult(printer.PrintCase),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := runner.RunTests(ctx, files)
	fmt.Fprintln(out)
	printer.PrintSummary(report)

	if !report.AllPassed() {
		return 1
	}
	return 0
}

func runMain(args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, fmt.Sprint(r))
			fmt.Fprintln(os.Stderr, string(debug.Stack()))
			code = 2
		}
	}()

	if Contains(args, "profile") {
		p := profile.Start(profile.ProfilePath("./data/runtests"))
		defer p.Stop()
	}
	positional := FilterSlice(args, func(arg string) bool {
		return arg != "profile" && arg != "verbose"
	})
	if len(positional) != 2 {
		usage()
		return 1
	}

	return run(positional[0], positional[1], Contains(args, "verbose"))
}

func main() {
	os.Exit(runMain(os.Args[1:]))
}
