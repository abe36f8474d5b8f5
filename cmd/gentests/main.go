package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/pkg/profile"

	"github.com/cricklet/leisertest/internal/config"
	"github.com/cricklet/leisertest/internal/difftest"
	. "github.com/cricklet/leisertest/internal/helpers"
	"github.com/cricklet/leisertest/internal/sampler"
)

func usage() {
	fmt.Println("usage:")
	fmt.Println(" > gentests <num_tests> <test_dir>")
	fmt.Println(" > gentests <num_tests> <test_dir> profile")
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
		p := profile.Start(profile.ProfilePath("./data/gentests"))
		defer p.Stop()
	}
	args = FilterSlice(args, func(arg string) bool {
		return arg != "profile"
	})

	if len(args) != 2 {
		usage()
		return 1
	}

	numTests, err := strconv.Atoi(args[0])
	if !IsNil(err) || numTests < 1 {
		fmt.Fprintf(os.Stderr, "num_tests must be a positive integer, got %q\n", args[0])
		return 1
	}
	testDir := args[1]

	cfg, cfgErr := config.Load()
	if cfgErr.HasError() {
		panic(cfgErr)
	}

	logger, logErr := LoggerForStyle(os.Stderr, cfg.Logs.Style, cfg.Logs.Level)
	if logErr.HasError() {
		panic(logErr)
	}

	seed := cfg.Sampler.Seed.ValueOr(time.Now().UnixNano())
	s, samplerErr := sampler.New(cfg.Board,
		sampler.WithSeed(seed),
		sampler.WithMaxRetries(cfg.Sampler.MaxRetries),
		sampler.WithLogger(logger),
	)
	if samplerErr.HasError() {
		panic(samplerErr)
	}

	logger.Printf("generating %v tests in %v (%vx%v, seed %v)\n",
		numTests, testDir, cfg.Board.Rows, cfg.Board.Cols, seed)

	paths, genErr := difftest.GenerateCorpus(testDir, numTests, s,
		CreateTerminalProgressBar(numTests, "generating"))
	if genErr.HasError() {
		panic(genErr)
	}

	logger.Printf("wrote %v tests\n", len(paths))
	return 0
}

func main() {
	os.Exit(runMain(os.Args[1:]))
}
