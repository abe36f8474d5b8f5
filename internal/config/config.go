package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	// loads a .env file from the working directory, if there is one
	_ "github.com/joho/godotenv/autoload"

	"github.com/cricklet/leisertest/internal/fen"
	. "github.com/cricklet/leisertest/internal/helpers"
)

type Config struct {
	Logs    LogConfig
	Board   fen.Config
	Sampler SamplerConfig
	Engines EngineConfig
}

type LogConfig struct {
	Style string // plain, console, json or live
	Level string
}

type SamplerConfig struct {
	MaxRetries int
	Seed       Optional[int64]
}

type EngineConfig struct {
	ReferencePath string
	Timeout       time.Duration
	InputAsFile   bool
	Parallelism   int
	FailFast      bool
}

const envPrefix = "LEISERTEST_"

type lookup func(key string) (string, bool)

func readInt(env lookup, key string, fallback int) (int, Error) {
	value, ok := env(envPrefix + key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, NilError
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if !IsNil(err) {
		return fallback, Errorf("%v%v: %v", envPrefix, key, err)
	}
	return n, NilError
}

func readBool(env lookup, key string, fallback bool) (bool, Error) {
	value, ok := env(envPrefix + key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, NilError
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if !IsNil(err) {
		return fallback, Errorf("%v%v: %v", envPrefix, key, err)
	}
	return b, NilError
}

func readString(env lookup, key string, fallback string) string {
	value, ok := env(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func Load() (*Config, Error) {
	return load(os.LookupEnv)
}

func load(env lookup) (*Config, Error) {
	board := fen.DefaultConfig()
	cfg := &Config{
		Logs: LogConfig{
			Style: readString(env, "LOG_STYLE", "plain"),
			Level: readString(env, "LOG_LEVEL", "info"),
		},
		Engines: EngineConfig{
			ReferencePath: readString(env, envPrefix+"REFERENCE_EXE", "./ref_player/leiserchess"),
		},
	}

	errs := ErrorRef{}
	var err Error

	board.Rows, err = readInt(env, "ROWS", board.Rows)
	errs.Add(err)
	board.Cols, err = readInt(env, "COLS", board.Cols)
	errs.Add(err)
	board.PawnsPerSide, err = readInt(env, "PAWNS_PER_SIDE", board.PawnsPerSide)
	errs.Add(err)
	board.MaxDepth, err = readInt(env, "MAX_DEPTH", board.MaxDepth)
	errs.Add(err)
	cfg.Board = board

	cfg.Sampler.MaxRetries, err = readInt(env, "MAX_RETRIES", 100000)
	errs.Add(err)

	if seed, ok := env(envPrefix + "SEED"); ok && strings.TrimSpace(seed) != "" {
		n, parseErr := strconv.ParseInt(strings.TrimSpace(seed), 10, 64)
		if !IsNil(parseErr) {
			errs.Add(Errorf("%vSEED: %v", envPrefix, parseErr))
		} else {
			cfg.Sampler.Seed = Some(n)
		}
	}

	if timeout, ok := env(envPrefix + "TIMEOUT"); ok && strings.TrimSpace(timeout) != "" {
		d, parseErr := time.ParseDuration(strings.TrimSpace(timeout))
		if !IsNil(parseErr) {
			errs.Add(Errorf("%vTIMEOUT: %v", envPrefix, parseErr))
		} else {
			cfg.Engines.Timeout = d
		}
	}

	cfg.Engines.Parallelism, err = readInt(env, "PARALLELISM", 1)
	errs.Add(err)
	cfg.Engines.FailFast, err = readBool(env, "FAIL_FAST", true)
	errs.Add(err)
	cfg.Engines.InputAsFile, err = readBool(env, "INPUT_FILE", true)
	errs.Add(err)

	if cfg.Engines.Parallelism < 1 {
		errs.Add(Errorf("%vPARALLELISM must be at least 1, got %v", envPrefix, cfg.Engines.Parallelism))
	}

	if errs.HasError() {
		return nil, errs.Error()
	}
	return cfg, NilError
}
