package helpers

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger interface {
	Println(v ...any)
	Printf(format string, v ...any)
	Print(v ...any)
}

type _defaultLogger struct {
}

func (l *_defaultLogger) Println(v ...any) {
	log.Println(v...)
}
func (l *_defaultLogger) Printf(format string, v ...any) {
	log.Printf(format, v...)
}
func (l *_defaultLogger) Print(v ...any) {
	log.Print(v...)
}

var DefaultLogger = _defaultLogger{}

type _silentLogger struct {
}

func (l *_silentLogger) Println(v ...any)               {}
func (l *_silentLogger) Printf(format string, v ...any) {}
func (l *_silentLogger) Print(v ...any)                 {}

var SilentLogger = _silentLogger{}

type _funcLogger struct {
	f func(string)
}

func FuncLogger(f func(string)) *_funcLogger {
	return &_funcLogger{f}
}

func (l *_funcLogger) Println(v ...any) {
	l.f(fmt.Sprintln(v...))
}
func (l *_funcLogger) Printf(format string, v ...any) {
	l.f(fmt.Sprintf(format, v...))
}
func (l *_funcLogger) Print(v ...any) {
	l.f(fmt.Sprint(v...))
}

// ZerologLogger routes the Logger interface into a zerolog.Logger at a fixed
// level.
type ZerologLogger struct {
	Logger zerolog.Logger
	Level  zerolog.Level
}

var _ Logger = &ZerologLogger{}

func (l *ZerologLogger) Println(v ...any) {
	l.Logger.WithLevel(l.Level).Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}
func (l *ZerologLogger) Printf(format string, v ...any) {
	l.Logger.WithLevel(l.Level).Msg(strings.TrimSuffix(fmt.Sprintf(format, v...), "\n"))
}
func (l *ZerologLogger) Print(v ...any) {
	l.Logger.WithLevel(l.Level).Msg(fmt.Sprint(v...))
}

// NewZerologLogger writes human readable lines when console is set and json
// otherwise.
func NewZerologLogger(out io.Writer, console bool, level zerolog.Level) *ZerologLogger {
	if out == nil {
		out = os.Stderr
	}
	if console {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &ZerologLogger{Logger: logger, Level: level}
}

// LoggerForStyle picks a Logger by name: plain, console, json, live or silent.
// Every style except silent writes to out.
func LoggerForStyle(out io.Writer, style string, level string) (Logger, Error) {
	if out == nil {
		out = os.Stderr
	}
	zerologLevel, err := zerolog.ParseLevel(level)
	if !IsNil(err) {
		return nil, Wrap(err)
	}

	switch style {
	case "", "plain":
		return FuncLogger(func(s string) {
			fmt.Fprint(out, s)
		}), NilError
	case "console":
		return NewZerologLogger(out, true, zerologLevel), NilError
	case "json":
		return NewZerologLogger(out, false, zerologLevel), NilError
	case "live":
		return NewLiveLogger(out), NilError
	case "silent":
		return &SilentLogger, NilError
	}
	return nil, Errorf("unknown log style %q", style)
}
