package binary

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	. "github.com/cricklet/leisertest/internal/helpers"

	"github.com/stretchr/testify/assert"
)

const testInput = "position fen nn9/10/10/10/10/10/10/10/10/9EE W\ngo depth 3\nquit"

func TestCatEchoesStdin(t *testing.T) {
	engine := NewProcessEngine("cat", WithLogger(&SilentLogger))
	assert.Equal(t, "cat", engine.Name())

	output, err := engine.Run(context.Background(), testInput)
	assert.True(t, err.IsNil(), err)
	assert.Equal(t, testInput+"\n", output)
}

func TestInputFileIsPassedAsArgument(t *testing.T) {
	engine := NewProcessEngine("cat", WithInputFile(), WithName("reference"), WithLogger(&SilentLogger))
	assert.Equal(t, "reference", engine.Name())

	for i := 0; i < 3; i++ {
		output, err := engine.Run(context.Background(), testInput)
		assert.True(t, err.IsNil(), err)
		assert.Equal(t, testInput+"\n", output)
	}
}

func TestStderrIsKeptOutOfTheOutput(t *testing.T) {
	engine := NewProcessEngine("sh",
		WithArgs("-c", "echo 'info depth 1 nps 10'; echo oops >&2; echo 'bestmove a0a1'"),
		WithLogger(&SilentLogger))

	output, err := engine.Run(context.Background(), "")
	assert.True(t, err.IsNil(), err)
	assert.Equal(t, "info depth 1 nps 10\nbestmove a0a1\n", output)
}

func TestExitCodeIsAnError(t *testing.T) {
	engine := NewProcessEngine("sh",
		WithArgs("-c", "echo partial; echo broken >&2; exit 3"),
		WithLogger(&SilentLogger))

	output, err := engine.Run(context.Background(), testInput)
	assert.True(t, err.HasError())
	assert.Equal(t, "partial\n", output)

	message := err.Message()
	assert.True(t, strings.Contains(message, "exit status 3"), message)
	assert.True(t, strings.Contains(message, "err: broken"), message)
	assert.True(t, strings.Contains(message, "in:  go depth 3"), message)
}

func TestMissingBinary(t *testing.T) {
	engine := NewProcessEngine("./does-not-exist", WithLogger(&SilentLogger))

	_, err := engine.Run(context.Background(), testInput)
	assert.True(t, err.HasError())
}

func TestTimeout(t *testing.T) {
	engine := NewProcessEngine("sleep", WithArgs("5"), WithTimeout(100*time.Millisecond), WithLogger(&SilentLogger))

	start := time.Now()
	_, err := engine.Run(context.Background(), "")
	assert.True(t, err.HasError())
	assert.True(t, errors.Is(err, context.DeadlineExceeded), err)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestTimeoutKillsChildProcesses(t *testing.T) {
	engine := NewProcessEngine("sh",
		WithArgs("-c", "sleep 3; echo done"),
		WithTimeout(100*time.Millisecond),
		WithLogger(&SilentLogger))

	start := time.Now()
	output, err := engine.Run(context.Background(), "")
	assert.True(t, err.HasError())
	assert.True(t, errors.Is(err, context.DeadlineExceeded), err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.NotContains(t, output, "done")
}

func TestCancelStopsEngine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	engine := NewProcessEngine("sh", WithArgs("-c", "sleep 3 & wait"), WithLogger(&SilentLogger))

	start := time.Now()
	_, err := engine.Run(ctx, "")
	assert.True(t, errors.Is(err, context.Canceled), err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestOverlongLineIsAnError(t *testing.T) {
	// one line past the scanner limit, followed by a normal one
	script := fmt.Sprintf("head -c %d /dev/zero | tr '\\0' a; echo; echo bestmove a0a1", maxLineLength+1)
	engine := NewProcessEngine("sh", WithArgs("-c", script), WithLogger(&SilentLogger))

	_, err := engine.Run(context.Background(), "")
	assert.True(t, err.HasError())
	assert.True(t, errors.Is(err, bufio.ErrTooLong), err)
	assert.Contains(t, err.Message(), "reading stdout")
}

func TestEngineFunc(t *testing.T) {
	engine := EngineFunc("fake", func(ctx context.Context, input string) (string, Error) {
		return strings.ToUpper(input), NilError
	})

	assert.Equal(t, "fake", engine.Name())
	output, err := engine.Run(context.Background(), "bestmove a0a1")
	assert.True(t, err.IsNil(), err)
	assert.Equal(t, "BESTMOVE A0A1", output)
}

func TestRecord(t *testing.T) {
	record := &Record{}
	record.Add(recordIn, "go depth 1")
	record.Add(recordOut, "bestmove a0a1")

	assert.Equal(t, []string{"bestmove a0a1"}, record.Lines(recordOut))
	assert.Equal(t, "> in:  go depth 1\n> out: bestmove a0a1", record.Flush("> "))
}
