package helpers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

type ProgressBar struct {
	Set   func(int)
	Add   func(int)
	Close func()
}

var SilentProgressBar = ProgressBar{
	func(int) {}, func(int) {}, func() {},
}

// CreateTerminalProgressBar draws an in-place bar on stderr.
func CreateTerminalProgressBar(total int, label string) ProgressBar {
	p := progressbar.Default(int64(total), label)
	return ProgressBar{
		func(i int) {
			_ = p.Set(i)
		}, func(i int) {
			_ = p.Add(i)
		}, func() {
			_ = p.Finish()
		},
	}
}

func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if !IsNil(err) {
		return 80
	}
	return MaxInt(80, MinInt(120, width))
}

func unitForDuration(d time.Duration) time.Duration {
	if d < time.Microsecond {
		return time.Nanosecond
	}
	if d < time.Millisecond {
		return time.Microsecond
	}
	if d < time.Second {
		return time.Millisecond
	}
	if d < time.Minute {
		return time.Second
	}
	return time.Minute
}

func progressLine(label string, value int, total int, elapsed time.Duration, width int) string {
	perSecond := 0
	if elapsed.Seconds() > 0 {
		perSecond = int(float64(value) / elapsed.Seconds())
	}

	percent := float64(value) / float64(total)
	percentStr := fmt.Sprintf("%3d", int(percent*100))
	expectedFinish := time.Duration(float64(elapsed) / percent)
	unit := unitForDuration(elapsed)

	prefix := fmt.Sprintf("%s %s%% ", label, percentStr)
	suffix := fmt.Sprintf(" %v => %v @ %v/s", elapsed.Round(unit), expectedFinish.Round(unit), humanize.Comma(int64(perSecond)))

	textLen := utf8.RuneCountInString(prefix) + utf8.RuneCountInString(suffix)
	totalProgressLen := MaxInt(width-textLen, 0)
	currentProgressLen := MinInt(MaxInt(int(float64(totalProgressLen)*percent), 0), totalProgressLen)
	remainingProgressLen := totalProgressLen - currentProgressLen

	return fmt.Sprintf("%s%s%s%s", prefix, strings.Repeat("=", currentProgressLen), strings.Repeat(" ", remainingProgressLen), suffix)
}

// CreateProgressBar prints a progress line to out, backing off so that long
// runs don't flood the log.
func CreateProgressBar(out io.Writer, total int, label string) ProgressBar {
	if out == nil {
		out = os.Stdout
	}

	value := int32(0)

	lock := sync.Mutex{}
	startTime := time.Now()
	updateDuration := time.Millisecond * 200

	var update = func(forceUpdate bool) {
		lock.Lock()
		defer lock.Unlock()

		shouldUpdate := false
		if time.Since(startTime) > updateDuration || forceUpdate {
			shouldUpdate = true
			updateDuration *= 2
		}

		if shouldUpdate {
			current := int(atomic.LoadInt32(&value))
			if current > total {
				current = total
			} else if current == 0 || total == 0 {
				return
			}

			fmt.Fprintln(out, progressLine(label, current, total, time.Since(startTime), termWidth()))
		}
	}
	return ProgressBar{
		func(i int) {
			atomic.StoreInt32(&value, int32(i))
			update(false)
		},
		func(i int) {
			atomic.AddInt32(&value, int32(i))
			update(false)
		}, func() {
			update(true)
		},
	}
}
