package binary

import (
	"strings"
	"sync"

	. "github.com/cricklet/leisertest/internal/helpers"
)

const (
	recordIn  = "in:  "
	recordOut = "out: "
	recordErr = "err: "
)

// Record keeps every line written to and read from a process, for error
// messages.
type Record struct {
	lines []string
	lock  sync.Mutex

	noCopy NoCopy
}

func (r *Record) Add(prefix string, line string) {
	AppendSafe(&r.lock, &r.lines, prefix+line)
}

func (r *Record) Lines(prefix string) []string {
	r.lock.Lock()
	defer r.lock.Unlock()

	result := []string{}
	for _, line := range r.lines {
		if after, found := strings.CutPrefix(line, prefix); found {
			result = append(result, after)
		}
	}
	return result
}

func (r *Record) Flush(indent string) string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return Indent(strings.Join(r.lines, "\n"), indent)
}
