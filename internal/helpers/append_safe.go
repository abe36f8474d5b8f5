package helpers

import (
	"sync"
)

func AppendSafe[T any](m *sync.Mutex, slice *[]T, items ...T) {
	m.Lock()
	defer m.Unlock()
	*slice = append(*slice, items...)
}
