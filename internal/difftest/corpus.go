package difftest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	. "github.com/cricklet/leisertest/internal/helpers"
	"github.com/cricklet/leisertest/internal/sampler"
)

const testFilePrefix = "rand_t"

type TestFile struct {
	Name  string
	Input string
}

func MakeDirIfMissing(dir string) Error {
	_, err := os.Stat(dir)
	if IsNil(err) {
		return NilError
	}
	err = os.MkdirAll(dir, 0755)
	if !IsNil(err) {
		return Wrap(err)
	}
	return NilError
}

// GenerateCorpus writes n sampled test cases into dir as rand_t0 ... rand_t<n-1>.
func GenerateCorpus(dir string, n int, s *sampler.Sampler, progress ProgressBar) ([]string, Error) {
	err := MakeDirIfMissing(dir)
	if !IsNil(err) {
		return nil, err
	}

	paths := []string{}
	for i := 0; i < n; i++ {
		testCase, err := s.SampleTestCase()
		if !IsNil(err) {
			return paths, err
		}

		path := filepath.Join(dir, fmt.Sprint(testFilePrefix, i))
		err = Wrap(os.WriteFile(path, []byte(testCase.String()), 0644))
		if !IsNil(err) {
			return paths, err
		}
		paths = append(paths, path)
		progress.Add(1)
	}
	progress.Close()

	return paths, NilError
}

func splitTrailingNumber(name string) (string, int, bool) {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return name, 0, false
	}
	n, err := strconv.Atoi(name[i:])
	if !IsNil(err) {
		return name, 0, false
	}
	return name[:i], n, true
}

// sorts rand_t2 before rand_t10
func naturalLess(a string, b string) bool {
	prefixA, numA, okA := splitTrailingNumber(a)
	prefixB, numB, okB := splitTrailingNumber(b)
	if okA && okB && prefixA == prefixB && numA != numB {
		return numA < numB
	}
	return a < b
}

// ReadCorpus loads every regular, non-hidden file in dir.
func ReadCorpus(dir string) ([]TestFile, Error) {
	entries, err := WrapReturn(os.ReadDir(dir))
	if !IsNil(err) {
		return nil, err
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Slice(names, func(i, j int) bool {
		return naturalLess(names[i], names[j])
	})

	files := []TestFile{}
	for _, name := range names {
		input, err := WrapReturn(os.ReadFile(filepath.Join(dir, name)))
		if !IsNil(err) {
			return files, err
		}
		files = append(files, TestFile{Name: name, Input: string(input)})
	}
	return files, NilError
}
