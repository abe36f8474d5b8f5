package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestCaseString(t *testing.T) {
	testCase := TestCase{Position: "nn9/10/10/10/10/10/10/10/10/9EE W", Depth: 4}
	assert.Equal(t,
		"position fen nn9/10/10/10/10/10/10/10/10/9EE W\ngo depth 4\nquit",
		testCase.String())

	parsed, err := ParseTestCase(testCase.String())
	assert.True(t, err.IsNil(), err)
	assert.Equal(t, testCase, parsed)

	parsed, err = ParseTestCase(testCase.String() + "\r\n\n")
	assert.True(t, err.IsNil(), err)
	assert.Equal(t, testCase, parsed)
}

func TestParseTestCaseErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"position fen 10/10 W\ngo depth 4",
		"position startpos\ngo depth 4\nquit",
		"position fen 10/10 W\ngo movetime 4\nquit",
		"position fen 10/10 W\ngo depth four\nquit",
		"position fen 10/10 W\ngo depth 4\nstop",
	} {
		_, err := ParseTestCase(s)
		assert.True(t, err.HasError(), s)
	}
}
