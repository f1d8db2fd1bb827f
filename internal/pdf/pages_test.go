package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRangeEmpty(t *testing.T) {
	pages, err := ParsePageRange("", 10)
	require.NoError(t, err)
	assert.Nil(t, pages)

	pages, err = ParsePageRange("   ", 10)
	require.NoError(t, err)
	assert.Nil(t, pages)
}

func TestParsePageRangeSingle(t *testing.T) {
	pages, err := ParsePageRange("3", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, pages)
}

func TestParsePageRangeMixed(t *testing.T) {
	pages, err := ParsePageRange("1,3,5,7-9", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5, 7, 8, 9}, pages)
}

func TestParsePageRangeDedupesAndSorts(t *testing.T) {
	pages, err := ParsePageRange("5,1-3,2,5", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 5}, pages)
}

func TestParsePageRangeOpenEnd(t *testing.T) {
	pages, err := ParsePageRange("2-", 4)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, pages)
}

func TestParsePageRangeEven(t *testing.T) {
	pages, err := ParsePageRange("even", 5)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, pages)
}

func TestParsePageRangeInvalid(t *testing.T) {
	for _, spec := range []string{"a", "1-a", "one,two"} {
		_, err := ParsePageRange(spec, 10)
		assert.Error(t, err, "spec %q", spec)
	}
}

func TestParsePageRangeClampsAndRejectsBeyondEnd(t *testing.T) {
	// A range running past the last page is clamped to it
	pages, err := ParsePageRange("8-12", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 9, 10}, pages)

	// A selection entirely past the last page picks nothing
	_, err = ParsePageRange("11", 10)
	assert.Error(t, err)
}
