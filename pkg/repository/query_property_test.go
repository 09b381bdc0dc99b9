package repository

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: for all valid page parameters, offset equals idx*size and limit
// equals size, and parsing round-trips through the raw string form.
func TestProperty_PaginationArithmetic(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties := gopter.NewProperties(params)

	properties.Property("offset and limit", prop.ForAll(
		func(idx, size int) bool {
			page, err := ParsePage(strconv.Itoa(idx), strconv.Itoa(size))
			if err != nil {
				return false
			}
			return page.Offset() == int64(idx)*int64(size) && page.Limit() == int64(size)
		},
		gen.IntRange(0, 10000),
		gen.IntRange(0, 1000),
	))

	properties.Property("negative input always rejected", prop.ForAll(
		func(idx int) bool {
			_, err := ParsePage(strconv.Itoa(idx), "")
			return err != nil
		},
		gen.IntRange(-10000, -1),
	))

	properties.TestingRun(t)
}
