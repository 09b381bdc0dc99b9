package repository

import (
	"testing"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseSort(t *testing.T) {
	t.Run("no field means no sort", func(t *testing.T) {
		sort, err := ParseSort("", "desc")
		require.NoError(t, err)
		assert.Nil(t, sort)
	})

	t.Run("empty order defaults to ascending", func(t *testing.T) {
		sort, err := ParseSort("price", "")
		require.NoError(t, err)
		require.NotNil(t, sort)
		assert.Equal(t, SortAsc, sort.Order)
		assert.Equal(t, 1, sort.Direction())
	})

	t.Run("descending", func(t *testing.T) {
		sort, err := ParseSort("name", "desc")
		require.NoError(t, err)
		assert.Equal(t, -1, sort.Direction())
	})

	t.Run("unknown order is rejected", func(t *testing.T) {
		for _, order := range []string{"true", "1", "DESC", "down", "descending"} {
			_, err := ParseSort("price", order)
			assert.True(t, apperr.IsValidation(err), "order %q should be rejected", order)
		}
	})
}

func TestParsePage(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		page, err := ParsePage("", "")
		require.NoError(t, err)
		assert.Equal(t, Page{Idx: 0, Size: 4}, page)
	})

	t.Run("explicit values", func(t *testing.T) {
		page, err := ParsePage("3", "10")
		require.NoError(t, err)
		assert.Equal(t, int64(30), page.Offset())
		assert.Equal(t, int64(10), page.Limit())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, raw := range [][2]string{{"-1", ""}, {"", "-4"}, {"abc", ""}, {"", "x"}, {"1.5", ""}} {
			_, err := ParsePage(raw[0], raw[1])
			assert.True(t, apperr.IsValidation(err), "input %v should be rejected", raw)
		}
	})
}

func TestQueryOptions_FindOptions(t *testing.T) {
	opts := QueryOptions{
		Criteria: bson.M{"inStock": true},
		Sort:     &Sort{Field: "price", Order: SortDesc},
		Page:     Page{Idx: 2, Size: 4},
	}.FindOptions()

	require.NotNil(t, opts.Sort)
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, opts.Sort)
	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(8), *opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(4), *opts.Limit)
}

func TestQueryOptions_NoSortNoPage(t *testing.T) {
	opts := QueryOptions{Page: Page{Idx: 5, Size: 0}}.FindOptions()
	assert.Nil(t, opts.Sort)
	assert.Nil(t, opts.Skip)
	assert.Nil(t, opts.Limit)
}

func TestParseObjectID(t *testing.T) {
	oid, err := ParseObjectID("64a0c2f3e1a1b2c3d4e5f601")
	require.NoError(t, err)
	assert.Equal(t, "64a0c2f3e1a1b2c3d4e5f601", oid.Hex())

	_, err = ParseObjectID("not-an-id")
	assert.True(t, apperr.IsValidation(err))
}
