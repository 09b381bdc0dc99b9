package toy

import (
	"testing"

	"github.com/mistertoy/mistertoy-server/pkg/apperr"
	"github.com/mistertoy/mistertoy-server/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseFilter_Defaults(t *testing.T) {
	f, err := ParseFilter(RawFilter{})
	require.NoError(t, err)

	assert.Empty(t, f.Name)
	assert.Nil(t, f.InStock)
	assert.Nil(t, f.Sort)
	assert.Equal(t, repository.DefaultPage(), f.Page)
	assert.Equal(t, bson.M{}, f.Criteria(), "absent fields yield the match-all predicate")
}

func TestParseFilter_InStockCoercion(t *testing.T) {
	for raw, want := range map[string]bool{"true": true, "1": true, "false": false, "0": false} {
		f, err := ParseFilter(RawFilter{InStock: raw})
		require.NoError(t, err)
		require.NotNil(t, f.InStock)
		assert.Equal(t, want, *f.InStock, "raw value %q", raw)
	}

	for _, raw := range []string{"yes", "maybe", "TRUEISH", "2"} {
		_, err := ParseFilter(RawFilter{InStock: raw})
		assert.True(t, apperr.IsValidation(err), "raw value %q should be rejected", raw)
	}
}

func TestParseFilter_PropagatesSortAndPageErrors(t *testing.T) {
	_, err := ParseFilter(RawFilter{SortBy: "price", SortDir: "sideways"})
	assert.True(t, apperr.IsValidation(err))

	_, err = ParseFilter(RawFilter{PageIdx: "-1"})
	assert.True(t, apperr.IsValidation(err))
}

func TestCriteria_NameIsCaseInsensitiveSubstring(t *testing.T) {
	f, err := ParseFilter(RawFilter{Name: "bear"})
	require.NoError(t, err)

	criteria := f.Criteria()
	regex, ok := criteria["name"].(primitive.Regex)
	require.True(t, ok, "name predicate should be a regex, got %T", criteria["name"])
	assert.Equal(t, "bear", regex.Pattern)
	assert.Equal(t, "i", regex.Options)
}

func TestCriteria_LabelsAnyOf(t *testing.T) {
	f, err := ParseFilter(RawFilter{Labels: []string{"doll", "baby"}})
	require.NoError(t, err)

	assert.Equal(t, bson.M{"labels": bson.M{"$in": []string{"doll", "baby"}}}, f.Criteria())

	// An empty list is treated as absent.
	f, err = ParseFilter(RawFilter{Labels: []string{}})
	require.NoError(t, err)
	assert.Equal(t, bson.M{}, f.Criteria())
}

func TestCriteria_CombinesWithAND(t *testing.T) {
	f, err := ParseFilter(RawFilter{Name: "bear", InStock: "true", Labels: []string{"plush"}})
	require.NoError(t, err)

	criteria := f.Criteria()
	require.Len(t, criteria, 3)
	assert.Equal(t, true, criteria["inStock"])
	assert.Equal(t, bson.M{"$in": []string{"plush"}}, criteria["labels"])
}

func TestOptions_ScenarioBearFirstPage(t *testing.T) {
	f, err := ParseFilter(RawFilter{Name: "bear", InStock: "true", PageIdx: "0", PageSize: "4"})
	require.NoError(t, err)

	opts := f.Options()
	assert.Equal(t, int64(0), opts.Page.Offset())
	assert.Equal(t, int64(4), opts.Page.Limit())

	regex := opts.Criteria["name"].(primitive.Regex)
	assert.True(t, matches(regex, "Teddy Bear"))
	assert.True(t, matches(regex, "Bear Trap"))
	assert.False(t, matches(regex, "Dino"))
	assert.Equal(t, true, opts.Criteria["inStock"])
}
