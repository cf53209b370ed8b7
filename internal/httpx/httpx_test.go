package httpx

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeJSON(strings.NewReader(`{"name":"ada"}`), &v))
	assert.Equal(t, "ada", v.Name)

	assert.Error(t, DecodeJSON(strings.NewReader(`{"nope":1}`), &v))
	assert.Error(t, DecodeJSON(strings.NewReader(`{"name":"a"}{"name":"b"}`), &v))
}

func TestParseLimitOffset(t *testing.T) {
	limit, offset, err := ParseLimitOffset(url.Values{}, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, limit)
	assert.Equal(t, 0, offset)

	limit, offset, err = ParseLimitOffset(url.Values{"limit": {"500"}, "offset": {"20"}}, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 20, offset)

	_, _, err = ParseLimitOffset(url.Values{"limit": {"0"}}, 100)
	assert.Error(t, err)
	_, _, err = ParseLimitOffset(url.Values{"offset": {"-1"}}, 100)
	assert.Error(t, err)
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, Page(items, 0, 0))
	assert.Equal(t, []int{3, 4}, Page(items, 2, 2))
	assert.Equal(t, []int{5}, Page(items, 10, 4))
	assert.Empty(t, Page(items, 2, 9))
}
