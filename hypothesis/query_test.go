package hypothesis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{
			name: "empty",
			want: "",
		},
		{
			name:   "keeps order",
			params: Params{}.Add("uri", "https://example.com/a b").Add("limit", 20).Add("order", "asc"),
			want:   "uri=https%3A%2F%2Fexample.com%2Fa+b&limit=20&order=asc",
		},
		{
			name:   "falsy values are encoded",
			params: Params{}.Add("offset", 0).Add("_separate_replies", false).Add("text", ""),
			want:   "offset=0&_separate_replies=false&text=",
		},
		{
			name:   "repeated keys for slices",
			params: Params{}.Add("expand", []string{"organization", "scopes"}),
			want:   "expand=organization&expand=scopes",
		},
		{
			name:   "floats",
			params: Params{}.Add("score", 1.5),
			want:   "score=1.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeQuery(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeQueryUnsupportedType(t *testing.T) {
	_, err := EncodeQuery(Params{}.Add("limit", 10).Add("when", struct{}{}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncoding))

	var encErr *EncodingError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, "when", encErr.Key)
}

func TestParseQueryRoundTrip(t *testing.T) {
	params := Params{}.
		Add("user", "acct:alice@hypothes.is").
		Add("tags", []string{"one", "two words"}).
		Add("text", "a&b=c")

	qs, err := EncodeQuery(params)
	require.NoError(t, err)

	parsed, err := ParseQuery("?" + qs)
	require.NoError(t, err)
	assert.Equal(t, params, parsed)
}

func TestParseQueryLosesTypes(t *testing.T) {
	params := Params{}.
		Add("tags", []string{"only"}).
		Add("references", []string{}).
		Add("limit", 0).
		Add("_separate_replies", false)

	qs, err := EncodeQuery(params)
	require.NoError(t, err)
	assert.Equal(t, "tags=only&limit=0&_separate_replies=false", qs)

	parsed, err := ParseQuery(qs)
	require.NoError(t, err)
	assert.Equal(t, Params{
		{Key: "tags", Value: "only"},
		{Key: "limit", Value: "0"},
		{Key: "_separate_replies", Value: "false"},
	}, parsed)
}

func TestWithQuery(t *testing.T) {
	path, err := withQuery("groups", nil)
	require.NoError(t, err)
	assert.Equal(t, "groups", path)

	path, err = withQuery("groups/abc", GroupQuery{Expand: []string{ExpandOrganization}}.Params())
	require.NoError(t, err)
	assert.Equal(t, "groups/abc?expand=organization", path)
}

func TestSearchQueryParams(t *testing.T) {
	limit := 0
	replies := true
	q := SearchQuery{
		Limit:           &limit,
		User:            "acct:alice@hypothes.is",
		URLParts:        "example.com",
		Sort:            "updated",
		SeparateReplies: &replies,
	}

	qs, err := EncodeQuery(q.Params())
	require.NoError(t, err)
	assert.Equal(t, "sort=updated&url.parts=example.com&user=acct%3Aalice%40hypothes.is&limit=0&_separate_replies=true", qs)
}

func TestSearchQueryEmptyStringsAreUnset(t *testing.T) {
	offset := 0
	q := SearchQuery{Text: "", User: "", Tags: []string{}, Offset: &offset}

	qs, err := EncodeQuery(q.Params())
	require.NoError(t, err)
	assert.Equal(t, "offset=0", qs)

	qs, err = EncodeQuery(Params{}.Add("text", "").Add("user", ""))
	require.NoError(t, err)
	assert.Equal(t, "text=&user=", qs)
}
