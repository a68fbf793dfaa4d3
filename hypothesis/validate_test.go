package hypothesis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withField returns the JSON object in doc with key set to value, or removed
// when value is omitted.
func withField(t *testing.T, doc, key string, value ...any) string {
	t.Helper()
	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &fields))
	if len(value) == 0 {
		delete(fields, key)
	} else {
		fields[key] = value[0]
	}
	return mustJSON(t, fields)
}

const userJSON = `{"authority":"example.com","username":"bob","email":"bob@example.com","display_name":"Bob","identities":[{"provider":"orcid","provider_unique_id":"0000-0002"}],"userid":"acct:bob@example.com"}`

const profileJSON = `{"authority":"hypothes.is","features":{},"preferences":{},"userid":"acct:alice@hypothes.is","groups":[{"id":"__world__","name":"Public","public":true}],"user_info":{"display_name":null}}`

func TestResponsesRequireKeys(t *testing.T) {
	fetchAnnotation := func(ctx context.Context, conn ConnectionOptions) error {
		_, err := FetchAnnotation(ctx, conn, "a")
		return err
	}
	fetchGroup := func(ctx context.Context, conn ConnectionOptions) error {
		_, err := FetchGroup(ctx, conn, "g")
		return err
	}
	fetchUser := func(ctx context.Context, conn ConnectionOptions) error {
		_, err := FetchUser(ctx, conn, "acct:bob@example.com")
		return err
	}
	fetchProfile := func(ctx context.Context, conn ConnectionOptions) error {
		_, err := FetchProfile(ctx, conn)
		return err
	}
	search := func(ctx context.Context, conn ConnectionOptions) error {
		_, err := Search(ctx, conn, SearchQuery{})
		return err
	}
	root := func(ctx context.Context, conn ConnectionOptions) error {
		_, err := Root(ctx, conn)
		return err
	}
	deleteAnnotation := func(ctx context.Context, conn ConnectionOptions) error {
		_, err := DeleteAnnotation(ctx, conn, "a")
		return err
	}

	noSearchDesc := indexLinks()
	delete(noSearchDesc["search"].(map[string]any), "desc")
	noBulk := indexLinks()
	delete(noBulk, "bulk")

	tests := []struct {
		name string
		call func(context.Context, ConnectionOptions) error
		body string
		key  string
	}{
		{
			name: "annotation with identity only",
			call: fetchAnnotation,
			body: `{"id":"a","created":"c","updated":"u","user":"acct:x@y","uri":"https://e","group":"__world__"}`,
			key:  "tags",
		},
		{name: "annotation without text", call: fetchAnnotation, body: withField(t, annotationJSON, "text"), key: "text"},
		{name: "annotation without tags", call: fetchAnnotation, body: withField(t, annotationJSON, "tags"), key: "tags"},
		{name: "annotation with null tags", call: fetchAnnotation, body: withField(t, annotationJSON, "tags", nil), key: "tags"},
		{name: "annotation without permissions", call: fetchAnnotation, body: withField(t, annotationJSON, "permissions"), key: "permissions"},
		{name: "annotation without target", call: fetchAnnotation, body: withField(t, annotationJSON, "target"), key: "target"},
		{name: "annotation without document", call: fetchAnnotation, body: withField(t, annotationJSON, "document"), key: "document"},
		{name: "annotation without links", call: fetchAnnotation, body: withField(t, annotationJSON, "links"), key: "links"},
		{name: "annotation without hidden", call: fetchAnnotation, body: withField(t, annotationJSON, "hidden"), key: "hidden"},
		{name: "annotation without flagged", call: fetchAnnotation, body: withField(t, annotationJSON, "flagged"), key: "flagged"},
		{name: "annotation with null references", call: fetchAnnotation, body: withField(t, annotationJSON, "references", nil), key: "references"},
		{
			name: "document without title",
			call: fetchAnnotation,
			body: withField(t, annotationJSON, "document", map[string]any{}),
			key:  "title",
		},
		{
			name: "user info without display name",
			call: fetchAnnotation,
			body: withField(t, annotationJSON, "user_info", map[string]any{}),
			key:  "display_name",
		},
		{
			name: "group with identity only",
			call: fetchGroup,
			body: `{"id":"g","name":"Reading group","organization":null,"type":"private"}`,
			key:  "public",
		},
		{name: "group without groupid", call: fetchGroup, body: withField(t, groupJSON, "groupid"), key: "groupid"},
		{name: "group without links", call: fetchGroup, body: withField(t, groupJSON, "links"), key: "links"},
		{name: "group without public", call: fetchGroup, body: withField(t, groupJSON, "public"), key: "public"},
		{name: "group without scoped", call: fetchGroup, body: withField(t, groupJSON, "scoped"), key: "scoped"},
		{name: "group without organization", call: fetchGroup, body: withField(t, groupJSON, "organization"), key: "organization"},
		{
			name: "scopes without uri patterns",
			call: fetchGroup,
			body: withField(t, groupJSON, "scopes", map[string]any{"enforced": true}),
			key:  "uri_patterns",
		},
		{
			name: "organization without logo",
			call: fetchGroup,
			body: withField(t, groupJSON, "organization", map[string]any{"id": "__default__", "name": "Hypothesis"}),
			key:  "logo",
		},
		{name: "user without email", call: fetchUser, body: withField(t, userJSON, "email"), key: "email"},
		{
			name: "identity without provider id",
			call: fetchUser,
			body: withField(t, userJSON, "identities", []any{map[string]any{"provider": "orcid"}}),
			key:  "provider_unique_id",
		},
		{name: "profile without features", call: fetchProfile, body: withField(t, profileJSON, "features"), key: "features"},
		{name: "profile without preferences", call: fetchProfile, body: withField(t, profileJSON, "preferences"), key: "preferences"},
		{name: "profile without userid", call: fetchProfile, body: withField(t, profileJSON, "userid"), key: "userid"},
		{
			name: "profile group without public",
			call: fetchProfile,
			body: withField(t, profileJSON, "groups", []any{map[string]any{"id": "__world__", "name": "Public"}}),
			key:  "public",
		},
		{name: "search result without rows", call: search, body: `{"total":0}`, key: "rows"},
		{name: "search row without tags", call: search, body: `{"total":1,"rows":[` + withField(t, annotationJSON, "tags") + `]}`, key: "tags"},
		{name: "route without desc", call: root, body: mustJSON(t, map[string]any{"links": noSearchDesc}), key: "desc"},
		{name: "index without bulk", call: root, body: mustJSON(t, map[string]any{"links": noBulk}), key: "bulk"},
		{name: "deleted annotation without id", call: deleteAnnotation, body: `{"deleted":true}`, key: "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})

			err := tt.call(context.Background(), conn)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestResponsesAcceptNullableKeys(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "null permissions and links", body: withField(t, withField(t, annotationJSON, "permissions", nil), "links", nil)},
		{name: "null display name", body: withField(t, annotationJSON, "user_info", map[string]any{"display_name": nil})},
		{name: "without optional keys", body: withField(t, annotationJSON, "user_info")},
		{name: "empty strings", body: withField(t, withField(t, annotationJSON, "text", ""), "tags", []any{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := FetchAnnotation(context.Background(), conn, "a")
			assert.NoError(t, err)
		})
	}

	conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, withField(t, groupJSON, "organization", nil))
	})
	group, err := FetchGroup(context.Background(), conn, "g")
	require.NoError(t, err)
	assert.Nil(t, group.Organization)
	assert.Nil(t, group.GroupID)
}

func TestSelectorKeys(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{name: "empty exact", json: `{"type":"TextQuoteSelector","exact":""}`},
		{name: "empty range containers", json: `{"type":"RangeSelector","startContainer":"","endContainer":"","startOffset":0,"endOffset":0}`},
		{name: "empty epub url", json: `{"type":"EPUBContentSelector","url":""}`},
		{name: "missing exact", json: `{"type":"TextQuoteSelector","prefix":"a"}`, wantErr: "exact"},
		{name: "null exact", json: `{"type":"TextQuoteSelector","exact":null}`, wantErr: "exact"},
		{name: "missing conforms to", json: `{"type":"FragmentSelector","value":"p1"}`, wantErr: "conformsTo"},
		{name: "missing end offset", json: `{"type":"RangeSelector","startContainer":"/p","endContainer":"/p","startOffset":0}`, wantErr: "endOffset"},
		{name: "missing page index", json: `{"type":"PageSelector","label":"iv"}`, wantErr: "index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var selector Selector
			err := json.Unmarshal([]byte(tt.json), &selector)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, selector.Validate())
		})
	}
}

func TestSelectorWritesRequiredKeys(t *testing.T) {
	data, err := json.Marshal(Selector{Type: SelectorTextQuote})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"TextQuoteSelector","exact":""}`, string(data))

	data, err = json.Marshal(Selector{Type: SelectorTextQuote, Exact: "second read", Prefix: "a "})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"TextQuoteSelector","exact":"second read","prefix":"a "}`, string(data))

	var back Selector
	require.NoError(t, json.Unmarshal([]byte(`{"type":"TextQuoteSelector","exact":""}`), &back))
	assert.NoError(t, back.Validate())
}
