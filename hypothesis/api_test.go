package hypothesis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annotationJSON = `{
	"id": "Qk4ZsJ4bEe6Rm1dPTHdMXA",
	"created": "2024-03-01T10:00:00.000000+00:00",
	"updated": "2024-03-02T10:00:00.000000+00:00",
	"user": "acct:alice@hypothes.is",
	"uri": "https://example.com/article",
	"text": "Worth a second read",
	"tags": ["review", "go"],
	"group": "__world__",
	"permissions": {"read": ["group:__world__"], "admin": ["acct:alice@hypothes.is"]},
	"target": [{
		"source": "https://example.com/article",
		"selector": [
			{"type": "TextQuoteSelector", "exact": "second read", "prefix": "a ", "suffix": "."},
			{"type": "TextPositionSelector", "start": 10, "end": 21},
			{"type": "FragmentSelector", "value": "p1", "conformsTo": "https://tools.ietf.org/html/rfc3236", "extra": true}
		]
	}],
	"document": {"title": ["An article"]},
	"links": {"html": "https://hypothes.is/a/Qk4ZsJ4bEe6Rm1dPTHdMXA", "incontext": "https://hyp.is/Qk4ZsJ4bEe6Rm1dPTHdMXA"},
	"hidden": false,
	"flagged": false,
	"user_info": {"display_name": "Alice"}
}`

const groupJSON = `{
	"id": "6d4Rq2E1",
	"groupid": null,
	"name": "Reading group",
	"links": {"html": "https://hypothes.is/groups/6d4Rq2E1/reading-group"},
	"organization": {"id": "__default__", "default": true, "logo": "https://hypothes.is/logo.svg", "name": "Hypothesis"},
	"public": false,
	"scopes": {"enforced": false, "uri_patterns": []},
	"scoped": false,
	"type": "private"
}`

func TestFetchAnnotation(t *testing.T) {
	conn, hits := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/annotations/Qk4ZsJ4bEe6Rm1dPTHdMXA", r.URL.Path)
		_, _ = io.WriteString(w, annotationJSON)
	})

	annotation, err := FetchAnnotation(context.Background(), conn, "Qk4ZsJ4bEe6Rm1dPTHdMXA")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	assert.Equal(t, "acct:alice@hypothes.is", annotation.User)
	assert.Equal(t, []string{"review", "go"}, annotation.Tags)
	assert.Equal(t, "Alice", annotation.DisplayName())
	assert.Equal(t, "An article", annotation.Title())
	assert.False(t, annotation.IsReply())
	assert.Equal(t, 2024, annotation.CreatedAt().Year())

	require.Len(t, annotation.Target, 1)
	require.Len(t, annotation.Target[0].Selector, 3)
	assert.Equal(t, SelectorTextQuote, annotation.Target[0].Selector[0].Type)
	require.NotNil(t, annotation.Target[0].Selector[1].End)
	assert.Equal(t, 21, *annotation.Target[0].Selector[1].End)

	var links map[string]string
	require.NoError(t, json.Unmarshal(annotation.Links, &links))
	assert.Equal(t, "https://hyp.is/Qk4ZsJ4bEe6Rm1dPTHdMXA", links["incontext"])
}

func TestFetchAnnotationRejectsUnexpectedShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown field",
			body: `{"id":"a","created":"x","updated":"x","user":"u","uri":"u","text":"","tags":[],"group":"g","permissions":{},"target":[],"document":{"title":[]},"links":{},"hidden":false,"flagged":false,"color":"red"}`,
		},
		{
			name: "missing id",
			body: `{"created":"x","updated":"x","user":"u","uri":"u","text":"","tags":[],"group":"g","permissions":{},"target":[],"document":{"title":[]},"links":{},"hidden":false,"flagged":false}`,
		},
		{
			name: "strict selector",
			body: `{"id":"a","created":"x","updated":"x","user":"u","uri":"u","text":"","tags":[],"group":"g","permissions":{},"target":[{"selector":[{"type":"TextQuoteSelector","exact":"e","extra":1}]}],"document":{"title":[]},"links":{},"hidden":false,"flagged":false}`,
		},
		{
			name: "not json",
			body: `<html>maintenance</html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := FetchAnnotation(context.Background(), conn, "a")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestInputValidationSkipsNetwork(t *testing.T) {
	conn, hits := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()
	limit := 500

	_, err := CreateGroup(ctx, conn, NewGroup{Name: "ab"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = CreateAnnotation(ctx, conn, NewAnnotation{Text: "no uri"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = FetchAnnotation(ctx, conn, "")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = Search(ctx, conn, SearchQuery{Limit: &limit})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = FetchGroup(ctx, conn, "abc", "members")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = CreateUser(ctx, conn, NewUser{Authority: "example.com", Username: "bob", Email: "not-an-email"})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = AddGroupMember(ctx, conn, "abc", "")
	assert.True(t, errors.Is(err, ErrValidation))

	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestFetchGroupExpand(t *testing.T) {
	conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/groups/6d4Rq2E1", r.URL.Path)
		assert.Equal(t, "expand=organization&expand=scopes", r.URL.RawQuery)
		_, _ = io.WriteString(w, groupJSON)
	})

	group, err := FetchGroup(context.Background(), conn, "6d4Rq2E1", ExpandOrganization, ExpandScopes)
	require.NoError(t, err)
	assert.Equal(t, GroupTypePrivate, group.Type)
	require.NotNil(t, group.Organization)
	assert.True(t, group.Organization.Expanded())
	assert.Equal(t, "Hypothesis", group.Organization.Name)
	assert.Nil(t, group.GroupID)
}

func TestListGroups(t *testing.T) {
	var rawQuery string
	conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `[{"id":"__world__","groupid":null,"name":"Public","links":{},"organization":"__default__","public":true,"scoped":false,"type":"open"}]`)
	})

	groups, err := ListGroups(context.Background(), conn, nil)
	require.NoError(t, err)
	assert.Empty(t, rawQuery)
	require.Len(t, groups, 1)
	assert.Equal(t, "__default__", groups[0].Organization.ID)
	assert.False(t, groups[0].Organization.Expanded())

	_, err = ListGroups(context.Background(), conn, &GroupQuery{Authority: "hypothes.is", DocumentURI: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "authority=hypothes.is&document_uri=https%3A%2F%2Fexample.com", rawQuery)
}

func TestSearch(t *testing.T) {
	conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "tag=review&limit=1", r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"total":1,"rows":[`+annotationJSON+`]}`)
	})

	limit := 1
	result, err := Search(context.Background(), conn, SearchQuery{Tag: "review", Limit: &limit})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Qk4ZsJ4bEe6Rm1dPTHdMXA", result.Rows[0].ID)
}

func TestAnnotationWrites(t *testing.T) {
	var method, path string
	var body map[string]any
	conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		body = nil
		if r.ContentLength > 0 {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		}
		switch {
		case r.Method == http.MethodDelete && r.URL.Path == "/annotations/abc":
			_, _ = io.WriteString(w, `{"id":"abc","deleted":true}`)
		case r.Method == http.MethodPut || r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = io.WriteString(w, annotationJSON)
		}
	})
	ctx := context.Background()

	_, err := CreateAnnotation(ctx, conn, NewAnnotation{
		URI:  "https://example.com/article",
		Text: "Worth a second read",
		Tags: []string{"review"},
		Target: &NewTarget{Selector: []Selector{
			{Type: SelectorTextQuote, Exact: "second read"},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/annotations", path)
	assert.Equal(t, "https://example.com/article", body["uri"])

	_, err = UpdateAnnotation(ctx, conn, "abc", NewAnnotation{URI: "https://example.com/article", Text: "edited"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "edited", body["text"])

	id, err := DeleteAnnotation(ctx, conn, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	ok, err := FlagAnnotation(ctx, conn, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/annotations/abc/flag", path)

	ok, err = HideAnnotation(ctx, conn, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/annotations/abc/hide", path)

	ok, err = ShowAnnotation(ctx, conn, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/annotations/abc/hide", path)
}

func TestGroupMembership(t *testing.T) {
	var method, path string
	conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `[{"authority":"hypothes.is","username":"alice","email":"alice@example.com","userid":"acct:alice@hypothes.is","display_name":"Alice"}]`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	members, err := ListGroupMembers(ctx, conn, "abc")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "acct:alice@hypothes.is", members[0].UserID)

	ok, err := AddGroupMember(ctx, conn, "abc", "acct:bob@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/groups/abc/members/acct:bob@example.com", path)

	ok, err = RemoveGroupMember(ctx, conn, "abc", "acct:carol@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/groups/abc/members/acct:carol@example.com", path)

	ok, err = LeaveGroup(ctx, conn, "abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/groups/abc/members/me", path)
}

func TestUsers(t *testing.T) {
	var method, path string
	conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_, _ = io.WriteString(w, `{"authority":"example.com","username":"bob","email":"bob@example.com","display_name":"Bob","userid":"acct:bob@example.com"}`)
	})
	ctx := context.Background()

	user, err := CreateUser(ctx, conn, NewUser{Authority: "example.com", Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "acct:bob@example.com", user.UserID)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/users", path)

	_, err = FetchUser(ctx, conn, "acct:bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "/users/acct:bob@example.com", path)

	name := "Robert"
	_, err = UpdateUser(ctx, conn, "bob", UpdatedUser{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "/users/bob", path)
}

func TestFetchProfile(t *testing.T) {
	conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profile", r.URL.Path)
		_, _ = io.WriteString(w, `{"authority":"hypothes.is","features":{"embed_cachebuster":false},"preferences":{"show_sidebar_tutorial":true},"userid":null,"groups":[{"id":"__world__","name":"Public","public":true}]}`)
	})

	profile, err := FetchProfile(context.Background(), conn)
	require.NoError(t, err)
	assert.False(t, profile.Authenticated())
	require.Len(t, profile.Groups, 1)
	assert.True(t, profile.Groups[0].Public)
}

// indexLinks builds the links tree of a GET / response.
func indexLinks() map[string]any {
	route := func(method, path string, desc any) map[string]any {
		return map[string]any{"method": method, "url": "https://hypothes.is/api/" + path, "desc": desc}
	}
	return map[string]any{
		"annotation": map[string]any{
			"create": route("POST", "annotations", "Create an annotation"),
			"delete": route("DELETE", "annotations/:id", "Delete an annotation"),
			"read":   route("GET", "annotations/:id", "Fetch an annotation"),
			"update": route("PATCH", "annotations/:id", "Update an annotation"),
			"flag":   route("PUT", "annotations/:id/flag", "Flag an annotation for review"),
			"hide":   route("PUT", "annotations/:id/hide", "Hide an annotation as a group moderator"),
			"unhide": route("DELETE", "annotations/:id/hide", "Unhide an annotation as a group moderator"),
		},
		"search": route("GET", "search", "Search for annotations"),
		"bulk": map[string]any{
			"action":     route("POST", "bulk", "Perform multiple operations in one call"),
			"annotation": route("POST", "bulk/annotation", nil),
		},
		"group": map[string]any{
			"member": map[string]any{
				"add":    route("POST", "groups/:pubid/members/:userid", "Add the user in the request params to a group."),
				"delete": route("DELETE", "groups/:pubid/members/:userid", "Remove a member from a group"),
			},
			"create":           route("POST", "groups", "Create a new group"),
			"read":             route("GET", "groups/:id", "Fetch a group"),
			"members":          map[string]any{"read": route("GET", "groups/:pubid/members", "Fetch all members of a group")},
			"update":           route("PATCH", "groups/:id", "Update a group"),
			"create_or_update": route("PUT", "groups/:id", "Create or update a group"),
		},
		"groups": map[string]any{"read": route("GET", "groups", "Fetch the user's groups")},
		"links":  route("GET", "links", "URL templates for generating URLs for HTML pages"),
		"profile": map[string]any{
			"read":   route("GET", "profile", "Fetch the user's profile"),
			"groups": map[string]any{"read": route("GET", "profile/groups", "Fetch the current user's groups")},
			"update": route("PATCH", "profile", "Update a user's preferences"),
		},
		"user": map[string]any{
			"create": route("POST", "users", "Create a new user"),
			"read":   route("GET", "users/:userid", "Fetch a user"),
			"update": route("PATCH", "users/:username", "Update a user"),
		},
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestRoot(t *testing.T) {
	body := mustJSON(t, map[string]any{"links": indexLinks()})
	conn, hits := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		_, _ = io.WriteString(w, body)
	})

	index, err := Root(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	assert.Equal(t, http.MethodGet, index.Links.Search.Method)
	require.NotNil(t, index.Links.Search.Desc)
	assert.Equal(t, "Search for annotations", *index.Links.Search.Desc)
	assert.Nil(t, index.Links.Bulk.Annotation.Desc)
	assert.Equal(t, http.MethodPut, index.Links.Group.CreateOrUpdate.Method)
	assert.Equal(t, "https://hypothes.is/api/users/:username", index.Links.User.Update.URL)
	assert.Nil(t, index.Links.Index)
}

func TestRootRejectsUnknownMethod(t *testing.T) {
	links := indexLinks()
	links["search"].(map[string]any)["method"] = "HEAD"
	body := mustJSON(t, map[string]any{"links": links})
	conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	})

	_, err := Root(context.Background(), conn)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestGroupWrites(t *testing.T) {
	type request struct {
		method string
		path   string
		body   map[string]any
	}
	var got request
	conn, _ := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		got = request{method: r.Method, path: r.URL.Path}
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got.body))
		_, _ = io.WriteString(w, groupJSON)
	})
	ctx := context.Background()

	tests := []struct {
		name string
		call func() (*Group, error)
		want request
	}{
		{
			name: "create",
			call: func() (*Group, error) {
				return CreateGroup(ctx, conn, NewGroup{Name: "Reading group", Description: "Weekly papers"})
			},
			want: request{
				method: http.MethodPost,
				path:   "/groups",
				body:   map[string]any{"name": "Reading group", "description": "Weekly papers"},
			},
		},
		{
			name: "update",
			call: func() (*Group, error) {
				return UpdateGroup(ctx, conn, "6d4Rq2E1", UpdatedGroup{Name: "Paper club"})
			},
			want: request{
				method: http.MethodPatch,
				path:   "/groups/6d4Rq2E1",
				body:   map[string]any{"name": "Paper club"},
			},
		},
		{
			name: "create or update",
			call: func() (*Group, error) {
				return CreateOrUpdateGroup(ctx, conn, "6d4Rq2E1", NewGroup{Name: "Paper club", GroupID: "group:club@example.com"})
			},
			want: request{
				method: http.MethodPut,
				path:   "/groups/6d4Rq2E1",
				body:   map[string]any{"name": "Paper club", "groupid": "group:club@example.com"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, err := tt.call()
			require.NoError(t, err)
			assert.Equal(t, "6d4Rq2E1", group.ID)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchProfileGroups(t *testing.T) {
	conn, hits := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/profile/groups", r.URL.Path)
		_, _ = io.WriteString(w, `[`+groupJSON+`]`)
	})

	groups, err := FetchProfileGroups(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	require.Len(t, groups, 1)
	assert.Equal(t, "Reading group", groups[0].Name)
}

func TestTypedEndpointsRejectTextBody(t *testing.T) {
	conn, hits := testConnection(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "OK")
	})
	ctx := context.Background()

	_, err := FetchGroup(ctx, conn, "6d4Rq2E1")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = Root(ctx, conn)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = DeleteAnnotation(ctx, conn, "abc")
	assert.True(t, errors.Is(err, ErrValidation))

	assert.Equal(t, int32(3), atomic.LoadInt32(hits))

	resp, err := Fetch(ctx, conn, "groups/6d4Rq2E1", nil)
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Value())
}
