package hypothesis

import (
	"context"
	"net/http"
	"net/url"
)

// SelfMember is the user path segment that refers to the authenticated user.
const SelfMember = "me"

func groupPath(id string) string {
	return "groups/" + url.PathEscape(id)
}

// ListGroups lists the groups applicable to the caller, including the
// user's private groups. query may be nil.
//
//	GET /groups
func ListGroups(ctx context.Context, conn ConnectionOptions, query *GroupQuery) ([]Group, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}

	var params Params
	if query != nil {
		if err := validateInput("group query", *query); err != nil {
			return nil, err
		}
		params = query.Params()
	}

	path, err := withQuery("groups", params)
	if err != nil {
		return nil, err
	}
	resp, err := do(ctx, conn, path, nil)
	if err != nil {
		return nil, err
	}
	return validateOutput[[]Group]("groups", resp.Body)
}

// CreateGroup creates a private group owned by the caller.
//
//	POST /groups
func CreateGroup(ctx context.Context, conn ConnectionOptions, group NewGroup) (*Group, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	if err := validateInput("new group", group); err != nil {
		return nil, err
	}

	body, err := marshalBody(group)
	if err != nil {
		return nil, err
	}
	resp, err := do(ctx, conn, "groups", &RequestOptions{Method: http.MethodPost, Body: body})
	if err != nil {
		return nil, err
	}
	return decode[Group]("group", resp)
}

// FetchGroup fetches a group by its ID. expand names relations to include in
// full, e.g. "organization" and "scopes".
//
//	GET /groups/{id}
func FetchGroup(ctx context.Context, conn ConnectionOptions, id string, expand ...string) (*Group, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	if err := validateID("group id", id); err != nil {
		return nil, err
	}
	query := GroupQuery{Expand: expand}
	if err := validateInput("expand", query); err != nil {
		return nil, err
	}

	path, err := withQuery(groupPath(id), query.Params())
	if err != nil {
		return nil, err
	}
	resp, err := do(ctx, conn, path, nil)
	if err != nil {
		return nil, err
	}
	return decode[Group]("group", resp)
}

// UpdateGroup updates the fields set in group.
//
//	PATCH /groups/{id}
func UpdateGroup(ctx context.Context, conn ConnectionOptions, id string, group UpdatedGroup) (*Group, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	if err := validateID("group id", id); err != nil {
		return nil, err
	}
	if err := validateInput("updated group", group); err != nil {
		return nil, err
	}

	body, err := marshalBody(group)
	if err != nil {
		return nil, err
	}
	resp, err := do(ctx, conn, groupPath(id), &RequestOptions{Method: http.MethodPatch, Body: body})
	if err != nil {
		return nil, err
	}
	return decode[Group]("group", resp)
}

// CreateOrUpdateGroup creates the group with the given ID, or replaces it
// if it exists.
//
//	PUT /groups/{id}
func CreateOrUpdateGroup(ctx context.Context, conn ConnectionOptions, id string, group NewGroup) (*Group, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	if err := validateID("group id", id); err != nil {
		return nil, err
	}
	if err := validateInput("group", group); err != nil {
		return nil, err
	}

	body, err := marshalBody(group)
	if err != nil {
		return nil, err
	}
	resp, err := do(ctx, conn, groupPath(id), &RequestOptions{Method: http.MethodPut, Body: body})
	if err != nil {
		return nil, err
	}
	return decode[Group]("group", resp)
}

// ListGroupMembers lists the members of a group.
//
//	GET /groups/{id}/members
func ListGroupMembers(ctx context.Context, conn ConnectionOptions, id string) ([]User, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	if err := validateID("group id", id); err != nil {
		return nil, err
	}

	resp, err := do(ctx, conn, groupPath(id)+"/members", nil)
	if err != nil {
		return nil, err
	}
	return validateOutput[[]User]("group members", resp.Body)
}

// AddGroupMember adds a user to a group.
//
//	POST /groups/{id}/members/{user}
func AddGroupMember(ctx context.Context, conn ConnectionOptions, groupID, userID string) (bool, error) {
	return groupMemberAction(ctx, conn, groupID, userID, http.MethodPost)
}

// RemoveGroupMember removes a user from a group.
//
//	DELETE /groups/{id}/members/{user}
func RemoveGroupMember(ctx context.Context, conn ConnectionOptions, groupID, userID string) (bool, error) {
	return groupMemberAction(ctx, conn, groupID, userID, http.MethodDelete)
}

// LeaveGroup removes the authenticated user from a group.
//
//	DELETE /groups/{id}/members/me
func LeaveGroup(ctx context.Context, conn ConnectionOptions, groupID string) (bool, error) {
	return groupMemberAction(ctx, conn, groupID, SelfMember, http.MethodDelete)
}

func groupMemberAction(ctx context.Context, conn ConnectionOptions, groupID, userID, method string) (bool, error) {
	if err := validateConnection(conn); err != nil {
		return false, err
	}
	if err := validateID("group id", groupID); err != nil {
		return false, err
	}
	if err := validateID("user id", userID); err != nil {
		return false, err
	}

	path := groupPath(groupID) + "/members/" + url.PathEscape(userID)
	if _, err := do(ctx, conn, path, &RequestOptions{Method: method}); err != nil {
		return false, err
	}
	return true, nil
}
