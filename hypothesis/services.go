package hypothesis

import "context"

// The capability types below each wrap one family of endpoints. The
// per-mode clients embed only the capabilities their mode grants, so an
// endpoint the mode cannot call is not part of its method set.

type general struct{ conn ConnectionOptions }

// Connection returns the resolved connection options.
func (g general) Connection() ConnectionOptions { return g.conn }

// Root fetches the API index.
func (g general) Root(ctx context.Context) (*IndexResponse, error) {
	return Root(ctx, g.conn)
}

// Search searches annotations.
func (g general) Search(ctx context.Context, query SearchQuery) (*SearchResult, error) {
	return Search(ctx, g.conn, query)
}

type annotationReader struct{ conn ConnectionOptions }

// FetchAnnotation fetches an annotation by ID.
func (a annotationReader) FetchAnnotation(ctx context.Context, id string) (*Annotation, error) {
	return FetchAnnotation(ctx, a.conn, id)
}

type annotationWriter struct{ conn ConnectionOptions }

// CreateAnnotation creates an annotation.
func (a annotationWriter) CreateAnnotation(ctx context.Context, annotation NewAnnotation) (*Annotation, error) {
	return CreateAnnotation(ctx, a.conn, annotation)
}

// UpdateAnnotation updates an annotation.
func (a annotationWriter) UpdateAnnotation(ctx context.Context, id string, annotation NewAnnotation) (*Annotation, error) {
	return UpdateAnnotation(ctx, a.conn, id, annotation)
}

// DeleteAnnotation deletes an annotation and returns its ID.
func (a annotationWriter) DeleteAnnotation(ctx context.Context, id string) (string, error) {
	return DeleteAnnotation(ctx, a.conn, id)
}

type annotationModerator struct{ conn ConnectionOptions }

// FlagAnnotation flags an annotation for moderation.
func (a annotationModerator) FlagAnnotation(ctx context.Context, id string) (bool, error) {
	return FlagAnnotation(ctx, a.conn, id)
}

// HideAnnotation hides an annotation.
func (a annotationModerator) HideAnnotation(ctx context.Context, id string) (bool, error) {
	return HideAnnotation(ctx, a.conn, id)
}

// ShowAnnotation reverses HideAnnotation.
func (a annotationModerator) ShowAnnotation(ctx context.Context, id string) (bool, error) {
	return ShowAnnotation(ctx, a.conn, id)
}

type groupLister struct{ conn ConnectionOptions }

// ListGroups lists the groups visible to the caller.
func (g groupLister) ListGroups(ctx context.Context, query *GroupQuery) ([]Group, error) {
	return ListGroups(ctx, g.conn, query)
}

type groupReader struct{ conn ConnectionOptions }

// FetchGroup fetches a group, optionally expanding related objects.
func (g groupReader) FetchGroup(ctx context.Context, id string, expand ...string) (*Group, error) {
	return FetchGroup(ctx, g.conn, id, expand...)
}

type groupCreator struct{ conn ConnectionOptions }

// CreateGroup creates a private group.
func (g groupCreator) CreateGroup(ctx context.Context, group NewGroup) (*Group, error) {
	return CreateGroup(ctx, g.conn, group)
}

type groupUpdater struct{ conn ConnectionOptions }

// UpdateGroup updates a group.
func (g groupUpdater) UpdateGroup(ctx context.Context, id string, group UpdatedGroup) (*Group, error) {
	return UpdateGroup(ctx, g.conn, id, group)
}

type groupUpserter struct{ conn ConnectionOptions }

// CreateOrUpdateGroup creates the group with the given ID or replaces it.
func (g groupUpserter) CreateOrUpdateGroup(ctx context.Context, id string, group NewGroup) (*Group, error) {
	return CreateOrUpdateGroup(ctx, g.conn, id, group)
}

type groupMemberLister struct{ conn ConnectionOptions }

// ListGroupMembers lists the members of a group.
func (g groupMemberLister) ListGroupMembers(ctx context.Context, id string) ([]User, error) {
	return ListGroupMembers(ctx, g.conn, id)
}

type groupMemberAdder struct{ conn ConnectionOptions }

// AddGroupMember adds a user to a group.
func (g groupMemberAdder) AddGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	return AddGroupMember(ctx, g.conn, groupID, userID)
}

type groupLeaver struct{ conn ConnectionOptions }

// LeaveGroup removes the authenticated user from a group.
func (g groupLeaver) LeaveGroup(ctx context.Context, groupID string) (bool, error) {
	return LeaveGroup(ctx, g.conn, groupID)
}

type profileReader struct{ conn ConnectionOptions }

// FetchProfile fetches the caller's profile.
func (p profileReader) FetchProfile(ctx context.Context) (*Profile, error) {
	return FetchProfile(ctx, p.conn)
}

// FetchProfileGroups lists the caller's groups.
func (p profileReader) FetchProfileGroups(ctx context.Context) ([]Group, error) {
	return FetchProfileGroups(ctx, p.conn)
}

type userManager struct{ conn ConnectionOptions }

// CreateUser creates a user in the auth client's authority.
func (u userManager) CreateUser(ctx context.Context, user NewUser) (*User, error) {
	return CreateUser(ctx, u.conn, user)
}

// FetchUser fetches a user by userid.
func (u userManager) FetchUser(ctx context.Context, userID string) (*User, error) {
	return FetchUser(ctx, u.conn, userID)
}

// UpdateUser updates a user by username.
func (u userManager) UpdateUser(ctx context.Context, username string, user UpdatedUser) (*User, error) {
	return UpdateUser(ctx, u.conn, username, user)
}

// UnauthenticatedAnnotations exposes the annotation endpoints open to anonymous callers.
type UnauthenticatedAnnotations struct {
	annotationReader
}

// APIKeyAnnotations exposes the annotation endpoints available with an API key.
type APIKeyAnnotations struct {
	annotationReader
	annotationWriter
	annotationModerator
}

// UnauthenticatedGroups exposes the group endpoints open to anonymous callers.
type UnauthenticatedGroups struct {
	groupLister
	groupReader
	groupMemberLister
}

// APIKeyGroups exposes the group endpoints available with an API key.
type APIKeyGroups struct {
	groupLister
	groupCreator
	groupReader
	groupUpdater
	groupUpserter
	groupMemberLister
	groupLeaver
}

// AuthClientGroups exposes the group endpoints available to auth clients.
type AuthClientGroups struct {
	groupReader
	groupUpdater
	groupMemberLister
	groupMemberAdder
}

// AuthClientForwardedUserGroups exposes the group endpoints available when
// acting on behalf of a user.
type AuthClientForwardedUserGroups struct {
	groupCreator
	groupUpdater
	groupUpserter
}

// ProfileService exposes the profile endpoints.
type ProfileService struct {
	profileReader
}

// UserService exposes the user management endpoints.
type UserService struct {
	userManager
}
