package hypothesis

import "context"

// FetchProfile fetches the profile of the authenticated user, or the
// anonymous profile for unauthenticated requests.
//
//	GET /profile
func FetchProfile(ctx context.Context, conn ConnectionOptions) (*Profile, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}

	resp, err := do(ctx, conn, "profile", nil)
	if err != nil {
		return nil, err
	}
	return decode[Profile]("profile", resp)
}

// FetchProfileGroups fetches the groups the authenticated user is a
// member of.
//
//	GET /profile/groups
func FetchProfileGroups(ctx context.Context, conn ConnectionOptions) ([]Group, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}

	resp, err := do(ctx, conn, "profile/groups", nil)
	if err != nil {
		return nil, err
	}
	return validateOutput[[]Group]("profile groups", resp.Body)
}
