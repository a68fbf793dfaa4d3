package hypothesis

import (
	"context"
	"net/http"
	"net/url"
)

// CreateUser creates a user under the auth client's authority.
//
//	POST /users
func CreateUser(ctx context.Context, conn ConnectionOptions, user NewUser) (*User, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	if err := validateInput("new user", user); err != nil {
		return nil, err
	}

	body, err := marshalBody(user)
	if err != nil {
		return nil, err
	}
	resp, err := do(ctx, conn, "users", &RequestOptions{Method: http.MethodPost, Body: body})
	if err != nil {
		return nil, err
	}
	return decode[User]("user", resp)
}

// FetchUser fetches a user by userid (acct:name@authority).
//
//	GET /users/{user}
func FetchUser(ctx context.Context, conn ConnectionOptions, userID string) (*User, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	if err := validateID("user id", userID); err != nil {
		return nil, err
	}

	resp, err := do(ctx, conn, "users/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	return decode[User]("user", resp)
}

// UpdateUser updates a user's email or display name.
//
//	PATCH /users/{username}
func UpdateUser(ctx context.Context, conn ConnectionOptions, username string, user UpdatedUser) (*User, error) {
	if err := validateConnection(conn); err != nil {
		return nil, err
	}
	if err := validateID("username", username); err != nil {
		return nil, err
	}
	if err := validateInput("updated user", user); err != nil {
		return nil, err
	}

	body, err := marshalBody(user)
	if err != nil {
		return nil, err
	}
	resp, err := do(ctx, conn, "users/"+url.PathEscape(username), &RequestOptions{Method: http.MethodPatch, Body: body})
	if err != nil {
		return nil, err
	}
	return decode[User]("user", resp)
}
