package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/s0up4200/hyprest/config"
	"github.com/s0up4200/hyprest/hypothesis"
)

// newClient builds the Hypothesis client for the configured auth mode
func newClient(cfg *config.Config, logger zerolog.Logger) (hypothesis.Client, error) {
	var auth hypothesis.Auth
	switch cfg.Auth.Mode {
	case config.AuthModeUnauthenticated:
		auth = hypothesis.Unauthenticated()
	case config.AuthModeAPIKey:
		auth = hypothesis.APIKey(cfg.Auth.APIKey)
	case config.AuthModeAuthClient:
		auth = hypothesis.AuthClient(cfg.Auth.AuthClient)
	case config.AuthModeAuthClientForwardedUser:
		auth = hypothesis.AuthClientForwardedUser(cfg.Auth.ForwardedUser)
	default:
		return nil, fmt.Errorf("invalid auth mode: %s", cfg.Auth.Mode)
	}

	opts := []hypothesis.Option{
		hypothesis.WithBaseURL(cfg.API.URL),
		hypothesis.WithLogger(logger),
	}
	if cfg.API.Timeout > 0 {
		opts = append(opts, hypothesis.WithTimeout(cfg.API.Timeout))
	}

	return hypothesis.New(auth, opts...)
}

// notPermitted reports an operation the configured auth mode cannot perform
func notPermitted(operation string, c hypothesis.Client) error {
	return fmt.Errorf("%s is not available with auth mode %s", operation, c.Mode())
}

// The interfaces below are satisfied by the capability sets of the clients
// that grant them; the resolvers pick the right one for the configured mode.

type annotationFetcher interface {
	FetchAnnotation(ctx context.Context, id string) (*hypothesis.Annotation, error)
}

type groupLister interface {
	ListGroups(ctx context.Context, query *hypothesis.GroupQuery) ([]hypothesis.Group, error)
}

type groupFetcher interface {
	FetchGroup(ctx context.Context, id string, expand ...string) (*hypothesis.Group, error)
}

type groupCreator interface {
	CreateGroup(ctx context.Context, group hypothesis.NewGroup) (*hypothesis.Group, error)
}

type groupUpdater interface {
	UpdateGroup(ctx context.Context, id string, group hypothesis.UpdatedGroup) (*hypothesis.Group, error)
}

type groupUpserter interface {
	CreateOrUpdateGroup(ctx context.Context, id string, group hypothesis.NewGroup) (*hypothesis.Group, error)
}

type groupMemberLister interface {
	ListGroupMembers(ctx context.Context, id string) ([]hypothesis.User, error)
}

type profileReader interface {
	FetchProfile(ctx context.Context) (*hypothesis.Profile, error)
	FetchProfileGroups(ctx context.Context) ([]hypothesis.Group, error)
}

func annotationFetcherFor(c hypothesis.Client) (annotationFetcher, error) {
	switch c := c.(type) {
	case *hypothesis.UnauthenticatedClient:
		return c.Annotations, nil
	case *hypothesis.APIKeyClient:
		return c.Annotations, nil
	}
	return nil, notPermitted("fetching annotations", c)
}

func annotationEditorFor(c hypothesis.Client) (hypothesis.APIKeyAnnotations, error) {
	if c, ok := c.(*hypothesis.APIKeyClient); ok {
		return c.Annotations, nil
	}
	return hypothesis.APIKeyAnnotations{}, notPermitted("changing annotations", c)
}

func groupListerFor(c hypothesis.Client) (groupLister, error) {
	switch c := c.(type) {
	case *hypothesis.UnauthenticatedClient:
		return c.Groups, nil
	case *hypothesis.APIKeyClient:
		return c.Groups, nil
	}
	return nil, notPermitted("listing groups", c)
}

func groupFetcherFor(c hypothesis.Client) (groupFetcher, error) {
	switch c := c.(type) {
	case *hypothesis.UnauthenticatedClient:
		return c.Groups, nil
	case *hypothesis.APIKeyClient:
		return c.Groups, nil
	case *hypothesis.AuthClientClient:
		return c.Groups, nil
	}
	return nil, notPermitted("fetching groups", c)
}

func groupCreatorFor(c hypothesis.Client) (groupCreator, error) {
	switch c := c.(type) {
	case *hypothesis.APIKeyClient:
		return c.Groups, nil
	case *hypothesis.AuthClientForwardedUserClient:
		return c.Groups, nil
	}
	return nil, notPermitted("creating groups", c)
}

func groupUpdaterFor(c hypothesis.Client) (groupUpdater, error) {
	switch c := c.(type) {
	case *hypothesis.APIKeyClient:
		return c.Groups, nil
	case *hypothesis.AuthClientClient:
		return c.Groups, nil
	case *hypothesis.AuthClientForwardedUserClient:
		return c.Groups, nil
	}
	return nil, notPermitted("updating groups", c)
}

func groupUpserterFor(c hypothesis.Client) (groupUpserter, error) {
	switch c := c.(type) {
	case *hypothesis.APIKeyClient:
		return c.Groups, nil
	case *hypothesis.AuthClientForwardedUserClient:
		return c.Groups, nil
	}
	return nil, notPermitted("creating or replacing groups", c)
}

func groupMemberListerFor(c hypothesis.Client) (groupMemberLister, error) {
	switch c := c.(type) {
	case *hypothesis.UnauthenticatedClient:
		return c.Groups, nil
	case *hypothesis.APIKeyClient:
		return c.Groups, nil
	case *hypothesis.AuthClientClient:
		return c.Groups, nil
	}
	return nil, notPermitted("listing group members", c)
}

func profileReaderFor(c hypothesis.Client) (profileReader, error) {
	switch c := c.(type) {
	case *hypothesis.UnauthenticatedClient:
		return c.Profile, nil
	case *hypothesis.APIKeyClient:
		return c.Profile, nil
	}
	return nil, notPermitted("reading the profile", c)
}
