package hypothesis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// AuthMode is the authentication strategy a client was built with
type AuthMode int

const (
	// ModeUnauthenticated sends no credentials
	ModeUnauthenticated AuthMode = iota
	// ModeAPIKey authenticates as a user with a developer API key
	ModeAPIKey
	// ModeAuthClient authenticates as an OAuth auth client
	ModeAuthClient
	// ModeAuthClientForwardedUser acts as a user on behalf of an auth client
	ModeAuthClientForwardedUser
)

// String returns the string representation of an AuthMode
func (m AuthMode) String() string {
	switch m {
	case ModeUnauthenticated:
		return "unauthenticated"
	case ModeAPIKey:
		return "api_key"
	case ModeAuthClient:
		return "auth_client"
	case ModeAuthClientForwardedUser:
		return "auth_client_forwarded_user"
	default:
		return "unknown"
	}
}

// Auth selects the authentication mode. Build one with Unauthenticated,
// APIKey, AuthClient or AuthClientForwardedUser.
type Auth interface {
	Mode() AuthMode
	headers() map[string]string
	credential() string
}

type unauthenticatedAuth struct{}

func (unauthenticatedAuth) Mode() AuthMode             { return ModeUnauthenticated }
func (unauthenticatedAuth) headers() map[string]string { return nil }
func (unauthenticatedAuth) credential() string         { return "" }

type apiKeyAuth struct{ key string }

func (apiKeyAuth) Mode() AuthMode { return ModeAPIKey }
func (a apiKeyAuth) headers() map[string]string {
	return map[string]string{HeaderAuthorization: "Bearer " + a.key}
}
func (a apiKeyAuth) credential() string { return a.key }

type authClientAuth struct{ token string }

func (authClientAuth) Mode() AuthMode { return ModeAuthClient }

// The token is expected to be the already encoded client_id:client_secret
// pair and is sent verbatim.
func (a authClientAuth) headers() map[string]string {
	return map[string]string{HeaderAuthorization: "Basic " + a.token}
}
func (a authClientAuth) credential() string { return a.token }

type forwardedUserAuth struct{ user string }

func (forwardedUserAuth) Mode() AuthMode { return ModeAuthClientForwardedUser }
func (a forwardedUserAuth) headers() map[string]string {
	return map[string]string{HeaderForwardedUser: a.user}
}
func (a forwardedUserAuth) credential() string { return a.user }

// Unauthenticated sends no credentials.
func Unauthenticated() Auth { return unauthenticatedAuth{} }

// APIKey authenticates with a developer API key.
func APIKey(key string) Auth { return apiKeyAuth{key: key} }

// AuthClient authenticates as an auth client.
func AuthClient(token string) Auth { return authClientAuth{token: token} }

// AuthClientForwardedUser acts on behalf of user as an auth client.
func AuthClientForwardedUser(user string) Auth { return forwardedUserAuth{user: user} }

// Option configures a client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zerolog.Logger
}

// WithBaseURL points the client at another Hypothesis instance.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTimeout sets a timeout on the HTTP client. There is none by default.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithLogger enables debug logging of requests.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = &logger
	}
}

// connectionFor resolves the connection options for auth.
func connectionFor(auth Auth, opts []Option) (ConnectionOptions, error) {
	if auth == nil {
		return ConnectionOptions{}, &ValidationError{Target: "auth", Err: errors.New("auth is required")}
	}
	if auth.Mode() != ModeUnauthenticated && auth.credential() == "" {
		return ConnectionOptions{}, &ValidationError{Target: "auth", Err: fmt.Errorf("%s credential must not be empty", auth.Mode())}
	}

	o := clientOptions{baseURL: DefaultAPIURL}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if o.timeout > 0 {
		c := http.Client{}
		if httpClient != nil {
			c = *httpClient
		}
		c.Timeout = o.timeout
		httpClient = &c
	}

	headers := CommonHeaders()
	for k, v := range auth.headers() {
		headers[k] = v
	}

	conn := ConnectionOptions{
		BaseURL:    o.baseURL,
		Headers:    headers,
		HTTPClient: httpClient,
		Logger:     o.logger,
	}
	if err := validateConnection(conn); err != nil {
		return ConnectionOptions{}, err
	}
	return conn, nil
}

// Client is implemented by the four auth-specific clients. Use a type
// switch on the value returned by New to reach the mode's endpoints.
type Client interface {
	Mode() AuthMode
	Connection() ConnectionOptions
	Root(ctx context.Context) (*IndexResponse, error)
	Search(ctx context.Context, query SearchQuery) (*SearchResult, error)
}

// New builds the client matching auth's mode: *UnauthenticatedClient,
// *APIKeyClient, *AuthClientClient or *AuthClientForwardedUserClient.
func New(auth Auth, opts ...Option) (Client, error) {
	conn, err := connectionFor(auth, opts)
	if err != nil {
		return nil, err
	}

	switch auth.(type) {
	case unauthenticatedAuth:
		return newUnauthenticatedClient(conn), nil
	case apiKeyAuth:
		return newAPIKeyClient(conn), nil
	case authClientAuth:
		return newAuthClientClient(conn), nil
	case forwardedUserAuth:
		return newAuthClientForwardedUserClient(conn), nil
	default:
		return nil, &ValidationError{Target: "auth", Err: fmt.Errorf("unsupported auth %T", auth)}
	}
}

// UnauthenticatedClient can read public data only.
type UnauthenticatedClient struct {
	general
	Annotations UnauthenticatedAnnotations
	Groups      UnauthenticatedGroups
	Profile     ProfileService
}

// NewUnauthenticated creates a client that sends no credentials.
func NewUnauthenticated(opts ...Option) (*UnauthenticatedClient, error) {
	conn, err := connectionFor(Unauthenticated(), opts)
	if err != nil {
		return nil, err
	}
	return newUnauthenticatedClient(conn), nil
}

func newUnauthenticatedClient(conn ConnectionOptions) *UnauthenticatedClient {
	return &UnauthenticatedClient{
		general:     general{conn},
		Annotations: UnauthenticatedAnnotations{annotationReader{conn}},
		Groups: UnauthenticatedGroups{
			groupLister:       groupLister{conn},
			groupReader:       groupReader{conn},
			groupMemberLister: groupMemberLister{conn},
		},
		Profile: ProfileService{profileReader{conn}},
	}
}

// Mode returns ModeUnauthenticated
func (*UnauthenticatedClient) Mode() AuthMode { return ModeUnauthenticated }

// APIKeyClient acts as the user owning the API key.
type APIKeyClient struct {
	general
	Annotations APIKeyAnnotations
	Groups      APIKeyGroups
	Profile     ProfileService
}

// NewAPIKey creates a client authenticated by a developer API key.
func NewAPIKey(key string, opts ...Option) (*APIKeyClient, error) {
	conn, err := connectionFor(APIKey(key), opts)
	if err != nil {
		return nil, err
	}
	return newAPIKeyClient(conn), nil
}

func newAPIKeyClient(conn ConnectionOptions) *APIKeyClient {
	return &APIKeyClient{
		general: general{conn},
		Annotations: APIKeyAnnotations{
			annotationReader:    annotationReader{conn},
			annotationWriter:    annotationWriter{conn},
			annotationModerator: annotationModerator{conn},
		},
		Groups: APIKeyGroups{
			groupLister:       groupLister{conn},
			groupCreator:      groupCreator{conn},
			groupReader:       groupReader{conn},
			groupUpdater:      groupUpdater{conn},
			groupUpserter:     groupUpserter{conn},
			groupMemberLister: groupMemberLister{conn},
			groupLeaver:       groupLeaver{conn},
		},
		Profile: ProfileService{profileReader{conn}},
	}
}

// Mode returns ModeAPIKey
func (*APIKeyClient) Mode() AuthMode { return ModeAPIKey }

// AuthClientClient manages users and groups of the auth client's authority.
type AuthClientClient struct {
	general
	Groups AuthClientGroups
	Users  UserService
}

// NewAuthClient creates a client authenticated as an auth client.
func NewAuthClient(token string, opts ...Option) (*AuthClientClient, error) {
	conn, err := connectionFor(AuthClient(token), opts)
	if err != nil {
		return nil, err
	}
	return newAuthClientClient(conn), nil
}

func newAuthClientClient(conn ConnectionOptions) *AuthClientClient {
	return &AuthClientClient{
		general: general{conn},
		Groups: AuthClientGroups{
			groupReader:       groupReader{conn},
			groupUpdater:      groupUpdater{conn},
			groupMemberLister: groupMemberLister{conn},
			groupMemberAdder:  groupMemberAdder{conn},
		},
		Users: UserService{userManager{conn}},
	}
}

// Mode returns ModeAuthClient
func (*AuthClientClient) Mode() AuthMode { return ModeAuthClient }

// AuthClientForwardedUserClient manages groups on behalf of a user.
type AuthClientForwardedUserClient struct {
	general
	Groups AuthClientForwardedUserGroups
}

// NewAuthClientForwardedUser creates a client acting on behalf of user.
func NewAuthClientForwardedUser(user string, opts ...Option) (*AuthClientForwardedUserClient, error) {
	conn, err := connectionFor(AuthClientForwardedUser(user), opts)
	if err != nil {
		return nil, err
	}
	return newAuthClientForwardedUserClient(conn), nil
}

func newAuthClientForwardedUserClient(conn ConnectionOptions) *AuthClientForwardedUserClient {
	return &AuthClientForwardedUserClient{
		general: general{conn},
		Groups: AuthClientForwardedUserGroups{
			groupCreator:  groupCreator{conn},
			groupUpdater:  groupUpdater{conn},
			groupUpserter: groupUpserter{conn},
		},
	}
}

// Mode returns ModeAuthClientForwardedUser
func (*AuthClientForwardedUserClient) Mode() AuthMode { return ModeAuthClientForwardedUser }
