package hypothesis

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
)

const (
	// DefaultAPIURL is the public Hypothesis service
	DefaultAPIURL = "https://hypothes.is/api"
	// MediaType is the versioned media type sent in every Accept header
	MediaType = "application/vnd.hypothesis.v1+json"
)

// Header names understood by ConnectionOptions
const (
	HeaderAccept        = "Accept"
	HeaderHost          = "Host"
	HeaderContentLength = "Content-Length"
	HeaderAuthorization = "Authorization"
	HeaderForwardedUser = "X-Forwarded-User"
)

// ConnectionOptions is the resolved base URL and header set used for API
// calls. The endpoint functions accept it directly; the clients build one
// per auth mode.
type ConnectionOptions struct {
	BaseURL string
	Headers map[string]string

	// HTTPClient performs the requests. Nil means http.DefaultClient.
	HTTPClient *http.Client
	// Logger receives debug events for each request. Nil disables logging.
	Logger *zerolog.Logger
}

// CommonHeaders returns the headers every request carries.
func CommonHeaders() map[string]string {
	return map[string]string{HeaderAccept: MediaType}
}

// Validate checks the base URL and the header set.
func (o ConnectionOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.BaseURL, validation.Required, validation.By(httpURL)),
		validation.Field(&o.Headers,
			validation.Required,
			validation.Map(
				validation.Key(HeaderAccept, validation.Required, validation.In(MediaType)),
				validation.Key(HeaderHost).Optional(),
				validation.Key(HeaderContentLength).Optional(),
				validation.Key(HeaderAuthorization, validation.Required).Optional(),
				validation.Key(HeaderForwardedUser, validation.Required).Optional(),
			),
			validation.By(singleAuthScheme),
		),
	)
}

func (o ConnectionOptions) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return http.DefaultClient
}

func (o ConnectionOptions) logger() zerolog.Logger {
	if o.Logger != nil {
		return *o.Logger
	}
	return zerolog.Nop()
}

func httpURL(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func singleAuthScheme(value any) error {
	headers, _ := value.(map[string]string)
	_, bearer := headers[HeaderAuthorization]
	_, forwarded := headers[HeaderForwardedUser]
	if bearer && forwarded {
		return fmt.Errorf("only one of %s and %s may be set", HeaderAuthorization, HeaderForwardedUser)
	}
	return nil
}
