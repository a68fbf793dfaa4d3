// Package hypothesis provides a typed client for the Hypothesis annotation API.
//
// Every request and response passes through validation: inputs are checked
// before anything is sent, and response bodies are decoded strictly and
// checked against the expected shape before they are returned.
//
// # Usage
//
// Pick the client for the credentials you hold:
//
//	client, err := hypothesis.NewAPIKey("6879-your-developer-key")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	annotation, err := client.Annotations.FetchAnnotation(ctx, "Qk4ZsJ4bEe6Rm1dPTHdMXA")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Each client only exposes the endpoints its auth mode may call. An
// unauthenticated client has no CreateAnnotation method and an auth client
// has no Profile field. New returns the right client for an Auth value:
//
//	client, err := hypothesis.New(hypothesis.AuthClient(token),
//		hypothesis.WithBaseURL("https://hypothesis.example.com/api"),
//		hypothesis.WithTimeout(30*time.Second),
//	)
//
// The endpoint functions are exported too and take ConnectionOptions
// directly, for callers that manage headers themselves.
//
// # Errors
//
// Failures can be matched with errors.Is against ErrValidation,
// ErrEncoding, ErrUnauthorized, ErrNotFound and ErrConflict, or unwrapped
// with errors.As into *ValidationError, *APIError, *EncodingError and
// *NetworkError.
package hypothesis
