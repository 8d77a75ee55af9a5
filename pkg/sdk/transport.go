package sdk

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// CredentialSource yields the credential to present on the next request.
// *SessionStore implements it.
type CredentialSource interface {
	Credential() (Credential, bool)
}

// BearerTransport stamps each outbound request with the credential that is
// current at send time. Without a credential the request goes out with no
// Authorization header. It never retries.
type BearerTransport struct {
	Source CredentialSource
	Base   http.RoundTripper
}

var _ http.RoundTripper = (*BearerTransport)(nil)

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.Header.Del("Authorization")

	if t.Source != nil {
		if cred, ok := t.Source.Credential(); ok {
			token := &oauth2.Token{AccessToken: cred.String(), TokenType: "Bearer"}
			token.SetAuthHeader(out)
		}
	}

	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}
	if out.Body != nil && out.Header.Get("Content-Type") == "" {
		out.Header.Set("Content-Type", "application/json")
	}
	if out.Header.Get("Accept") == "" {
		out.Header.Set("Accept", "application/json")
	}

	return t.base().RoundTrip(out)
}

func (t *BearerTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// NewHTTPClient returns an http.Client whose requests carry source's live credential.
func NewHTTPClient(source CredentialSource) *http.Client {
	return &http.Client{
		Transport: &BearerTransport{Source: source},
		Timeout:   defaultHTTPClient().Timeout,
	}
}
