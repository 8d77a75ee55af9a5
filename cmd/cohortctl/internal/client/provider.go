package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/terraconstructs/cohort/cmd/cohortctl/internal/auth"
	"github.com/terraconstructs/cohort/pkg/sdk"
)

// ErrNotLoggedIn is the only authentication failure shown to users.
var ErrNotLoggedIn = errors.New("not logged in; please run `cohortctl auth login`")

// Store is the credential persistence the provider builds sessions on.
type Store interface {
	sdk.CredentialStorage
	sdk.RefreshArtifactStore
	SaveRefreshArtifact(artifact string) error
}

// Provider lazily builds the session store and SDK client shared by commands.
type Provider struct {
	host        string
	baseURL     string
	logger      *slog.Logger
	accessToken sdk.Credential // bypasses the credential store (CI, scripts)

	storeOnce sync.Once
	store     Store
	storeErr  error

	sessionOnce sync.Once
	session     *sdk.SessionStore

	sdkOnce   sync.Once
	sdkClient *sdk.Client

	tenantsOnce sync.Once
	tenants     *sdk.TenantClient

	authorizerOnce sync.Once
	authorizer     *sdk.Authorizer
	authorizerErr  error
}

// NewProvider constructs a Provider for the tenant at host. A non-empty baseURL
// bypasses hostname resolution.
func NewProvider(host, baseURL string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{host: host, baseURL: baseURL, logger: logger}
}

// SetStore replaces the file store (tests).
func (p *Provider) SetStore(store Store) {
	p.storeOnce.Do(func() {})
	p.store = store
	p.storeErr = nil
}

// SetAccessToken makes sessions use cred as-is instead of the stored
// credential and refresh artifact.
func (p *Provider) SetAccessToken(cred sdk.Credential) {
	p.accessToken = cred
}

// BaseURL returns the address API calls go to.
func (p *Provider) BaseURL() string {
	if p.baseURL != "" {
		return p.baseURL
	}
	return sdk.ResolveBaseAddress(p.host)
}

// Host returns the configured dashboard hostname.
func (p *Provider) Host() string {
	return p.host
}

// Store returns the credential store.
func (p *Provider) Store() (Store, error) {
	p.storeOnce.Do(func() {
		p.store, p.storeErr = auth.NewFileStore()
	})
	return p.store, p.storeErr
}

// Session returns the session store, running startup on first use.
func (p *Provider) Session(ctx context.Context) (*sdk.SessionStore, error) {
	store, err := p.Store()
	if err != nil {
		return nil, err
	}

	p.sessionOnce.Do(func() {
		opts := []sdk.SessionOption{
			sdk.WithCredentialStorage(store),
			sdk.WithRefreshArtifactStore(store),
			sdk.WithRefreshTransport(&sdk.HTTPRefreshTransport{BaseURL: p.BaseURL()}),
			sdk.WithSessionLogger(p.logger),
		}
		if p.accessToken != "" {
			identity, err := sdk.Decode(p.accessToken)
			switch {
			case err != nil:
				p.logger.Warn("ignoring unreadable access token", "error", err)
			case sdk.IsExpired(p.accessToken, time.Now()):
				p.logger.Warn("ignoring expired access token")
			default:
				// The stored login is left alone, logout included.
				opts = append(opts,
					sdk.WithCredentialStorage(sdk.NewMemoryCredentialStorage("")),
					sdk.WithRefreshArtifactStore(sdk.NewMemoryRefreshStore("")),
					sdk.WithMockSession(identity, p.accessToken),
				)
			}
		}
		p.session = sdk.NewSessionStore(opts...)
		p.session.Subscribe(func(tr sdk.Transition) {
			p.logger.Debug("session transition",
				"reason", string(tr.Reason), "from", tr.From.Phase.String(), "to", tr.To.Phase.String())
		})

		ctx, cancel := ensureTimeout(ctx, 15*time.Second)
		defer cancel()
		p.session.Start(ctx)
	})
	return p.session, nil
}

// Authorizer returns the capability authorizer.
func (p *Provider) Authorizer() (*sdk.Authorizer, error) {
	p.authorizerOnce.Do(func() {
		p.authorizer, p.authorizerErr = sdk.NewAuthorizer()
	})
	return p.authorizer, p.authorizerErr
}

// SDKClient returns a client bound to the session. It does not require the
// session to be authenticated.
func (p *Provider) SDKClient(ctx context.Context) (*sdk.Client, error) {
	session, err := p.Session(ctx)
	if err != nil {
		return nil, err
	}
	authorizer, err := p.Authorizer()
	if err != nil {
		return nil, err
	}

	p.sdkOnce.Do(func() {
		p.sdkClient = sdk.NewClient(p.host,
			sdk.WithBaseURL(p.BaseURL()),
			sdk.WithSession(session),
			sdk.WithAuthorizer(authorizer),
			sdk.WithLogger(p.logger),
		)
	})
	return p.sdkClient, nil
}

// AuthenticatedClient returns the SDK client and current identity, or
// ErrNotLoggedIn when startup left the session unauthenticated.
func (p *Provider) AuthenticatedClient(ctx context.Context) (*sdk.Client, *sdk.Identity, error) {
	client, err := p.SDKClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	identity := client.Session().Identity()
	if identity == nil {
		return nil, nil, ErrNotLoggedIn
	}
	return client, identity, nil
}

// Tenants returns the cached tenant resolver.
func (p *Provider) Tenants() *sdk.TenantClient {
	p.tenantsOnce.Do(func() {
		fetcher := sdk.TenantFetcher(sdk.HTTPTenantFetcher{})
		if p.baseURL != "" {
			// a fixed base URL wins over the address resolved from the hostname
			fixed := p.baseURL
			fetcher = sdk.TenantFetcherFunc(func(ctx context.Context, _ string) (*sdk.Tenant, error) {
				return sdk.HTTPTenantFetcher{}.FetchTenant(ctx, fixed)
			})
		}
		p.tenants = sdk.NewTenantClient(fetcher, sdk.WithTenantLogger(p.logger))
	})
	return p.tenants
}

func ensureTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, timeout)
}
