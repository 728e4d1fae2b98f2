package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/genrelay/internal/core/domain"
	"github.com/ewilliams-labs/genrelay/internal/core/ports"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Scopes needed to read the profile and write playlists.
var Scopes = []string{
	"user-read-private",
	"playlist-modify-public",
	"playlist-modify-private",
}

// Authorizer runs Spotify's authorization-code flow.
type Authorizer struct {
	config     *oauth2.Config
	httpClient *http.Client
}

var _ ports.Authorizer = (*Authorizer)(nil)

// AuthConfig configures an Authorizer. Empty URLs default to Spotify's accounts service.
type AuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	HTTPClient   *http.Client
}

func NewAuthorizer(cfg AuthConfig) *Authorizer {
	authURL, tokenURL := cfg.AuthURL, cfg.TokenURL
	if authURL == "" {
		authURL = spotifyAuthURL
	}
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	return &Authorizer{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: cfg.HTTPClient,
	}
}

// AuthURL returns the authorization URL the user is redirected to.
func (a *Authorizer) AuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token pair.
func (a *Authorizer) Exchange(ctx context.Context, code string) (domain.Token, error) {
	tok, err := a.config.Exchange(a.withClient(ctx), code)
	if err != nil {
		return domain.Token{}, fmt.Errorf("spotify auth: exchange code: %w", tokenError(err))
	}
	return mapToken(tok), nil
}

// Refresh obtains a new access token. Spotify may omit a new refresh token,
// in which case the one supplied is returned.
func (a *Authorizer) Refresh(ctx context.Context, refreshToken string) (domain.Token, error) {
	src := a.config.TokenSource(a.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return domain.Token{}, fmt.Errorf("spotify auth: refresh: %w", tokenError(err))
	}
	out := mapToken(tok)
	if out.RefreshToken == "" {
		out.RefreshToken = refreshToken
	}
	return out, nil
}

func (a *Authorizer) withClient(ctx context.Context) context.Context {
	if a.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}

// tokenError maps a rejected grant to ErrCredentialExpired and anything else
// to ErrUpstreamUnavailable.
func tokenError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		status := re.Response.StatusCode
		if status == http.StatusBadRequest {
			status = http.StatusUnauthorized
		}
		return &domain.UpstreamError{Op: "token", Status: status, Err: err}
	}
	return &domain.UpstreamError{Op: "token", Err: err}
}

func mapToken(t *oauth2.Token) domain.Token {
	return domain.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}
