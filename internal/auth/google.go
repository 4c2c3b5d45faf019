package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	// exchangeTimeout bounds the whole server-to-server leg of the callback:
	// the code-for-token exchange plus the userinfo fetch.
	exchangeTimeout = 10 * time.Second
)

// Failure classes of the callback exchange. Handlers map all of them to one
// generic client-facing error; the distinction exists for logs and tests.
var (
	// ErrProviderExchange covers an unreachable provider and invalid or
	// expired authorization codes.
	ErrProviderExchange = errors.New("exchanging authorization code failed")
	// ErrProviderUserInfo covers failures fetching or decoding the identity.
	ErrProviderUserInfo = errors.New("fetching provider user info failed")
	// ErrMissingEmailClaim is returned when the provider identity carries no email.
	ErrMissingEmailClaim = errors.New("provider identity has no email")
)

// GoogleUser is the portion of Google's userinfo response we care about.
type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

// GoogleProvider drives the Google OAuth2 authorization-code flow: the
// server redirects the user to Google, Google calls back with a code, and
// the server exchanges the code for identity claims without the token ever
// touching the browser.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a provider with the given OAuth client
// credentials. redirectURI must exactly match the authorized redirect URI
// registered in the Google console.
func NewGoogleProvider(clientID, clientSecret, redirectURI string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the provider authorization URL to redirect the user to.
// state must be an unguessable nonce the callback will verify.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the Google identity. The whole
// exchange runs under a bounded timeout; a timeout surfaces as
// ErrProviderExchange or ErrProviderUserInfo depending on the leg that hit it.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderExchange, err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUserInfo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUserInfo, resp.StatusCode)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUserInfo, err)
	}
	if user.Email == "" {
		return nil, ErrMissingEmailClaim
	}
	return &user, nil
}
