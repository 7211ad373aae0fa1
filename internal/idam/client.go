package idam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

var (
	loginPath    = "/login"
	registerPath = "/users/selfRegister"
	tokenPath    = "/oauth2/token"
	detailsPath  = "/details"
	sessionPath  = "/session"
)

// Client talks to the IDAM identity provider.
// Every operation performs exactly one outbound call; transient failures surface to the caller unretried.
type Client struct {
	apiURL       string
	webURL       string
	clientID     string
	clientSecret string
	callbackPath string
	http         *http.Client
}

// Options is used to create a new IDAM client
type Options struct {
	// APIURL is the base address of the IDAM REST API (token exchange, user details, session deletion)
	APIURL string
	// WebURL is the base address of the user-facing IDAM web frontend (login & registration pages)
	WebURL string
	// ClientID and ClientSecret identify this application to IDAM
	ClientID     string
	ClientSecret string
	// CallbackPath is the local path IDAM redirects back to after authentication
	CallbackPath string
	// Timeout bounds every outbound call
	Timeout time.Duration
}

// NewClient creates a new IDAM client
func NewClient(opts Options) *Client {
	return &Client{
		apiURL:       opts.APIURL,
		webURL:       opts.WebURL,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		callbackPath: opts.CallbackPath,
		http: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// UserDetails represents the identity IDAM stores about the authenticated user
type UserDetails struct {
	Email string `json:"email"`
}

// RedirectURI assembles the absolute callback URI IDAM redirects to after authentication
func (client *Client) RedirectURI(protocol, host string) string {
	return fmt.Sprintf("%s://%s%s", protocol, host, client.callbackPath)
}

// AuthorizeURL assembles the IDAM login page URL the user is sent to when unauthenticated.
// The caller-supplied state is carried through the redirect round-trip unchanged.
// The construction is pure; identical inputs always yield identical URLs.
func (client *Client) AuthorizeURL(protocol, host, state string) string {
	return client.webURL + loginPath +
		"?redirect_uri=" + url.QueryEscape(client.RedirectURI(protocol, host)) +
		"&client_id=" + url.QueryEscape(client.clientID) +
		"&response_type=code" +
		"&state=" + url.QueryEscape(state)
}

// RegisterURL assembles the IDAM self-registration page URL
func (client *Client) RegisterURL(protocol, host string) string {
	return client.webURL + registerPath +
		"?redirect_uri=" + url.QueryEscape(client.RedirectURI(protocol, host)) +
		"&client_id=" + url.QueryEscape(client.clientID)
}

// GetToken exchanges an authorization code for an access token
func (client *Client) GetToken(ctx context.Context, code, protocol, host string) (string, error) {
	conf := &oauth2.Config{
		ClientID:     client.clientID,
		ClientSecret: client.clientSecret,
		RedirectURL:  client.RedirectURI(protocol, host),
		Endpoint: oauth2.Endpoint{
			TokenURL:  client.apiURL + tokenPath,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, client.http)
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return "", &AuthError{Op: "exchange authorization code", Err: err}
	}
	return token.AccessToken, nil
}

// GetUserDetails fetches the identity of the user the given access token belongs to
func (client *Client) GetUserDetails(ctx context.Context, accessToken string) (*UserDetails, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.apiURL+detailsPath, nil)
	if err != nil {
		return nil, &AuthError{Op: "fetch user details", Err: err}
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)

	response, err := client.http.Do(request)
	if err != nil {
		return nil, &AuthError{Op: "fetch user details", Err: err}
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, &AuthError{Op: "fetch user details", Err: fmt.Errorf("unexpected status code %d", response.StatusCode)}
	}

	details := new(UserDetails)
	if err := json.NewDecoder(response.Body).Decode(details); err != nil {
		return nil, &AuthError{Op: "fetch user details", Err: err}
	}
	return details, nil
}

// DeleteToken invalidates an access token at the identity provider
func (client *Client) DeleteToken(ctx context.Context, accessToken string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodDelete, client.apiURL+sessionPath+"/"+url.PathEscape(accessToken), nil)
	if err != nil {
		return &AuthError{Op: "delete token", Err: err}
	}

	response, err := client.http.Do(request)
	if err != nil {
		return &AuthError{Op: "delete token", Err: err}
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return &AuthError{Op: "delete token", Err: fmt.Errorf("unexpected status code %d", response.StatusCode)}
	}
	return nil
}
