package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// ClientAccount is the launcher's own identity service token, obtained via a
// standard OAuth2 authorization-code flow rather than the MSA device-code
// dance. It backs direct mod downloads when skip_advertisement is set.
type ClientAccount struct {
	AccessToken  string `json:"accessToken"`
	ExpiresAt    int64  `json:"expiresAt"` // unix seconds
	RefreshToken string `json:"refreshToken"`
}

// IsExpired reports whether the access token is past its expiry.
func (c ClientAccount) IsExpired() bool {
	return time.Now().Unix() >= c.ExpiresAt
}

// AuthenticateRequest bearer-attaches the access token, failing if expired
// rather than launching a doomed request.
func (c ClientAccount) AuthenticateRequest(req *http.Request) error {
	if c.IsExpired() {
		return fmt.Errorf("%w: client account token expired", ErrAuthFailed)
	}
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	return nil
}

// ClientLoginCallback is invoked once the authorization URL is ready, so
// the caller can open it in a browser.
type ClientLoginCallback func(authURL string)

// ClientAuthenticator drives the launcher's own OAuth2 authorization-code
// flow with a loopback redirect listener.
type ClientAuthenticator struct {
	Config *oauth2.Config
}

// Login binds a random local TCP port, builds the authorization URL with a
// fresh CSRF state, waits for the single redirect carrying `code`/`state`,
// and exchanges the code for a token.
func (a *ClientAuthenticator) Login(ctx context.Context, onURLReady ClientLoginCallback) (ClientAccount, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return ClientAccount{}, fmt.Errorf("bind loopback listener: %w", err)
	}
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	cfg := *a.Config
	cfg.RedirectURL = fmt.Sprintf("http://127.0.0.1:%d/", port)

	state := uuid.NewString()
	authURL := cfg.AuthCodeURL(state)
	if onURLReady != nil {
		onURLReady(authURL)
	}

	code, err := waitForRedirect(ctx, listener, state)
	if err != nil {
		return ClientAccount{}, err
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return ClientAccount{}, fmt.Errorf("%w: exchange code: %v", ErrAuthFailed, err)
	}

	return tokenToClientAccount(token), nil
}

// Renew exchanges the stored refresh token for a fresh access token.
func (a *ClientAuthenticator) Renew(ctx context.Context, acc ClientAccount) (ClientAccount, error) {
	if acc.RefreshToken == "" {
		return ClientAccount{}, fmt.Errorf("%w: no refresh token stored", ErrAuthFailed)
	}
	src := a.Config.TokenSource(ctx, &oauth2.Token{RefreshToken: acc.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return ClientAccount{}, fmt.Errorf("%w: renew client account: %v", ErrAuthFailed, err)
	}
	return tokenToClientAccount(token), nil
}

func tokenToClientAccount(token *oauth2.Token) ClientAccount {
	refresh := token.RefreshToken
	expiresAt := time.Now().Add(time.Hour).Unix()
	if !token.Expiry.IsZero() {
		expiresAt = token.Expiry.Unix()
	}
	return ClientAccount{
		AccessToken:  token.AccessToken,
		ExpiresAt:    expiresAt,
		RefreshToken: refresh,
	}
}

const redirectSuccessPage = `<!doctype html><html><body>` +
	`<h1>Login complete</h1><p>You may close this window and return to the launcher.</p>` +
	`</body></html>`

// waitForRedirect accepts exactly one connection on listener, parses the
// redirect request's query string for code/state, replies with a fixed
// success page, and validates state against the issued CSRF token.
func waitForRedirect(ctx context.Context, listener net.Listener, expectedState string) (string, error) {
	type result struct {
		code string
		err  error
	}
	done := make(chan result, 1)

	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			code := query.Get("code")
			state := query.Get("state")

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(redirectSuccessPage))

			switch {
			case code == "" || state == "":
				done <- result{err: fmt.Errorf("%w: redirect missing code or state", ErrAuthFailed)}
			case state != expectedState:
				done <- result{err: fmt.Errorf("%w: csrf state mismatch", ErrAuthFailed)}
			default:
				done <- result{code: code}
			}
		}),
	}
	go srv.Serve(listener)
	defer srv.Close()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.code, r.err
	}
}
