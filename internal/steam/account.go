// Package steam implements the authenticated-session state machine for one
// platform identity: RSA key retrieval, encrypted credential submission,
// session restoration from the local cache, multi-domain cookie propagation
// and the mobile-confirmation flow.
//
// An Account moves through three states: unauthenticated, key-acquired
// (after the constructor fetched the RSA key) and authenticated (after
// Login). An Account is not safe for concurrent use: Login, PostForm and
// ConfirmTrade mutate session state without synchronization, so callers
// must serialize access per identity. Distinct accounts share nothing and
// may be driven concurrently.
package steam

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/dmitrijs2005/tradekeeper/internal/guard"
	"github.com/dmitrijs2005/tradekeeper/internal/logging"
	"github.com/dmitrijs2005/tradekeeper/internal/sessioncache"
)

const (
	defaultBaseURL = "https://steamcommunity.com"
	userAgent      = "tradekeeper/v1.0.0"

	// loginTimeout bounds the key-fetch and credential-submit requests.
	// Trade and confirmation calls inherit the caller's context instead.
	loginTimeout = 15 * time.Second
)

// defaultCookieOrigins are the first-party origins a session must be valid
// on simultaneously. A cookie set on one is not visible on the others, so
// every session cookie is copied onto all three.
var defaultCookieOrigins = []string{
	"https://steamcommunity.com",
	"https://store.steampowered.com",
	"https://help.steampowered.com",
}

// timeNow is a test seam for time.Now.
var timeNow = time.Now

// Config carries the credentials and secrets for one identity. BaseURL and
// CookieOrigins default to the live platform; tests point them at a local
// server.
type Config struct {
	Username       string
	Password       string
	SharedSecret   string
	IdentitySecret string

	BaseURL       string
	CookieOrigins []string
}

// Account owns the HTTP session and authentication state for one identity.
type Account struct {
	username       string
	password       string
	sharedSecret   string
	identitySecret string

	baseURL       string
	cookieOrigins []string

	client *http.Client
	cache  *sessioncache.Cache
	log    logging.Logger

	loggedIn  bool
	steamID64 int64
	sessionID string

	publicKey    *rsa.PublicKey
	rsaTimestamp string

	tradeToken    string
	confirmations map[int64]Confirmation
}

// NewAccount constructs an Account and eagerly fetches the RSA public key
// and server timestamp for the username. The key fetch is a prerequisite
// for any login attempt and is not retried: an unreachable platform or a
// response without the expected fields is fatal.
func NewAccount(ctx context.Context, cfg Config, cache *sessioncache.Cache, log logging.Logger) (*Account, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	a := &Account{
		username:       cfg.Username,
		password:       cfg.Password,
		sharedSecret:   cfg.SharedSecret,
		identitySecret: cfg.IdentitySecret,
		baseURL:        cfg.BaseURL,
		cookieOrigins:  cfg.CookieOrigins,
		client:         &http.Client{Jar: jar},
		cache:          cache,
		log:            log.With("account", cfg.Username),
		confirmations:  make(map[int64]Confirmation),
	}
	if a.baseURL == "" {
		a.baseURL = defaultBaseURL
	}
	if len(a.cookieOrigins) == 0 {
		a.cookieOrigins = defaultCookieOrigins
	}

	if err := a.fetchRSAKey(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Username returns the account name. Account names are the stable identity
// value; use them as map keys, never the Account pointer.
func (a *Account) Username() string { return a.username }

// LoggedIn reports whether the account holds an authenticated session.
func (a *Account) LoggedIn() bool { return a.loggedIn }

// SteamID64 returns the numeric platform identity. Zero until authenticated.
func (a *Account) SteamID64() int64 { return a.steamID64 }

// SessionID returns the per-login anti-forgery token. Empty until
// authenticated.
func (a *Account) SessionID() string { return a.sessionID }

// BaseURL returns the platform origin this account talks to.
func (a *Account) BaseURL() string { return a.baseURL }

// SetPassword replaces the password. Ignored once authenticated: the
// credentials that produced the session are immutable for its lifetime.
func (a *Account) SetPassword(password string) {
	if !a.loggedIn {
		a.password = password
	}
}

type rsaKeyResponse struct {
	Success   bool   `json:"success"`
	Mod       string `json:"publickey_mod"`
	Exp       string `json:"publickey_exp"`
	Timestamp string `json:"timestamp"`
}

func (a *Account) fetchRSAKey(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	form := url.Values{
		"username":   {a.username},
		"donotcache": {strconv.FormatInt(guard.DoNotCache(timeNow().Unix()), 10)},
	}
	body, err := a.postForm(ctx, "/login/getrsakey/", form, nil)
	if err != nil {
		return err
	}

	var resp rsaKeyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%w: unable to retrieve RSA key: %v", ErrLogin, err)
	}
	if resp.Mod == "" || resp.Exp == "" {
		return fmt.Errorf("%w: unable to retrieve RSA key", ErrLogin)
	}

	mod, ok := new(big.Int).SetString(resp.Mod, 16)
	if !ok {
		return fmt.Errorf("%w: malformed RSA modulus", ErrLogin)
	}
	exp, ok := new(big.Int).SetString(resp.Exp, 16)
	if !ok {
		return fmt.Errorf("%w: malformed RSA exponent", ErrLogin)
	}

	a.publicKey = &rsa.PublicKey{N: mod, E: int(exp.Int64())}
	a.rsaTimestamp = resp.Timestamp
	return nil
}

// encryptedPassword encrypts the password with the previously fetched RSA
// public key, base64-encoded for form submission.
func (a *Account) encryptedPassword() (string, error) {
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, a.publicKey, []byte(a.password))
	if err != nil {
		return "", fmt.Errorf("encrypt password: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// transferCookie sets a cookie on every platform origin the session must be
// valid on.
func (a *Account) transferCookie(name, value string) {
	for _, origin := range a.cookieOrigins {
		u, err := url.Parse(origin)
		if err != nil {
			continue
		}
		a.client.Jar.SetCookies(u, []*http.Cookie{{
			Name:   name,
			Value:  value,
			Path:   "/",
			Secure: u.Scheme == "https",
		}})
	}
}

// cookieValue returns the value of the named cookie on the community origin,
// or "" when absent.
func (a *Account) cookieValue(name string) string {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return ""
	}
	for _, c := range a.client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// PostForm issues a form POST against the platform using the account's
// session and returns the raw response body. A non-empty referer is set as
// the Referer header. Transport failures wrap ErrRequest.
func (a *Account) PostForm(ctx context.Context, path string, form url.Values, referer string) ([]byte, error) {
	headers := map[string]string{}
	if referer != "" {
		headers["Referer"] = referer
	}
	return a.postForm(ctx, path, form, headers)
}

func (a *Account) postForm(ctx context.Context, path string, form url.Values, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return a.do(req)
}

func (a *Account) get(ctx context.Context, path string, params url.Values, headers map[string]string) ([]byte, error) {
	target := a.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return a.do(req)
}

func (a *Account) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", userAgent)
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	return body, nil
}
