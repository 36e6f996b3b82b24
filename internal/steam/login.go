package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tradekeeper/internal/guard"
	"github.com/dmitrijs2005/tradekeeper/internal/sessioncache"
)

// loginResult is the tagged outcome of one credential submission. The
// platform reports failure reasons as loose boolean flags; failure()
// collapses them into a single variant so precedence lives in one place.
type loginResult struct {
	Success            bool   `json:"success"`
	LoginComplete      bool   `json:"login_complete"`
	Message            string `json:"message"`
	CaptchaNeeded      bool   `json:"captcha_needed"`
	ClearPasswordField bool   `json:"clear_password_field"`
	RequiresTwoFactor  bool   `json:"requires_twofactor"`
	EmailAuthNeeded    bool   `json:"emailauth_needed"`
	TransferParameters struct {
		SteamID string `json:"steamid"`
	} `json:"transfer_parameters"`
}

type loginFailure int

const (
	failureCaptcha loginFailure = iota
	failurePassword
	failureTwoFactor
	failureEmail
	failureGeneric
)

// failure maps the response flags to one variant. Precedence: captcha >
// password > two-factor > email > generic. Generic covers flag-less errors
// such as network rate limiting.
func (r *loginResult) failure() loginFailure {
	switch {
	case r.CaptchaNeeded:
		return failureCaptcha
	case r.ClearPasswordField:
		return failurePassword
	case r.RequiresTwoFactor:
		return failureTwoFactor
	case r.EmailAuthNeeded:
		return failureEmail
	default:
		return failureGeneric
	}
}

// Login establishes an authenticated session. Idempotent: an authenticated
// account returns immediately. A usable cached session short-circuits the
// credential submit entirely. Login is never retried internally; the caller
// decides whether a recoverable error kind warrants another attempt, and a
// fresh attempt computes fresh time-based codes.
func (a *Account) Login(ctx context.Context) error {
	if a.loggedIn {
		return nil
	}

	if a.restoreSession(ctx) {
		return nil
	}

	if a.password == "" {
		return fmt.Errorf("%w: password not specified", ErrIncorrectPassword)
	}

	res, err := a.attemptLogin(ctx)
	if err != nil {
		return err
	}

	if res.Success && res.LoginComplete {
		return a.adoptSession(ctx, res)
	}

	switch res.failure() {
	case failureCaptcha:
		return fmt.Errorf("%w: %s", ErrCaptchaRequired, res.Message)
	case failurePassword:
		return fmt.Errorf("%w: %s", ErrIncorrectPassword, res.Message)
	case failureTwoFactor:
		return fmt.Errorf("%w: %s", ErrTwoFactorInvalid, res.Message)
	case failureEmail:
		return fmt.Errorf("%w: email authentication not supported", ErrEmailCodeRequired)
	default:
		return fmt.Errorf("%w: %s", ErrLogin, res.Message)
	}
}

func (a *Account) attemptLogin(ctx context.Context) (*loginResult, error) {
	encrypted, err := a.encryptedPassword()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogin, err)
	}

	code, err := guard.OneTimeCode(a.sharedSecret, timeNow().Unix())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogin, err)
	}

	form := url.Values{
		"username":          {a.username},
		"password":          {encrypted},
		"emailauth":         {""},
		"emailsteamid":      {""},
		"twofactorcode":     {code},
		"captchagid":        {"-1"},
		"captcha_text":      {""},
		"loginfriendlyname": {userAgent},
		"rsatimestamp":      {a.rsaTimestamp},
		"remember_login":    {"true"},
		"donotcache":        {strconv.FormatInt(guard.DoNotCache(timeNow().Unix()), 10)},
	}

	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	body, err := a.postForm(ctx, "/login/dologin/", form, nil)
	if err != nil {
		return nil, err
	}

	var res loginResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLogin, err)
	}
	return &res, nil
}

// adoptSession turns a successful login response into authenticated state:
// every session cookie is propagated to all platform origins, a fresh
// session id is generated, the numeric identity is adopted and the session
// is persisted for the next run.
func (a *Account) adoptSession(ctx context.Context, res *loginResult) error {
	steamID64, err := strconv.ParseInt(res.TransferParameters.SteamID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed steamid in transfer parameters", ErrLogin)
	}

	base, err := url.Parse(a.baseURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLogin, err)
	}
	for _, c := range a.client.Jar.Cookies(base) {
		a.transferCookie(c.Name, c.Value)
	}

	sessionID, err := guard.SessionID()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLogin, err)
	}
	a.transferCookie("sessionid", sessionID)

	a.sessionID = sessionID
	a.steamID64 = steamID64
	a.loggedIn = true

	a.persistSession(ctx)
	a.log.Info(ctx, "logged in", "steam_id", a.steamID64)
	return nil
}

// restoreSession adopts a cached session and probes the platform with it.
// Returns true only when the probe confirms an authenticated context; any
// failure falls through to a full login.
func (a *Account) restoreSession(ctx context.Context) bool {
	rec, ok := a.cache.Load(ctx, a.username)
	if !ok {
		return false
	}

	if rec.SessionID != "" {
		a.transferCookie("sessionid", rec.SessionID)
	}
	if rec.LoginSecure != "" {
		a.transferCookie("steamLoginSecure", rec.LoginSecure)
	}

	if !a.isLoggedIn(ctx) {
		a.log.Debug(ctx, "cached session is stale")
		return false
	}

	a.sessionID = rec.SessionID
	a.steamID64 = rec.SteamID64
	a.loggedIn = true
	a.log.Info(ctx, "restored session from cache", "steam_id", a.steamID64)
	return true
}

// isLoggedIn probes the profile page: an authenticated session lands on the
// profile, an anonymous one is redirected to the login page.
func (a *Account) isLoggedIn(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/my/profile", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return !strings.Contains(resp.Request.URL.String(), "login/home")
}

func (a *Account) persistSession(ctx context.Context) {
	loginSecure := a.cookieValue("steamLoginSecure")
	// the platform should always set this cookie on login; skip persisting
	// rather than cache a record that cannot restore anything
	if loginSecure == "" || a.sessionID == "" || a.steamID64 == 0 {
		return
	}

	rec := sessioncache.Record{
		SessionID:   a.sessionID,
		SteamID64:   a.steamID64,
		LoginSecure: loginSecure,
	}
	if err := a.cache.Store(ctx, a.username, rec); err != nil {
		a.log.Warn(ctx, "failed to persist session", "error", err)
	}
}
