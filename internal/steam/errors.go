package steam

import (
	"errors"
	"fmt"
)

// Sentinel errors for the authentication and trade flows. Specializations
// wrap ErrLogin, so errors.Is(err, ErrLogin) matches any login failure while
// errors.Is(err, ErrCaptchaRequired) matches only that one. Server-supplied
// messages are wrapped around these sentinels by the caller.
var (
	// ErrRequest indicates a transport-level failure talking to the platform.
	ErrRequest = errors.New("request failed")

	// ErrLogin is the base login failure; also returned on its own when the
	// server reports an error with no recognized flag (rate limiting and the
	// like come back this way).
	ErrLogin = errors.New("login failed")

	ErrIncorrectPassword = fmt.Errorf("%w: incorrect password", ErrLogin)
	ErrCaptchaRequired   = fmt.Errorf("%w: captcha required", ErrLogin)
	ErrTwoFactorInvalid  = fmt.Errorf("%w: two-factor code invalid", ErrLogin)
	ErrEmailCodeRequired = fmt.Errorf("%w: email code required", ErrLogin)

	// ErrCredentials indicates the identity secret was rejected while
	// fetching confirmations.
	ErrCredentials = errors.New("identity secret is incorrect")

	// ErrTrade indicates the platform rejected an offer, an acceptance, or a
	// confirmation action.
	ErrTrade = errors.New("trade failed")
)
