package steam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dmitrijs2005/tradekeeper/internal/guard"
)

// Confirmation is one outstanding mobile-style approval request, keyed by
// the trade it belongs to. Confirmations are ephemeral: fetched on demand
// and rebuilt on every fetch, never persisted.
type Confirmation struct {
	ID         string
	DataConfID string
	DataKey    string
	TradeID    int64
}

// Sentinel fragments the confirmation page uses instead of structured
// errors.
const (
	badCredentialsMarker = "incorrect Steam Guard codes."
	platformErrorMarker  = "Oh nooooooes!"
)

// ConfirmTrade runs the two-phase confirmation flow for tradeID: fetch the
// pending confirmations, find the one created for this trade and allow it.
// A trade with no pending confirmation is not an error: the offer either
// never needed one or was already resolved.
//
// Every confirmation code is computed at call time: codes are single-use
// per one-second window and must never be reused across retries.
func (a *Account) ConfirmTrade(ctx context.Context, tradeID int64) error {
	if err := a.fetchConfirmations(ctx); err != nil {
		return err
	}

	conf, ok := a.confirmations[tradeID]
	if !ok {
		a.log.Debug(ctx, "no pending confirmation for trade", "trade_id", tradeID)
		return nil
	}

	params, err := a.confirmationParams("allow")
	if err != nil {
		return err
	}
	params.Set("op", "allow")
	params.Set("cid", conf.DataConfID)
	params.Set("ck", conf.DataKey)

	body, err := a.get(ctx, "/mobileconf/ajaxop", params, nil)
	if err != nil {
		return err
	}

	var res struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &res); err != nil || !res.Success {
		return fmt.Errorf("%w: failed to accept trade", ErrTrade)
	}

	a.log.Info(ctx, "confirmed trade", "trade_id", tradeID)
	return nil
}

// confirmationParams builds the signed query parameters every confirmation
// endpoint expects for the given action tag.
func (a *Account) confirmationParams(tag string) (url.Values, error) {
	now := timeNow().Unix()
	code, err := guard.ConfirmationCode(a.identitySecret, tag, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentials, err)
	}

	return url.Values{
		"p":   {guard.DeviceID(a.steamID64)},
		"a":   {strconv.FormatInt(a.steamID64, 10)},
		"k":   {code},
		"t":   {strconv.FormatInt(now, 10)},
		"m":   {"android"},
		"tag": {tag},
	}, nil
}

// fetchConfirmations replaces the pending-confirmation map with the current
// list from the platform. An empty list is not an error; the two sentinel
// response bodies are.
func (a *Account) fetchConfirmations(ctx context.Context) error {
	params, err := a.confirmationParams("conf")
	if err != nil {
		return err
	}

	headers := map[string]string{
		"X-Requested-With": "com.valvesoftware.android.steam.community",
	}
	body, err := a.get(ctx, "/mobileconf/conf", params, headers)
	if err != nil {
		return err
	}

	text := string(body)
	if strings.Contains(text, badCredentialsMarker) {
		return ErrCredentials
	}
	if strings.Contains(text, platformErrorMarker) {
		return fmt.Errorf("%w: confirmation service unavailable", ErrTrade)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTrade, err)
	}

	a.confirmations = make(map[int64]Confirmation)
	if doc.Find("#mobileconf_empty").Length() > 0 {
		return nil
	}

	doc.Find("#mobileconf_list .mobileconf_list_entry").Each(func(_ int, s *goquery.Selection) {
		confID, _ := s.Attr("data-confid")
		key, _ := s.Attr("data-key")
		creator := s.AttrOr("data-creator", "0")
		tradeID, _ := strconv.ParseInt(creator, 10, 64)

		id, _ := s.Attr("id")
		id = strings.TrimPrefix(id, "conf")

		a.confirmations[tradeID] = Confirmation{
			ID:         id,
			DataConfID: confID,
			DataKey:    key,
			TradeID:    tradeID,
		}
	})

	return nil
}
