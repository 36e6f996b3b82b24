// Package trade builds and submits trade offers between two authenticated
// accounts and drives the mobile-confirmation step for both sides.
package trade

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/tradekeeper/internal/logging"
	"github.com/dmitrijs2005/tradekeeper/internal/steam"
)

// Asset references one inventory item in an offer. The coordinator treats
// it as an opaque value; the platform assigns the ids.
type Asset struct {
	AppID     int64  `json:"appid"`
	ContextID string `json:"contextid"`
	Amount    int64  `json:"amount"`
	AssetID   string `json:"assetid"`
}

// offerSide is one half of the json_tradeoffer envelope. Field values are
// part of the wire protocol: ready is the string "false", currency is
// always an empty list.
type offerSide struct {
	Assets   []Asset  `json:"assets"`
	Currency []string `json:"currency"`
	Ready    string   `json:"ready"`
}

type offerEnvelope struct {
	NewVersion string    `json:"newversion"`
	Version    int       `json:"version"`
	Me         offerSide `json:"me"`
	Them       offerSide `json:"them"`
}

// offerResponse is the platform's answer to an offer creation or
// acceptance.
type offerResponse struct {
	StrError                string `json:"strError"`
	TradeOfferID            string `json:"tradeofferid"`
	NeedsMobileConfirmation bool   `json:"needs_mobile_confirmation"`
}

// Coordinator submits offers and acceptances on behalf of authenticated
// accounts. It holds no per-trade state; both accounts must already be
// logged in.
type Coordinator struct {
	log logging.Logger
}

func NewCoordinator(log logging.Logger) *Coordinator {
	return &Coordinator{log: log}
}

func newSide(assets []Asset) offerSide {
	if assets == nil {
		assets = []Asset{}
	}
	return offerSide{Assets: assets, Currency: []string{}, Ready: "false"}
}

// Send creates an offer from one account to another and returns the trade
// id the platform assigned. mine are assets leaving the sender, theirs are
// assets requested from the partner. When the response flags a mobile
// confirmation, the sender's confirmation flow runs before Send returns.
func (c *Coordinator) Send(ctx context.Context, from, to *steam.Account, mine, theirs []Asset) (int64, error) {
	token, err := to.TradeToken(ctx)
	if err != nil {
		return 0, err
	}

	envelope, err := json.Marshal(offerEnvelope{
		NewVersion: "true",
		Version:    2,
		Me:         newSide(mine),
		Them:       newSide(theirs),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", steam.ErrTrade, err)
	}

	createParams, err := json.Marshal(map[string]string{
		"trade_offer_access_token": token,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", steam.ErrTrade, err)
	}

	form := url.Values{
		"sessionid":                 {from.SessionID()},
		"serverid":                  {"1"},
		"partner":                   {strconv.FormatInt(to.SteamID64(), 10)},
		"tradeoffermessage":         {"Trade created by tradekeeper on " + time.Now().Format("01/02/06 at 15:04:05")},
		"json_tradeoffer":           {string(envelope)},
		"captcha":                   {""},
		"trade_offer_create_params": {string(createParams)},
	}

	body, err := from.PostForm(ctx, "/tradeoffer/new/send", form, from.BaseURL()+"/tradeoffer/new/")
	if err != nil {
		return 0, err
	}

	var res offerResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return 0, fmt.Errorf("%w: %v", steam.ErrTrade, err)
	}
	if res.StrError != "" {
		return 0, fmt.Errorf("%w: %s", steam.ErrTrade, res.StrError)
	}

	tradeID, err := strconv.ParseInt(res.TradeOfferID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed trade offer id %q", steam.ErrTrade, res.TradeOfferID)
	}

	c.log.Info(ctx, "offer sent",
		"from", from.Username(), "to", to.Username(), "trade_id", tradeID)

	if res.NeedsMobileConfirmation {
		if err := from.ConfirmTrade(ctx, tradeID); err != nil {
			return 0, err
		}
	}
	return tradeID, nil
}

// Accept accepts a previously created offer on the receiving account. The
// confirmation flow runs only when the platform flags it; an acceptance
// with no items leaving the acceptor needs none.
func (c *Coordinator) Accept(ctx context.Context, who, partner *steam.Account, tradeID int64) error {
	id := strconv.FormatInt(tradeID, 10)

	form := url.Values{
		"sessionid":    {who.SessionID()},
		"tradeofferid": {id},
		"serverid":     {"1"},
		"partner":      {strconv.FormatInt(partner.SteamID64(), 10)},
		"captcha":      {""},
	}

	body, err := who.PostForm(ctx, "/tradeoffer/"+id+"/accept", form, who.BaseURL()+"/tradeoffer/"+id)
	if err != nil {
		return err
	}

	var res offerResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return fmt.Errorf("%w: %v", steam.ErrTrade, err)
	}
	if res.StrError != "" {
		return fmt.Errorf("%w: %s", steam.ErrTrade, res.StrError)
	}

	c.log.Info(ctx, "offer accepted", "account", who.Username(), "trade_id", tradeID)

	if res.NeedsMobileConfirmation {
		return who.ConfirmTrade(ctx, tradeID)
	}
	return nil
}
