package steam

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TradeToken returns the trade-offer access token from the account's
// trade-link page. The token is fetched once and memoized for the lifetime
// of the authenticated session; it never changes while the session lives.
func (a *Account) TradeToken(ctx context.Context) (string, error) {
	if a.tradeToken != "" {
		return a.tradeToken, nil
	}

	path := "/profiles/" + strconv.FormatInt(a.steamID64, 10) + "/tradeoffers/privacy"
	body, err := a.get(ctx, path, nil, nil)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTrade, err)
	}

	link, ok := doc.Find("input#trade_offer_access_url").Attr("value")
	if !ok {
		return "", fmt.Errorf("%w: trade offer access url not found", ErrTrade)
	}

	idx := strings.LastIndex(link, "&token=")
	if idx == -1 {
		return "", fmt.Errorf("%w: trade link has no token", ErrTrade)
	}

	a.tradeToken = link[idx+len("&token="):]
	return a.tradeToken, nil
}
