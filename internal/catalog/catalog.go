// Package catalog provides market prices for item market names. The price
// list is fetched once when the client is constructed and handed to
// consumers as an explicit collaborator; there is no ambient global state
// and no background refresh. A caller wanting fresher prices constructs a
// new client.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultPriceURL = "https://csgobackpack.net/api/GetItemsList/v2/"

// priceWindows is the preference order for median lookups: longer windows
// resist undercut spikes better.
var priceWindows = []string{"30_days", "all_time", "7_days", "24_hours"}

type priceEntry struct {
	Price map[string]struct {
		Median float64 `json:"median"`
	} `json:"price"`
}

// Client is an immutable snapshot of the price list.
type Client struct {
	items map[string]priceEntry
}

// NewClient fetches the price list from url (the public catalog when
// empty). The fetch happens exactly once, at construction.
func NewClient(ctx context.Context, url string) (*Client, error) {
	if url == "" {
		url = defaultPriceURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch price list: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch price list: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch price list: %w", err)
	}

	var payload struct {
		ItemsList map[string]priceEntry `json:"items_list"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse price list: %w", err)
	}
	if payload.ItemsList == nil {
		return nil, fmt.Errorf("parse price list: no items_list")
	}

	return &Client{items: payload.ItemsList}, nil
}

// MedianPrice returns the median price for marketName from the longest
// available window, or -1 when the item or its price is unknown.
func (c *Client) MedianPrice(marketName string) float64 {
	entry, ok := c.items[marketName]
	if !ok || entry.Price == nil {
		return -1
	}
	for _, window := range priceWindows {
		if p, ok := entry.Price[window]; ok {
			return p.Median
		}
	}
	return -1
}
