package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tradekeeper/internal/logging"
	"github.com/dmitrijs2005/tradekeeper/internal/steam"
)

// Only one game's inventory is handled for now.
const (
	appID     = 730
	contextID = "2"
)

// Client fetches inventories from the community endpoint. Inventories are
// public, so no authenticated session is needed.
type Client struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// NewClient constructs a Client against baseURL; an empty baseURL targets
// the live platform.
func NewClient(baseURL string, log logging.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://steamcommunity.com"
	}
	return &Client{baseURL: baseURL, http: &http.Client{}, log: log}
}

type inventoryResponse struct {
	Assets []struct {
		AppID     int64  `json:"appid"`
		ContextID string `json:"contextid"`
		AssetID   string `json:"assetid"`
		ClassID   string `json:"classid"`
		Amount    string `json:"amount"`
	} `json:"assets"`
	Descriptions []struct {
		ClassID      string `json:"classid"`
		Name         string `json:"name"`
		Tradable     int    `json:"tradable"`
		Descriptions []struct {
			Value string `json:"value"`
		} `json:"descriptions"`
		Tags []struct {
			Category         string `json:"category"`
			LocalizedTagName string `json:"localized_tag_name"`
		} `json:"tags"`
	} `json:"descriptions"`
}

// Items returns the tradable items in the identity's inventory. Items whose
// descriptions mark them untradable are dropped; classification fields stay
// empty when the description carries no recognizable exterior or type.
func (c *Client) Items(ctx context.Context, steamID64 int64) ([]Item, error) {
	u := fmt.Sprintf("%s/inventory/%d/%d/%s?l=english&count=5000", c.baseURL, steamID64, appID, contextID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", steam.ErrRequest, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", steam.ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", steam.ErrRequest, err)
	}

	var inv inventoryResponse
	if err := json.Unmarshal(body, &inv); err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}

	descByClass := make(map[string]int, len(inv.Descriptions))
	for i, d := range inv.Descriptions {
		descByClass[d.ClassID] = i
	}

	var items []Item
	for _, asset := range inv.Assets {
		di, ok := descByClass[asset.ClassID]
		if !ok {
			continue
		}
		desc := inv.Descriptions[di]
		// untradable now; some items become tradable after a hold period,
		// they will show up on a later fetch
		if desc.Tradable == 0 {
			continue
		}

		amount, err := strconv.ParseInt(asset.Amount, 10, 64)
		if err != nil {
			amount = 1
		}

		item := Item{
			Name:      desc.Name,
			AppID:     appID,
			ContextID: contextID,
			Amount:    amount,
			AssetID:   asset.AssetID,
		}

		for _, line := range desc.Descriptions {
			if rest, ok := strings.CutPrefix(line.Value, "Exterior: "); ok {
				item.Exterior = Exterior(rest)
				break
			}
		}
		for _, tag := range desc.Tags {
			if tag.Category != "Type" {
				continue
			}
			if typ, ok := knownTypes[tag.LocalizedTagName]; ok {
				item.Type = typ
			}
			break
		}

		items = append(items, item)
	}

	c.log.Debug(ctx, "fetched inventory", "steam_id", steamID64, "items", len(items))
	return items, nil
}
