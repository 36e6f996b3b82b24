package inventory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tradekeeper/internal/logging"
	"github.com/dmitrijs2005/tradekeeper/internal/steam"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const inventoryBody = `{
  "assets": [
    {"appid": 730, "contextid": "2", "assetid": "101", "classid": "c1", "amount": "1"},
    {"appid": 730, "contextid": "2", "assetid": "102", "classid": "c2", "amount": "1"},
    {"appid": 730, "contextid": "2", "assetid": "103", "classid": "c3", "amount": "2"},
    {"appid": 730, "contextid": "2", "assetid": "104", "classid": "missing", "amount": "1"}
  ],
  "descriptions": [
    {
      "classid": "c1", "name": "AK-47 | Redline", "tradable": 1,
      "descriptions": [{"value": "Exterior: Field-Tested"}],
      "tags": [{"category": "Type", "localized_tag_name": "Rifle"}]
    },
    {
      "classid": "c2", "name": "Untradable Thing", "tradable": 0,
      "descriptions": [], "tags": []
    },
    {
      "classid": "c3", "name": "Sticker | Crown", "tradable": 1,
      "descriptions": [],
      "tags": [{"category": "Type", "localized_tag_name": "Sticker"}]
    }
  ]
}`

func TestItems_ParsesAndFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/76561198000000001/730/2", r.URL.Path)
		assert.Equal(t, "english", r.URL.Query().Get("l"))
		fmt.Fprint(w, inventoryBody)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, testLogger())
	items, err := c.Items(context.Background(), 76561198000000001)
	require.NoError(t, err)

	// the untradable item and the asset without a description are dropped
	require.Len(t, items, 2)

	ak := items[0]
	assert.Equal(t, "AK-47 | Redline", ak.Name)
	assert.Equal(t, "101", ak.AssetID)
	assert.Equal(t, FieldTested, ak.Exterior)
	assert.Equal(t, TypeRifle, ak.Type)
	assert.Equal(t, int64(1), ak.Amount)
	assert.True(t, ak.IsWeapon())

	sticker := items[1]
	assert.Equal(t, "Sticker | Crown", sticker.Name)
	assert.Equal(t, Exterior(""), sticker.Exterior)
	assert.Equal(t, TypeSticker, sticker.Type)
	assert.Equal(t, int64(2), sticker.Amount)
}

func TestItems_UnknownTypeStaysUntyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
  "assets": [{"appid": 730, "contextid": "2", "assetid": "1", "classid": "c", "amount": "1"}],
  "descriptions": [{"classid": "c", "name": "Odd", "tradable": 1,
    "tags": [{"category": "Type", "localized_tag_name": "Something New"}]}]
}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, testLogger())
	items, err := c.Items(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, ItemType(""), items[0].Type)
}

func TestItems_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.URL, testLogger())
	_, err := c.Items(context.Background(), 1)
	assert.ErrorIs(t, err, steam.ErrRequest)
}

func TestItems_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>deny</html>")
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, testLogger())
	_, err := c.Items(context.Background(), 1)
	assert.Error(t, err)
}
