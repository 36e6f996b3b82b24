package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tradekeeper/internal/config"
	"github.com/dmitrijs2005/tradekeeper/internal/inventory"
)

func TestPartition_ByPriority(t *testing.T) {
	items := []inventory.Item{
		{Name: "knife", AssetID: "1", Type: inventory.TypeKnife},
		{Name: "sticker", AssetID: "2", Type: inventory.TypeSticker},
		{Name: "rifle", AssetID: "3", Type: inventory.TypeRifle},
	}
	names := []string{"knives", "stickers", "rest"}
	priorities := map[string][]inventory.ItemType{
		"knives":   {inventory.TypeKnife},
		"stickers": {inventory.TypeSticker, inventory.TypeGraffiti},
		"rest":     nil,
	}

	batches := partition(items, names, priorities)

	require.Len(t, batches["knives"], 1)
	assert.Equal(t, "1", batches["knives"][0].AssetID)
	require.Len(t, batches["stickers"], 1)
	assert.Equal(t, "2", batches["stickers"][0].AssetID)
	require.Len(t, batches["rest"], 1)
	assert.Equal(t, "3", batches["rest"][0].AssetID)
}

func TestPartition_FirstMatchingAccountWins(t *testing.T) {
	items := []inventory.Item{{AssetID: "1", Type: inventory.TypeKnife}}
	names := []string{"a", "b"}
	priorities := map[string][]inventory.ItemType{
		"a": {inventory.TypeKnife},
		"b": {inventory.TypeKnife},
	}

	batches := partition(items, names, priorities)

	assert.Len(t, batches["a"], 1)
	assert.Empty(t, batches["b"])
}

func TestPartition_FallbackToFirstWhenAllHavePriorities(t *testing.T) {
	items := []inventory.Item{{AssetID: "1", Type: inventory.TypePatch}}
	names := []string{"a", "b"}
	priorities := map[string][]inventory.ItemType{
		"a": {inventory.TypeKnife},
		"b": {inventory.TypeSticker},
	}

	batches := partition(items, names, priorities)

	assert.Len(t, batches["a"], 1)
}

func TestPartition_NoAlternates(t *testing.T) {
	batches := partition([]inventory.Item{{AssetID: "1"}}, nil, nil)
	assert.Empty(t, batches)
}

func TestPolicyFromOptions(t *testing.T) {
	p := policyFromOptions(config.Options{
		MinPrice:            2.5,
		AlwaysTradeStickers: true,
		AlwaysTradePatches:  true,
	})

	assert.Equal(t, 2.5, p.MinPrice)
	assert.True(t, p.AlwaysTrade[inventory.TypeSticker])
	assert.True(t, p.AlwaysTrade[inventory.TypePatch])
	assert.False(t, p.AlwaysTrade[inventory.TypeGraffiti])
}

func TestParsePriorities(t *testing.T) {
	got := parsePriorities([]string{"Knife", "Sniper Rifle"})
	assert.Equal(t, []inventory.ItemType{inventory.TypeKnife, inventory.TypeSniperRifle}, got)
}
