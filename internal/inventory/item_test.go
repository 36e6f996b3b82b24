package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/tradekeeper/internal/trade"
)

func TestItem_MarketName(t *testing.T) {
	withWear := Item{Name: "AK-47 | Redline", Exterior: FieldTested}
	assert.Equal(t, "AK-47 | Redline (Field-Tested)", withWear.MarketName())

	noWear := Item{Name: "Sticker | Crown"}
	assert.Equal(t, "Sticker | Crown", noWear.MarketName())
}

func TestItem_IsWeapon(t *testing.T) {
	assert.True(t, Item{Type: TypeKnife}.IsWeapon())
	assert.True(t, Item{Type: TypeGloves}.IsWeapon())
	assert.True(t, Item{Type: TypeSMG}.IsWeapon())
	assert.False(t, Item{Type: TypeSticker}.IsWeapon())
	assert.False(t, Item{}.IsWeapon())
}

func TestItem_TradeAsset(t *testing.T) {
	item := Item{Name: "x", AppID: 730, ContextID: "2", Amount: 1, AssetID: "23603986921"}

	assert.Equal(t, trade.Asset{
		AppID:     730,
		ContextID: "2",
		Amount:    1,
		AssetID:   "23603986921",
	}, item.TradeAsset())
}

type fakePrices map[string]float64

func (f fakePrices) MedianPrice(name string) float64 {
	if p, ok := f[name]; ok {
		return p
	}
	return -1
}

func TestPolicy_ShouldTrade(t *testing.T) {
	prices := fakePrices{
		"Cheap Pistol (Field-Tested)": 0.10,
		"Pricey Knife (Factory New)":  150.00,
	}

	policy := Policy{
		MinPrice:    0.50,
		AlwaysTrade: map[ItemType]bool{TypeGraffiti: true, TypeSticker: true},
	}

	tests := []struct {
		name string
		item Item
		want bool
	}{
		{
			name: "always-trade type goes regardless of price",
			item: Item{Name: "Pricey Knife", Exterior: FactoryNew, Type: TypeSticker},
			want: true,
		},
		{
			name: "cheap priced item goes",
			item: Item{Name: "Cheap Pistol", Exterior: FieldTested, Type: TypePistol},
			want: true,
		},
		{
			name: "expensive item stays",
			item: Item{Name: "Pricey Knife", Exterior: FactoryNew, Type: TypeKnife},
			want: false,
		},
		{
			name: "unpriced item stays",
			item: Item{Name: "Unknown Thing", Type: TypePatch},
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.ShouldTrade(tt.item, prices))
		})
	}
}

func TestPolicy_Select(t *testing.T) {
	prices := fakePrices{"A": 0.05, "B": 9.99}
	policy := Policy{MinPrice: 1.0}

	got := policy.Select([]Item{{Name: "A"}, {Name: "B"}, {Name: "C"}}, prices)

	assert.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}
