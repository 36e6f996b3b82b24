// Package inventory retrieves and models the items one identity holds, and
// decides which of them should be traded away.
package inventory

import (
	"github.com/dmitrijs2005/tradekeeper/internal/trade"
)

// Exterior is the wear grade in an item's market name.
type Exterior string

const (
	FactoryNew    Exterior = "Factory New"
	MinimalWear   Exterior = "Minimal Wear"
	FieldTested   Exterior = "Field-Tested"
	WellWorn      Exterior = "Well-Worn"
	BattleScarred Exterior = "Battle-Scarred"
)

// ItemType is the localized type tag on an item description.
type ItemType string

const (
	TypeKnife       ItemType = "Knife"
	TypeGloves      ItemType = "Gloves"
	TypePistol      ItemType = "Pistol"
	TypeRifle       ItemType = "Rifle"
	TypeSniperRifle ItemType = "Sniper Rifle"
	TypeShotgun     ItemType = "Shotgun"
	TypeSMG         ItemType = "SMG"
	TypeMachinegun  ItemType = "Machinegun"
	TypeGraffiti    ItemType = "Graffiti"
	TypeSticker     ItemType = "Sticker"
	TypeAgent       ItemType = "Agent"
	TypeContainer   ItemType = "Container"
	TypeCollectible ItemType = "Collectible"
	TypePatch       ItemType = "Patch"
)

var weaponTypes = map[ItemType]struct{}{
	TypeKnife: {}, TypeGloves: {}, TypePistol: {}, TypeRifle: {},
	TypeSniperRifle: {}, TypeShotgun: {}, TypeSMG: {}, TypeMachinegun: {},
}

// knownTypes is every ItemType the parser recognizes; anything else on a
// description stays untyped.
var knownTypes = func() map[string]ItemType {
	m := make(map[string]ItemType)
	for _, t := range []ItemType{
		TypeKnife, TypeGloves, TypePistol, TypeRifle,
		TypeSniperRifle, TypeShotgun, TypeSMG, TypeMachinegun,
		TypeGraffiti, TypeSticker, TypeAgent, TypeContainer,
		TypeCollectible, TypePatch,
	} {
		m[string(t)] = t
	}
	return m
}()

// Item is one tradable inventory entry.
type Item struct {
	Name      string
	AppID     int64
	ContextID string
	Amount    int64
	AssetID   string

	// optional classification
	Exterior Exterior
	Type     ItemType
}

// IsWeapon reports whether the item is a weapon (or glove) skin.
func (i Item) IsWeapon() bool {
	_, ok := weaponTypes[i.Type]
	return ok
}

// MarketName is the name the price catalog keys on: the item name plus the
// wear grade when it has one.
func (i Item) MarketName() string {
	if i.Exterior != "" {
		return i.Name + " (" + string(i.Exterior) + ")"
	}
	return i.Name
}

// TradeAsset converts the item into the asset reference a trade offer
// carries.
func (i Item) TradeAsset() trade.Asset {
	return trade.Asset{
		AppID:     i.AppID,
		ContextID: i.ContextID,
		Amount:    i.Amount,
		AssetID:   i.AssetID,
	}
}
