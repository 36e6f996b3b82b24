// Package app wires the components together and runs the trade batch: log
// every account in, work out which of the main account's items should move,
// send one offer per alternate account and accept it on the other side.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/tradekeeper/internal/catalog"
	"github.com/dmitrijs2005/tradekeeper/internal/config"
	"github.com/dmitrijs2005/tradekeeper/internal/inventory"
	"github.com/dmitrijs2005/tradekeeper/internal/logging"
	"github.com/dmitrijs2005/tradekeeper/internal/sessioncache"
	"github.com/dmitrijs2005/tradekeeper/internal/steam"
	"github.com/dmitrijs2005/tradekeeper/internal/trade"
)

// ItemSource yields the items an identity holds. inventory.Client is the
// live implementation.
type ItemSource interface {
	Items(ctx context.Context, steamID64 int64) ([]inventory.Item, error)
}

// App owns the collaborators for one run. Accounts are driven strictly
// sequentially; nothing here is safe for concurrent use.
type App struct {
	cfg *config.Config
	log logging.Logger

	main       *steam.Account
	alternates []*steam.Account
	// priorities is keyed by account name, the stable identity value.
	priorities map[string][]inventory.ItemType

	items  ItemSource
	prices inventory.PriceSource
	coord  *trade.Coordinator
}

// New constructs every collaborator: the session cache, one Account per
// configured identity (eagerly fetching their RSA keys), the price catalog
// snapshot and the inventory client.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	cache, err := sessioncache.New(log)
	if err != nil {
		return nil, err
	}

	main, err := newAccount(ctx, cfg.MainAccount, cache, log)
	if err != nil {
		return nil, fmt.Errorf("main account: %w", err)
	}

	a := &App{
		cfg:        cfg,
		log:        log,
		main:       main,
		priorities: make(map[string][]inventory.ItemType),
		coord:      trade.NewCoordinator(log),
	}

	for _, altCfg := range cfg.AlternateAccounts {
		alt, err := newAccount(ctx, altCfg, cache, log)
		if err != nil {
			return nil, fmt.Errorf("alternate account %s: %w", altCfg.Username, err)
		}
		a.alternates = append(a.alternates, alt)
		a.priorities[alt.Username()] = parsePriorities(altCfg.Priorities)
	}

	prices, err := catalog.NewClient(ctx, "")
	if err != nil {
		return nil, err
	}
	a.prices = prices
	a.items = inventory.NewClient("", log)

	return a, nil
}

func newAccount(ctx context.Context, cfg config.AccountConfig, cache *sessioncache.Cache, log logging.Logger) (*steam.Account, error) {
	return steam.NewAccount(ctx, steam.Config{
		Username:       cfg.Username,
		Password:       cfg.Password,
		SharedSecret:   cfg.SharedSecret,
		IdentitySecret: cfg.IdentitySecret,
	}, cache, log)
}

func parsePriorities(names []string) []inventory.ItemType {
	out := make([]inventory.ItemType, 0, len(names))
	for _, n := range names {
		out = append(out, inventory.ItemType(n))
	}
	return out
}

// Run executes one trade batch. A failed offer aborts only that offer; the
// remaining alternates still get theirs.
func (a *App) Run(ctx context.Context) error {
	if err := a.login(ctx, a.main); err != nil {
		return err
	}
	for _, alt := range a.alternates {
		if err := a.login(ctx, alt); err != nil {
			return err
		}
	}

	items, err := a.items.Items(ctx, a.main.SteamID64())
	if err != nil {
		return err
	}

	policy := policyFromOptions(a.cfg.Options)
	outgoing := policy.Select(items, a.prices)
	a.log.Info(ctx, "selected items to trade", "count", len(outgoing), "of", len(items))

	names := make([]string, 0, len(a.alternates))
	byName := make(map[string]*steam.Account, len(a.alternates))
	for _, alt := range a.alternates {
		names = append(names, alt.Username())
		byName[alt.Username()] = alt
	}

	batches := partition(outgoing, names, a.priorities)

	for _, name := range names {
		assets := batches[name]
		if len(assets) == 0 {
			continue
		}
		alt := byName[name]

		tradeID, err := a.coord.Send(ctx, a.main, alt, assets, nil)
		if err != nil {
			a.log.Error(ctx, "offer failed", "to", name, "error", err)
			continue
		}
		if err := a.coord.Accept(ctx, alt, a.main, tradeID); err != nil {
			a.log.Error(ctx, "acceptance failed", "to", name, "trade_id", tradeID, "error", err)
		}
	}

	return nil
}

// login logs the account in, prompting for a password when none was
// configured and the cached session could not cover for it. The retry
// recomputes the time-based login code.
func (a *App) login(ctx context.Context, acct *steam.Account) error {
	err := acct.Login(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, steam.ErrIncorrectPassword) {
		return err
	}

	pw, perr := promptPassword(os.Stdout, acct.Username())
	if perr != nil {
		return err
	}
	acct.SetPassword(pw)
	return acct.Login(ctx)
}

func policyFromOptions(o config.Options) inventory.Policy {
	always := map[inventory.ItemType]bool{}
	if o.AlwaysTradeGraffities {
		always[inventory.TypeGraffiti] = true
	}
	if o.AlwaysTradeStickers {
		always[inventory.TypeSticker] = true
	}
	if o.AlwaysTradeAgents {
		always[inventory.TypeAgent] = true
	}
	if o.AlwaysTradeContainers {
		always[inventory.TypeContainer] = true
	}
	if o.AlwaysTradeCollectible {
		always[inventory.TypeCollectible] = true
	}
	if o.AlwaysTradePatches {
		always[inventory.TypePatch] = true
	}
	return inventory.Policy{MinPrice: o.MinPrice, AlwaysTrade: always}
}

// partition assigns each item to one alternate account, keyed by account
// name. An item goes to the first account that lists its type as a
// priority, then to the first account with no priorities at all, then to
// the first account.
func partition(items []inventory.Item, names []string, priorities map[string][]inventory.ItemType) map[string][]trade.Asset {
	batches := make(map[string][]trade.Asset)
	if len(names) == 0 {
		return batches
	}

	fallback := names[0]
	for _, name := range names {
		if len(priorities[name]) == 0 {
			fallback = name
			break
		}
	}

	for _, item := range items {
		target := ""
		for _, name := range names {
			for _, typ := range priorities[name] {
				if typ == item.Type {
					target = name
					break
				}
			}
			if target != "" {
				break
			}
		}
		if target == "" {
			target = fallback
		}
		batches[target] = append(batches[target], item.TradeAsset())
	}

	return batches
}
