// Package game implements the DATA breach simulation: passive accrual,
// geometric upgrade pricing, manual breaches, timed effects and the cache
// bonus event. It does no I/O; callers react to the events Tick returns.
package game

import (
	"fmt"
	"math"
)

// Event is a set of transitions reported by Tick.
type Event uint8

const (
	EventAutosave     Event = 1 << iota // Autosave interval elapsed
	EventCacheSpawned                   // Cache became available
	EventCacheExpired                   // Cache left uncaught
	EventBoostExpired                   // Click boost returned to 1.0
)

// Has reports whether all flags in f are set.
func (e Event) Has(f Event) bool {
	return e&f == f
}

// Game is the complete state of one player's run.
type Game struct {
	balance Balance

	bank      float64
	baseYield float64 // Σ BaseYield × Count, before the multiplier

	multiplier        float64
	multipliersBought int
	clickShare        float64
	clickSharesBought int
	clickBoost        float64

	lastClick       float64
	feedback        float64 // Seconds left to show the last breach
	autosaveElapsed float64
	autosaveNotice  float64 // Seconds left to show the saved notice
	boostRemaining  float64
	alert           string

	buildings []Building
	cache     Cache
}

// New creates a fresh game. The balance is assumed valid (see Balance.Validate).
func New(balance Balance, rng Rand) *Game {
	return &Game{
		balance:    balance,
		multiplier: 1.0,
		clickBoost: 1.0,
		buildings:  newBuildings(balance.Buildings, balance.CostScale),
		cache:      newCache(balance.Cache, rng),
	}
}

// Tick advances the simulation by dt seconds. Negative and NaN dt count as zero.
func (g *Game) Tick(dt float64) Event {
	if !(dt > 0) {
		dt = 0
	}

	g.bank += g.baseYield * dt * g.multiplier

	var ev Event
	g.feedback = countdown(g.feedback, dt)
	g.autosaveNotice = countdown(g.autosaveNotice, dt)

	g.autosaveElapsed += dt
	if g.autosaveElapsed >= g.balance.Autosave.IntervalSeconds {
		g.autosaveElapsed = 0
		ev |= EventAutosave
	}

	if g.boostRemaining > 0 {
		g.boostRemaining = countdown(g.boostRemaining, dt)
		if g.boostRemaining <= 0 {
			g.clickBoost = 1.0
			g.alert = ""
			ev |= EventBoostExpired
		}
	}

	ev |= g.cache.update(dt)
	return ev
}

// Click performs a manual breach and returns the DATA it yielded.
func (g *Game) Click() float64 {
	share := g.YieldPerSecond() * g.clickShare
	amount := (g.balance.Click.Base + share) * g.clickBoost
	g.bank += amount
	g.lastClick = amount
	g.feedback = g.balance.Click.FeedbackSeconds
	return amount
}

// CatchCache claims an available cache, boosting breaches for a while.
func (g *Game) CatchCache() bool {
	if !g.cache.catch() {
		return false
	}
	c := g.balance.Cache
	g.clickBoost = c.BoostMultiplier
	g.boostRemaining = c.BoostSeconds
	g.alert = fmt.Sprintf("BREACH PROTOCOL: %sx DATA MINING FOR %ss!",
		trimFloat(c.BoostMultiplier), trimFloat(c.BoostSeconds))
	g.feedback = c.FeedbackSeconds
	return true
}

// BuyBuilding buys one unit of source i. Unaffordable or unknown sources are ignored.
func (g *Game) BuyBuilding(i int) bool {
	if i < 0 || i >= len(g.buildings) {
		return false
	}
	b := &g.buildings[i]
	cost := b.NextCost()
	if !g.CanAfford(cost) {
		return false
	}
	g.bank -= cost
	b.Count++
	g.recomputeYield()
	return true
}

// BuyMultiplier buys one step of the permanent multiplier.
func (g *Game) BuyMultiplier() bool {
	cost := g.MultiplierCost()
	if !g.CanAfford(cost) {
		return false
	}
	g.bank -= cost
	g.multiplier += g.balance.Multiplier.Step
	g.multipliersBought++
	g.recomputeYield()
	return true
}

// BuyClickShare buys one step of click share.
func (g *Game) BuyClickShare() bool {
	cost := g.ClickShareCost()
	if !g.CanAfford(cost) {
		return false
	}
	g.bank -= cost
	g.clickShare += g.balance.ClickShare.Step
	g.clickSharesBought++
	return true
}

// MarkSaved shows the saved notice.
func (g *Game) MarkSaved() {
	g.autosaveNotice = g.balance.Autosave.NoticeSeconds
}

func (g *Game) recomputeYield() {
	total := 0.0
	for i := range g.buildings {
		total += g.buildings[i].Yield()
	}
	g.baseYield = total
}

// CanAfford reports whether the bank covers cost.
func (g *Game) CanAfford(cost float64) bool {
	return g.bank >= cost
}

// BuildingCost returns the next price of source i, or +Inf for an unknown source.
func (g *Game) BuildingCost(i int) float64 {
	if i < 0 || i >= len(g.buildings) {
		return math.Inf(1)
	}
	return g.buildings[i].NextCost()
}

// MultiplierCost returns the next multiplier price.
func (g *Game) MultiplierCost() float64 {
	u := g.balance.Multiplier
	return u.BaseCost * math.Pow(u.CostScale, float64(g.multipliersBought))
}

// ClickShareCost returns the next click share price.
func (g *Game) ClickShareCost() float64 {
	u := g.balance.ClickShare
	return u.BaseCost * math.Pow(u.CostScale, float64(g.clickSharesBought))
}

func (g *Game) Bank() float64           { return g.bank }
func (g *Game) BaseYield() float64      { return g.baseYield }
func (g *Game) Multiplier() float64     { return g.multiplier }
func (g *Game) ClickShare() float64     { return g.clickShare }
func (g *Game) ClickBoost() float64     { return g.clickBoost }
func (g *Game) LastClick() float64      { return g.lastClick }
func (g *Game) BoostRemaining() float64 { return g.boostRemaining }
func (g *Game) Alert() string           { return g.alert }
func (g *Game) NumBuildings() int       { return len(g.buildings) }

// YieldPerSecond is the effective passive DATA per second.
func (g *Game) YieldPerSecond() float64 {
	return g.baseYield * g.multiplier
}

// FeedbackVisible reports whether the last breach should still be shown.
func (g *Game) FeedbackVisible() bool {
	return g.feedback > 0
}

// SavedNoticeVisible reports whether the saved notice should still be shown.
func (g *Game) SavedNoticeVisible() bool {
	return g.autosaveNotice > 0
}

// Building returns a copy of source i.
func (g *Game) Building(i int) (Building, bool) {
	if i < 0 || i >= len(g.buildings) {
		return Building{}, false
	}
	return g.buildings[i], true
}

// Cache returns a copy of the bonus event state.
func (g *Game) Cache() Cache {
	return g.cache
}

// trimFloat formats f without trailing zeros.
func trimFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}
