package game

// CacheState is the phase of the bonus event.
type CacheState int

const (
	CacheDormant   CacheState = iota // Counting down to the next spawn
	CacheAvailable                   // On screen, counting down the catch window
)

func (s CacheState) String() string {
	switch s {
	case CacheDormant:
		return "dormant"
	case CacheAvailable:
		return "available"
	default:
		return "unknown"
	}
}

// Rand is the randomness the cache needs. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Cache is the randomly spawned bonus event ("anomalous signal").
// It alternates between dormant and available; the boost granted by a catch
// is tracked by Game, not here.
type Cache struct {
	State     CacheState
	SpawnIn   float64 // Seconds until the next spawn while dormant
	ExpiresIn float64 // Seconds left to catch while available

	balance CacheBalance
	rng     Rand
}

func newCache(balance CacheBalance, rng Rand) Cache {
	return Cache{
		State:   CacheDormant,
		SpawnIn: float64(rng.IntN(balance.FirstSpawnMax)),
		balance: balance,
		rng:     rng,
	}
}

// Available reports whether the cache can be caught right now.
func (c Cache) Available() bool {
	return c.State == CacheAvailable
}

// update advances the countdowns and returns the transition that happened.
func (c *Cache) update(dt float64) Event {
	switch c.State {
	case CacheDormant:
		c.SpawnIn = countdown(c.SpawnIn, dt)
		if c.SpawnIn <= 0 {
			c.State = CacheAvailable
			c.ExpiresIn = c.balance.CatchWindowSeconds
			return EventCacheSpawned
		}
	case CacheAvailable:
		c.ExpiresIn = countdown(c.ExpiresIn, dt)
		if c.ExpiresIn <= 0 {
			c.retire()
			return EventCacheExpired
		}
	}
	return 0
}

// catch retires an available cache. Returns false when there is nothing to catch.
func (c *Cache) catch() bool {
	if c.State != CacheAvailable {
		return false
	}
	c.retire()
	return true
}

// retire goes dormant with a fresh spawn delay.
func (c *Cache) retire() {
	c.State = CacheDormant
	c.ExpiresIn = 0
	c.SpawnIn = float64(c.balance.RespawnMin + c.rng.IntN(c.balance.RespawnJitter))
}

// countdown decrements t by dt, clamped at zero.
func countdown(t, dt float64) float64 {
	t -= dt
	if t < 0 {
		return 0
	}
	return t
}
