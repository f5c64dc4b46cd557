package game

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxBuildings is the number of sources the shop has keys for.
const MaxBuildings = 13

// BuildingSpec describes a purchasable source in the catalog.
type BuildingSpec struct {
	Name      string  `yaml:"name"`
	BaseCost  float64 `yaml:"base_cost"`
	BaseYield float64 `yaml:"base_yield"`
}

// UpgradeBalance prices a repeatable upgrade: cost = BaseCost * CostScale^bought.
type UpgradeBalance struct {
	BaseCost  float64 `yaml:"base_cost"`
	CostScale float64 `yaml:"cost_scale"`
	Step      float64 `yaml:"step"` // Added to the upgraded value per purchase
}

// ClickBalance tunes the manual breach action.
type ClickBalance struct {
	Base            float64 `yaml:"base"`
	FeedbackSeconds float64 `yaml:"feedback_seconds"`
}

// AutosaveBalance tunes periodic saving.
type AutosaveBalance struct {
	IntervalSeconds float64 `yaml:"interval_seconds"`
	NoticeSeconds   float64 `yaml:"notice_seconds"`
}

// CacheBalance tunes the randomly spawned bonus event.
type CacheBalance struct {
	BoostMultiplier    float64 `yaml:"boost_multiplier"`
	BoostSeconds       float64 `yaml:"boost_seconds"`
	CatchWindowSeconds float64 `yaml:"catch_window_seconds"`
	FeedbackSeconds    float64 `yaml:"feedback_seconds"`
	FirstSpawnMax      int     `yaml:"first_spawn_max"` // First delay in [0, FirstSpawnMax) seconds
	RespawnMin         int     `yaml:"respawn_min"`     // Later delays start here...
	RespawnJitter      int     `yaml:"respawn_jitter"`  // ...plus [0, RespawnJitter) seconds
}

// Balance holds every tunable of the simulation.
type Balance struct {
	CostScale  float64         `yaml:"cost_scale"`
	Multiplier UpgradeBalance  `yaml:"multiplier"`
	ClickShare UpgradeBalance  `yaml:"click_share"`
	Click      ClickBalance    `yaml:"click"`
	Autosave   AutosaveBalance `yaml:"autosave"`
	Cache      CacheBalance    `yaml:"cache"`
	Buildings  []BuildingSpec  `yaml:"buildings"`
}

// DefaultBalance returns the stock game balance.
func DefaultBalance() Balance {
	return Balance{
		CostScale: 1.15,
		Multiplier: UpgradeBalance{
			BaseCost:  1000,
			CostScale: 1.5,
			Step:      0.1,
		},
		ClickShare: UpgradeBalance{
			BaseCost:  500,
			CostScale: 1.8,
			Step:      0.01,
		},
		Click: ClickBalance{
			Base:            1.0,
			FeedbackSeconds: 0.35,
		},
		Autosave: AutosaveBalance{
			IntervalSeconds: 30,
			NoticeSeconds:   2,
		},
		Cache: CacheBalance{
			BoostMultiplier:    777,
			BoostSeconds:       30,
			CatchWindowSeconds: 10,
			FeedbackSeconds:    2,
			FirstSpawnMax:      90,
			RespawnMin:         45,
			RespawnJitter:      45,
		},
		Buildings: []BuildingSpec{
			{"Ping", 15, 0.1},
			{"Neural Link", 100, 1.0},
			{"Coprocessor", 1100, 8.0},
			{"Grouped Subnet Breach", 12000, 47.0},
			{"Daemon", 130000, 260.0},
			{"Deep Dive Port", 1400000, 1400.0},
			{"Micro-AI", 20000000, 7800.0},
			{"L.I.L.I.T.H.", 330000000, 44000},
			{"Bartmoss' Cyberdeck", 5100000000, 260000},
			{"Project Oracle", 75000000000, 1600000},
			{"Cynosure Datacore", 1000000000000, 1000000},
			{"Neural Matrix", 14000000000000, 65000000},
			{"Alt", 170000000000000, 430000000},
		},
	}
}

// LoadBalance reads a YAML balance file on top of DefaultBalance.
// Fields missing from the file keep their default value; a buildings list,
// when present, replaces the default catalog.
func LoadBalance(path string) (Balance, error) {
	b := DefaultBalance()
	data, err := os.ReadFile(path)
	if err != nil {
		return Balance{}, fmt.Errorf("read balance: %w", err)
	}
	overlay := b
	overlay.Buildings = nil
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Balance{}, fmt.Errorf("parse balance %s: %w", path, err)
	}
	if len(overlay.Buildings) == 0 {
		overlay.Buildings = b.Buildings
	}
	if err := overlay.Validate(); err != nil {
		return Balance{}, fmt.Errorf("invalid balance %s: %w", path, err)
	}
	return overlay, nil
}

// Validate reports every setting that would make the simulation misbehave.
func (b Balance) Validate() error {
	var errs []error
	if b.CostScale <= 1 {
		errs = append(errs, fmt.Errorf("cost_scale must be > 1, got %v", b.CostScale))
	}
	for name, u := range map[string]UpgradeBalance{"multiplier": b.Multiplier, "click_share": b.ClickShare} {
		if u.BaseCost <= 0 || u.CostScale <= 1 || u.Step <= 0 {
			errs = append(errs, fmt.Errorf("%s: base_cost and step must be > 0 and cost_scale > 1", name))
		}
	}
	if b.Click.Base < 0 || b.Click.FeedbackSeconds < 0 {
		errs = append(errs, errors.New("click: values must not be negative"))
	}
	if b.Autosave.IntervalSeconds <= 0 || b.Autosave.NoticeSeconds < 0 {
		errs = append(errs, errors.New("autosave: interval_seconds must be > 0"))
	}
	c := b.Cache
	if c.BoostMultiplier < 1 || c.BoostSeconds <= 0 || c.CatchWindowSeconds <= 0 || c.FeedbackSeconds < 0 {
		errs = append(errs, errors.New("cache: boost_multiplier must be >= 1 and durations > 0"))
	}
	if c.FirstSpawnMax <= 0 || c.RespawnMin < 0 || c.RespawnJitter <= 0 {
		errs = append(errs, errors.New("cache: first_spawn_max and respawn_jitter must be > 0, respawn_min >= 0"))
	}
	if n := len(b.Buildings); n == 0 || n > MaxBuildings {
		errs = append(errs, fmt.Errorf("buildings: need 1..%d entries, got %d", MaxBuildings, n))
	}
	for i, s := range b.Buildings {
		if s.Name == "" || s.BaseCost <= 0 || s.BaseYield < 0 {
			errs = append(errs, fmt.Errorf("buildings[%d]: name required, base_cost > 0, base_yield >= 0", i))
		}
	}
	return errors.Join(errs...)
}
