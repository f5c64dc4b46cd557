package game

import "math"

// Building is a purchasable source of passive DATA.
type Building struct {
	Name      string
	BaseCost  float64
	BaseYield float64 // DATA per second per owned unit
	Count     int

	costScale float64
}

// NextCost returns the price of the next unit: BaseCost * scale^Count.
func (b *Building) NextCost() float64 {
	return b.BaseCost * math.Pow(b.costScale, float64(b.Count))
}

// Yield returns the passive DATA per second contributed by all owned units.
func (b *Building) Yield() float64 {
	return b.BaseYield * float64(b.Count)
}

// newBuildings builds the owned-count table from the catalog.
func newBuildings(specs []BuildingSpec, costScale float64) []Building {
	out := make([]Building, len(specs))
	for i, s := range specs {
		out[i] = Building{
			Name:      s.Name,
			BaseCost:  s.BaseCost,
			BaseYield: s.BaseYield,
			costScale: costScale,
		}
	}
	return out
}
