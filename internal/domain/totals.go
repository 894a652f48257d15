package domain

type Totals struct {
	Price   float64 `json:"total_price"`
	Wattage float64 `json:"total_wattage"`
}

// Recompute sums price and power draw over every selected part, including
// every entry of multi-instance slots.
func Recompute(s *Selection) Totals {
	var t Totals
	s.Each(func(_ Category, c Component) {
		t.Price += c.Price
		if c.Wattage > 0 {
			t.Wattage += c.Wattage
		}
	})
	return t
}

// LoadPercent is the share of psuCapacity drawn by the build.
func (t Totals) LoadPercent(psuCapacity float64) float64 {
	if psuCapacity <= 0 {
		return 0
	}
	return t.Wattage / psuCapacity * 100
}
