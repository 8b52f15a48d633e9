package dealcalc

// NetProfit is the ARV minus price, renovation, financing and a flat misc
// overhead of miscCostsPercentage of the renovation cost. The itemized
// CurrentCosts and MiscCostsBreakdown are informational only and are not
// part of this figure.
func NetProfit(p Property, f CalculationFactors) float64 {
	miscCosts := MiscCosts(p, f)
	totalCosts := p.Price + p.RenovationCost + FinancingCosts(p, f) + miscCosts
	return p.EstimatedARV - totalCosts
}

// MiscCosts is the flat overhead charged against the renovation budget.
func MiscCosts(p Property, f CalculationFactors) float64 {
	return p.RenovationCost * f.MiscCostsPercentage / 100
}

// ROI is the percentage return on price plus renovation. A zero investment
// yields ±Inf or NaN, which filters and sorts must tolerate.
func ROI(arv, purchasePrice, renovationCost float64) float64 {
	profit := arv - (purchasePrice + renovationCost)
	totalInvestment := purchasePrice + renovationCost
	return profit / totalInvestment * 100
}

// TotalInvestment is price plus renovation cost.
func TotalInvestment(p Property) float64 {
	return p.Price + p.RenovationCost
}

// Metrics are the derived figures shown for a listing.
type Metrics struct {
	FinancingCosts  float64 `json:"financing_costs"`
	MiscCosts       float64 `json:"misc_costs"`
	TotalCosts      float64 `json:"total_costs"`
	NetProfit       float64 `json:"net_profit"`
	ROI             float64 `json:"roi"`
	TotalInvestment float64 `json:"total_investment"`
}

// Evaluate computes every metric of p under f.
func Evaluate(p Property, f CalculationFactors) Metrics {
	financing := FinancingCosts(p, f)
	misc := MiscCosts(p, f)
	total := p.Price + p.RenovationCost + financing + misc
	return Metrics{
		FinancingCosts:  financing,
		MiscCosts:       misc,
		TotalCosts:      total,
		NetProfit:       p.EstimatedARV - total,
		ROI:             ROI(p.EstimatedARV, p.Price, p.RenovationCost),
		TotalInvestment: TotalInvestment(p),
	}
}
