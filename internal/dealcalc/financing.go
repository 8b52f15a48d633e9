package dealcalc

import "math"

// LoanTermYears is the amortization term used for acquisition loans. The
// holding period only decides how many of its payments are charged.
const LoanTermYears = 30

// MonthlyPayment is the payment on a fully amortizing loan.
//
//	r = annualRatePercent / 12 / 100, n = years * 12
//	payment = principal * r * (1+r)^n / ((1+r)^n - 1)
//
// At a 0% rate the formula divides by zero, so the payment is principal / n.
func MonthlyPayment(principal, annualRatePercent, years float64) float64 {
	n := years * 12
	if annualRatePercent == 0 {
		return principal / n
	}
	r := annualRatePercent / 12 / 100
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1)
}

// FinancingCosts is the cost of borrowing over the holding period: the
// loan payments on the financed part of the price plus simple interest on
// the renovation budget. Cash purchases cost nothing to finance.
func FinancingCosts(p Property, f CalculationFactors) float64 {
	if f.PurchaseModel == PurchaseCash {
		return 0
	}

	loanAmount := p.Price * (1 - f.DownPaymentPercentage/100)
	payment := MonthlyPayment(loanAmount, f.InterestRate, LoanTermYears)
	baseFinancing := payment * f.HoldingPeriod

	rehabFinancing := p.RenovationCost * f.InterestRate * f.HoldingPeriod / (12 * 100)

	return baseFinancing + rehabFinancing
}
