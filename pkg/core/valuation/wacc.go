// Package valuation implements a deterministic discounted-cash-flow engine.
// All functions are pure: a valuation either succeeds with a fully populated
// result or fails with an error, never a partial result.
package valuation

// WACCInput parameters for calculating the blended cost of capital.
type WACCInput struct {
	Beta              float64 // Levered beta
	RiskFreeRate      float64
	MarketRiskPremium float64
	PreTaxCostOfDebt  float64
	TaxRate           float64
	DebtToEquityRatio float64 // D/E
}

// WACCResult holds the calculated rates and capital weights.
type WACCResult struct {
	CostOfEquity float64
	CostOfDebt   float64 // After-tax
	WACC         float64
	WeightDebt   float64
	WeightEquity float64
}

// CalculateWACC computes the Weighted Average Cost of Capital with CAPM cost
// of equity.
func CalculateWACC(input WACCInput) WACCResult {
	// 1. Cost of Equity (CAPM)
	// Ke = Rf + Beta * ERP
	ke := input.RiskFreeRate + input.Beta*input.MarketRiskPremium

	// 2. Cost of Debt (After-tax)
	kd := input.PreTaxCostOfDebt * (1 - input.TaxRate)

	// 3. Weights
	// D/E = x -> Wd = x / (1+x), We = 1 - Wd
	wd := input.DebtToEquityRatio / (1 + input.DebtToEquityRatio)
	we := 1 - wd

	// 4. WACC
	wacc := ke*we + kd*wd

	return WACCResult{
		CostOfEquity: ke,
		CostOfDebt:   kd,
		WACC:         wacc,
		WeightDebt:   wd,
		WeightEquity: we,
	}
}
