package valuation

import (
	"errors"
	"fmt"
	"math"
)

// DefaultProjectionYears is used when Inputs.ProjectionYears is zero.
const DefaultProjectionYears = 5

var (
	// ErrDegenerateTerminal is returned when WACC <= terminal growth under
	// Gordon growth: the perpetuity is undefined there, so the valuation is
	// rejected outright rather than clamped.
	ErrDegenerateTerminal = errors.New("terminal growth rate must be below WACC for Gordon growth")

	ErrNoGrowthRates = errors.New("at least one projection growth rate is required")
	ErrNoShares      = errors.New("shares outstanding must be positive")
)

// Inputs carries everything the DCF engine needs.
type Inputs struct {
	BaseFCF           float64   `json:"base_fcf"`     // Most recent free cash flow
	GrowthRates       []float64 `json:"growth_rates"` // Per-year growth; last rate repeats if exhausted
	TerminalGrowth    float64   `json:"terminal_growth"`
	RiskFreeRate      float64   `json:"risk_free_rate"`
	MarketPremium     float64   `json:"market_premium"`
	Beta              float64   `json:"beta"`
	CostOfDebt        float64   `json:"cost_of_debt"` // Pre-tax
	TaxRate           float64   `json:"tax_rate"`
	DebtToEquity      float64   `json:"debt_to_equity"`
	TotalDebt         float64   `json:"total_debt"`
	Cash              float64   `json:"cash"`
	SharesOutstanding float64   `json:"shares_outstanding"`
	ProjectionYears   int       `json:"projection_years,omitempty"`  // Defaults to DefaultProjectionYears
	TerminalMultiple  *float64  `json:"terminal_multiple,omitempty"` // Optional exit multiple instead of Gordon growth
}

// NetDebt is total debt less cash, the bridge from enterprise to equity value.
func (in Inputs) NetDebt() float64 {
	return in.TotalDebt - in.Cash
}

// Context carries retrieval-backed signals that adjust valuation confidence.
// Quality is the external context quality score in [0, 1].
type Context struct {
	Quality float64
	Sources []string
}

// Result is the fully populated valuation output.
type Result struct {
	EnterpriseValue    float64               `json:"enterprise_value"`
	EquityValue        float64               `json:"equity_value"`
	IntrinsicValue     float64               `json:"intrinsic_value_per_share"`
	WACC               float64               `json:"wacc"`
	TerminalValue      float64               `json:"terminal_value"`
	PVTerminalValue    float64               `json:"pv_terminal_value"`
	PVProjection       float64               `json:"pv_projection_period"`
	ProjectedCashFlows []float64             `json:"projected_cash_flows"`
	DiscountFactors    []float64             `json:"discount_factors"`
	PresentValues      []float64             `json:"present_values"`
	Confidence         float64               `json:"confidence"`
	KeyAssumptions     map[string]float64    `json:"key_assumptions"`
	Sensitivity        map[string][2]float64 `json:"sensitivity_ranges"`
}

// Calculate runs the full DCF: WACC, cash-flow projection, terminal value,
// discounting, and equity bridge. retrievalCtx may be nil.
func Calculate(in Inputs, retrievalCtx *Context) (*Result, error) {
	if len(in.GrowthRates) == 0 {
		return nil, ErrNoGrowthRates
	}
	if in.SharesOutstanding <= 0 {
		return nil, ErrNoShares
	}

	years := in.ProjectionYears
	if years <= 0 {
		years = DefaultProjectionYears
	}

	// 1. WACC
	wacc := CalculateWACC(WACCInput{
		Beta:              in.Beta,
		RiskFreeRate:      in.RiskFreeRate,
		MarketRiskPremium: in.MarketPremium,
		PreTaxCostOfDebt:  in.CostOfDebt,
		TaxRate:           in.TaxRate,
		DebtToEquityRatio: in.DebtToEquity,
	}).WACC

	// 2. Cash-flow projection: last provided rate carries forward
	cashFlows := make([]float64, years)
	running := in.BaseFCF
	for i := 0; i < years; i++ {
		rate := in.GrowthRates[len(in.GrowthRates)-1]
		if i < len(in.GrowthRates) {
			rate = in.GrowthRates[i]
		}
		running *= 1 + rate
		cashFlows[i] = running
	}
	finalYearCF := cashFlows[years-1]

	// 3. Terminal value
	var terminalValue float64
	if in.TerminalMultiple != nil {
		terminalValue = finalYearCF * *in.TerminalMultiple
	} else {
		if wacc <= in.TerminalGrowth {
			return nil, fmt.Errorf("%w: wacc=%.4f, g=%.4f", ErrDegenerateTerminal, wacc, in.TerminalGrowth)
		}
		terminalValue = finalYearCF * (1 + in.TerminalGrowth) / (wacc - in.TerminalGrowth)
	}

	// 4. Discounting
	discountFactors := make([]float64, years)
	presentValues := make([]float64, years)
	var pvProjection float64
	for i := 0; i < years; i++ {
		discountFactors[i] = 1 / math.Pow(1+wacc, float64(i+1))
		presentValues[i] = cashFlows[i] * discountFactors[i]
		pvProjection += presentValues[i]
	}
	pvTerminal := terminalValue * discountFactors[years-1]

	// 5. Equity bridge
	enterpriseValue := pvProjection + pvTerminal
	equityValue := enterpriseValue - in.TotalDebt + in.Cash
	perShare := equityValue / in.SharesOutstanding

	return &Result{
		EnterpriseValue:    enterpriseValue,
		EquityValue:        equityValue,
		IntrinsicValue:     perShare,
		WACC:               wacc,
		TerminalValue:      terminalValue,
		PVTerminalValue:    pvTerminal,
		PVProjection:       pvProjection,
		ProjectedCashFlows: cashFlows,
		DiscountFactors:    discountFactors,
		PresentValues:      presentValues,
		Confidence:         confidence(in, retrievalCtx),
		KeyAssumptions:     keyAssumptions(in, wacc, years, terminalValue/finalYearCF),
		Sensitivity:        sensitivity(in, wacc),
	}, nil
}

// confidence starts from a 0.6 base, adds up to 0.3 scaled by retrieval
// context quality, and 0.1 when terminal growth sits in the conventional
// 2-4% band. Capped at 1.0.
func confidence(in Inputs, retrievalCtx *Context) float64 {
	score := 0.6
	if retrievalCtx != nil {
		quality := math.Max(0, math.Min(1, retrievalCtx.Quality))
		score += 0.3 * quality
	}
	if in.TerminalGrowth >= 0.02 && in.TerminalGrowth <= 0.04 {
		score += 0.1
	}
	return math.Min(score, 1.0)
}

func keyAssumptions(in Inputs, wacc float64, years int, impliedMultiple float64) map[string]float64 {
	firstGrowth := in.GrowthRates[0]
	assumptions := map[string]float64{
		"base_fcf":         in.BaseFCF,
		"base_growth":      firstGrowth,
		"terminal_growth":  in.TerminalGrowth,
		"wacc":             wacc,
		"beta":             in.Beta,
		"tax_rate":         in.TaxRate,
		"projection_years": float64(years),
	}
	if !math.IsInf(impliedMultiple, 0) && !math.IsNaN(impliedMultiple) {
		assumptions["implied_terminal_multiple"] = impliedMultiple
	}
	return assumptions
}

// sensitivity reports the parameter ranges a caller should re-run to bracket
// the estimate: WACC +/-20%, terminal growth +/-50%, first-year growth +/-30%.
func sensitivity(in Inputs, wacc float64) map[string][2]float64 {
	firstGrowth := in.GrowthRates[0]
	return map[string][2]float64{
		"wacc":            {wacc * 0.8, wacc * 1.2},
		"terminal_growth": {in.TerminalGrowth * 0.5, in.TerminalGrowth * 1.5},
		"base_growth":     {firstGrowth * 0.7, firstGrowth * 1.3},
	}
}
