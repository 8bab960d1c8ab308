package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"finsight/pkg/core/utils"
	"finsight/pkg/core/valuation"
)

func logStep(step string, details string) {
	fmt.Printf("\n[STEP] %s\n", step)
	fmt.Println("---------------------------------------------------------")
	fmt.Println(details)
	fmt.Println("---------------------------------------------------------")
}

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println("Usage: dcf <inputs.json> [context_quality]")
		fmt.Println("  inputs.json carries base_fcf, growth_rates, terminal_growth,")
		fmt.Println("  risk_free_rate, market_premium, beta, cost_of_debt, tax_rate,")
		fmt.Println("  debt_to_equity, total_debt, cash, shares_outstanding")
		os.Exit(1)
	}

	logStep("1. Load Inputs", fmt.Sprintf("Reading DCF inputs from %s", os.Args[1]))
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Printf("[ERROR] Failed to read inputs: %v\n", err)
		os.Exit(1)
	}

	// Inputs files are often hand-edited; tolerate trailing commas and
	// single quotes the same way LLM output is parsed.
	var inputs valuation.Inputs
	if _, err := utils.SmartParse(string(data), &inputs); err != nil {
		fmt.Printf("[ERROR] Failed to parse inputs: %v\n", err)
		os.Exit(1)
	}

	var retrievalCtx *valuation.Context
	if len(os.Args) > 2 {
		var quality float64
		if _, err := fmt.Sscanf(os.Args[2], "%f", &quality); err == nil {
			retrievalCtx = &valuation.Context{Quality: quality}
		}
	}

	logStep("2. Run Valuation", fmt.Sprintf("Projecting %d growth rates, terminal growth %.2f%%",
		len(inputs.GrowthRates), inputs.TerminalGrowth*100))

	result, err := valuation.Calculate(inputs, retrievalCtx)
	if err != nil {
		fmt.Printf("[ERROR] Valuation failed: %v\n", err)
		os.Exit(1)
	}

	logStep("3. Results", formatResult(result))

	resultJSON, err := json.MarshalIndent(result, "", "  ")
	if err == nil {
		fmt.Println(string(resultJSON))
	}
}

func formatResult(r *valuation.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "WACC:                    %.4f\n", r.WACC)
	fmt.Fprintf(&b, "Enterprise Value:        %.2f\n", r.EnterpriseValue)
	fmt.Fprintf(&b, "Equity Value:            %.2f\n", r.EquityValue)
	fmt.Fprintf(&b, "Intrinsic Value / Share: %.2f\n", r.IntrinsicValue)
	fmt.Fprintf(&b, "Confidence:              %.2f", r.Confidence)
	return b.String()
}
