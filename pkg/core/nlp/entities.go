// Package nlp turns free-text financial questions into structured signals:
// ticker entities and a classified question intent. Classification is
// pattern-based; there is no learned model here.
package nlp

import (
	"regexp"
	"sort"
	"strings"
)

// companyTickers maps well-known company names to their primary ticker.
// Matched case-insensitively as substrings of the question.
var companyTickers = map[string]string{
	"apple":             "AAPL",
	"microsoft":         "MSFT",
	"google":            "GOOGL",
	"alphabet":          "GOOGL",
	"amazon":            "AMZN",
	"meta":              "META",
	"facebook":          "META",
	"tesla":             "TSLA",
	"nvidia":            "NVDA",
	"netflix":           "NFLX",
	"intel":             "INTC",
	"oracle":            "ORCL",
	"salesforce":        "CRM",
	"berkshire":         "BRK.B",
	"jpmorgan":          "JPM",
	"goldman sachs":     "GS",
	"exxon":             "XOM",
	"johnson & johnson": "JNJ",
	"walmart":           "WMT",
	"disney":            "DIS",
}

// stopWords are uppercase English words that look like tickers but are not.
var stopWords = map[string]bool{
	"A": true, "I": true, "THE": true, "AND": true, "OR": true, "OF": true,
	"TO": true, "IN": true, "ON": true, "AT": true, "IS": true, "IT": true,
	"BE": true, "AS": true, "BY": true, "AN": true, "IF": true, "DO": true,
	"SO": true, "UP": true, "MY": true, "ME": true, "WE": true, "US": true,
	"ONE": true, "TWO": true, "FOR": true, "ARE": true, "BUT": true,
	"NOT": true, "YOU": true, "ALL": true, "CAN": true, "HOW": true,
	"WHAT": true, "WHEN": true, "WHY": true, "WHO": true, "WILL": true,
	"WITH": true, "THIS": true, "THAT": true, "FROM": true, "HAVE": true,
	"HAS": true, "ITS": true, "WAS": true, "OVER": true, "THAN": true,
	"VS": true, "ETF": true, "CEO": true, "CFO": true, "IPO": true,
	"USD": true, "EPS": true, "DCF": true, "PE": true,
}

var (
	// Bare uppercase tokens, 1-5 letters, as they appear in the raw text.
	bareTickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)
	// Explicitly introduced symbols: "ticker: aapl", "symbol:MSFT", "stock: tsla".
	prefixedTickerPattern = regexp.MustCompile(`(?i)\b(?:ticker|symbol|stock)\s*:\s*([A-Za-z]{1,5})\b`)
)

// ExtractTickers returns the deduplicated, uppercase-normalized set of ticker
// symbols mentioned in the question. The result may be empty; callers are
// expected to substitute a default symbol downstream.
func ExtractTickers(question string) []string {
	seen := make(map[string]bool)
	var tickers []string

	add := func(symbol string) {
		symbol = strings.ToUpper(symbol)
		if symbol == "" || stopWords[symbol] || seen[symbol] {
			return
		}
		seen[symbol] = true
		tickers = append(tickers, symbol)
	}

	// 1. Known company names (case-insensitive substring match)
	lower := strings.ToLower(question)
	for name, symbol := range companyTickers {
		if strings.Contains(lower, name) {
			add(symbol)
		}
	}

	// 2. Prefixed symbols ("ticker: xyz") take the explicit capture
	for _, m := range prefixedTickerPattern.FindAllStringSubmatch(question, -1) {
		add(m[1])
	}

	// 3. Bare uppercase ticker-like tokens in the original text
	for _, token := range bareTickerPattern.FindAllString(question, -1) {
		add(token)
	}

	// Map iteration above makes name matches arrive in random order; keep the
	// output stable for callers and tests.
	sort.Strings(tickers)
	return tickers
}
