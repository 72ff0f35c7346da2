package marketdata

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DisplayAmount is a human-formatted money value like "€ 102.52" split into
// its parts.
type DisplayAmount struct {
	Amount   float64
	Currency string
}

// ParseDisplayAmount splits a symbol-prefixed display amount into a numeric
// amount and the currency the symbol stands for.
func ParseDisplayAmount(s string) (DisplayAmount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DisplayAmount{}, fmt.Errorf("empty amount")
	}

	// longest symbols first so "Mex$" wins over "$"
	symbols := make([]string, 0, len(CurrencySymbols))
	for symbol := range CurrencySymbols {
		symbols = append(symbols, symbol)
	}
	sort.Slice(symbols, func(i, j int) bool { return len(symbols[i]) > len(symbols[j]) })

	for _, symbol := range symbols {
		if !strings.Contains(s, symbol) {
			continue
		}
		currency := CurrencySymbols[symbol]
		number := strings.TrimSpace(strings.ReplaceAll(s, symbol, ""))
		number = strings.ReplaceAll(number, " ", "")
		amount, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return DisplayAmount{}, fmt.Errorf("unparseable amount %q: %w", s, err)
		}
		return DisplayAmount{
			Amount:   amount,
			Currency: fmt.Sprintf("%s (%s)", currency, symbol),
		}, nil
	}

	return DisplayAmount{}, fmt.Errorf("no known currency symbol in %q", s)
}
