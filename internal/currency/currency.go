package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// fractionDigits maps ISO 4217 codes to the number of minor-unit digits the
// gateway accepts for amounts in that currency.
var fractionDigits = map[string]int32{
	"USD": 2,
	"EUR": 2,
	"CHF": 2,
	"GBP": 2,
	"KES": 2,
	"NGN": 2,
	"ZAR": 2,
	"JPY": 0,
	"KRW": 0,
	"BHD": 3,
	"KWD": 3,
}

// FractionDigits returns the minor-unit digits for a currency code.
func FractionDigits(code string) (int32, error) {
	d, ok := fractionDigits[code]
	if !ok {
		return 0, fmt.Errorf("unsupported currency: %s", code)
	}
	return d, nil
}

// Round rounds an amount to the precision of the given currency.
func Round(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	d, err := FractionDigits(code)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Round(d), nil
}
