// Package billing holds the two static decision tables behind /estimate and
// /insurance/check. No billing integration sits behind either.
package billing

import (
	"errors"
	"strings"
)

var ErrUnknownProcedure = errors.New("procedure not found")

// Base prices by CDT procedure code.
var baseRates = map[string]float64{
	"D1110": 120.0, // adult prophylaxis
	"D0150": 110.0, // comprehensive oral eval
	"D0274": 85.0,  // bitewing four films
	"D2331": 180.0, // resin composite 2 surfaces
}

// EstimateCost looks up the base price for a procedure code. The code is
// upper-cased before lookup and returned normalized. No modifiers, insurance
// adjustments or taxes apply.
func EstimateCost(procedureCode string) (string, float64, error) {
	code := strings.ToUpper(procedureCode)
	base, ok := baseRates[code]
	if !ok {
		return "", 0, ErrUnknownProcedure
	}
	return code, base, nil
}
