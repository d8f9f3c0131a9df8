package common

import (
	"errors"
	"math"
)

type FareBracket struct {
	Label      string
	UpperMiles float64
	BaseUSD    float64
	PerMileUSD float64
}

// Ordered fare schedule. The first bracket whose upper bound is >= the
// distance applies; boundary values belong to the lower bracket, so exactly
// 5 miles is still "0-5 miles". Distances past the last upper bound keep the
// last bracket's per-mile rate uncapped.
var fareBrackets = []FareBracket{
	{"0-5 miles", 5, 25, 2.00},
	{"6-10 miles", 10, 35, 1.75},
	{"11-20 miles", 20, 45, 1.50},
	{"21-30 miles", 30, 55, 1.25},
	{"31-60 miles", 60, 75, 1.00},
	{"61-100 miles", 100, 120, 1.00},
	{"101-150 miles", 150, 180, 2.00},
	{"151-200 miles", 200, 280, 2.25},
	{"201-300 miles", 300, 400, 2.50},
	{"301-500 miles", 500, 900, 2.50},
	{"501-1,000 miles", 1000, 1650, 3.00},
}

// Traffic surcharge: $0.25 per minute past the first 20 minutes.
const (
	trafficFreeMinutes  = 20
	trafficPerMinuteUSD = 0.25
)

type FareQuote struct {
	Bracket               string  `json:"bracket"`
	BaseCents             int64   `json:"base"`
	PerMileRateCents      int64   `json:"perMileRate"`
	ExtraMiles            float64 `json:"extraMiles"`
	ExtraChargeCents      int64   `json:"extraCharge"`
	TrafficSurchargeCents int64   `json:"trafficSurcharge"`
	TotalCents            int64   `json:"totalCents"`
}

var ErrNegativeQuoteInput = errors.New("distance and duration must not be negative")

// roundCents converts dollars to cents rounding half-up.
func roundCents(usd float64) int64 {
	return int64(math.Floor(usd*100 + 0.5))
}

// Quote prices a transfer from distance and duration alone. Pure and
// deterministic: no I/O, identical output for identical input regardless of
// call order or concurrency.
func Quote(distanceMiles, durationMinutes float64) (*FareQuote, error) {
	if distanceMiles < 0 || durationMinutes < 0 {
		return nil, ErrNegativeQuoteInput
	}
	bracket := fareBrackets[len(fareBrackets)-1]
	for _, b := range fareBrackets {
		if distanceMiles <= b.UpperMiles {
			bracket = b
			break
		}
	}
	extraMiles := math.Max(0, distanceMiles-bracket.UpperMiles)
	extraChargeUSD := extraMiles * bracket.PerMileUSD
	surchargeUSD := math.Max(0, durationMinutes-trafficFreeMinutes) * trafficPerMinuteUSD
	totalUSD := bracket.BaseUSD + extraChargeUSD + surchargeUSD

	return &FareQuote{
		Bracket:               bracket.Label,
		BaseCents:             roundCents(bracket.BaseUSD),
		PerMileRateCents:      roundCents(bracket.PerMileUSD),
		ExtraMiles:            extraMiles,
		ExtraChargeCents:      roundCents(extraChargeUSD),
		TrafficSurchargeCents: roundCents(surchargeUSD),
		TotalCents:            roundCents(totalUSD),
	}, nil
}
