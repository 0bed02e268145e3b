package catalog

import (
	"fmt"
	"strings"
)

// Complexities are the complexity grades in price order.
var Complexities = []string{"A", "B", "C", "D"}

// PriceEntry is the CLP price of one anatomical region per complexity grade (A..D).
type PriceEntry struct {
	Region string
	Prices [4]int
}

var priceList = []PriceEntry{
	{"Ángulo Mandibular", [4]int{600_000, 680_000, 900_000, 1_080_000}},
	{"Cigomático", [4]int{480_000, 580_000, 680_000, 840_000}},
	{"Infraorbitario", [4]int{480_000, 580_000, 680_000, 840_000}},
	{"Injerto Facial", [4]int{650_000, 780_000, 980_000, 1_170_000}},
	{"Mentón", [4]int{600_000, 720_000, 900_000, 1_080_000}},
	{"Paranasales", [4]int{400_000, 500_000, 600_000, 700_000}},
	{"Piso de Órbita", [4]int{630_000, 750_000, 945_000, 1_130_000}},
	{"Reborde Infraorbitario", [4]int{700_000, 840_000, 1_050_000, 1_250_000}},
	{"Supraorbital", [4]int{840_000, 1_000_000, 1_260_000, 1_500_000}},
	{"Personalizado", [4]int{600_000, 780_000, 980_000, 1_280_000}},
}

// PriceList returns a copy of the reference price list in display order.
func PriceList() []PriceEntry {
	out := make([]PriceEntry, len(priceList))
	copy(out, priceList)
	return out
}

func Regions() []string {
	out := make([]string, len(priceList))
	for i, e := range priceList {
		out[i] = e.Region
	}
	return out
}

// Price looks up the list price. Region names must match exactly; complexity is case-insensitive.
func Price(region, complexity string) (int, error) {
	grade := complexityIndex(complexity)
	for _, e := range priceList {
		if e.Region != region {
			continue
		}
		if grade < 0 {
			return 0, fmt.Errorf("invalid complexity: %q", complexity)
		}
		return e.Prices[grade], nil
	}
	return 0, fmt.Errorf("unknown region: %q", region)
}

func ValidComplexity(c string) bool { return complexityIndex(c) >= 0 }

func complexityIndex(c string) int {
	c = strings.ToUpper(strings.TrimSpace(c))
	for i, g := range Complexities {
		if c == g {
			return i
		}
	}
	return -1
}
