package pricing

import "strings"

// Margin is the profit between a sales price and a purchase cost. It is a
// read-time derivation: never persisted, always recomputed from the current
// cost and price records.
type Margin struct {
	Amount  float64 `json:"margin"`
	Percent float64 `json:"margin_percent"`
}

// ComputeMargin derives the margin between a purchase cost and a sales price
// amount. ok is false when the sales price is zero or negative; the margin
// is undefined there, not an error.
func ComputeMargin(costAmount, priceAmount float64) (Margin, bool) {
	if priceAmount <= 0 {
		return Margin{}, false
	}
	margin := priceAmount - costAmount
	return Margin{
		Amount:  margin,
		Percent: margin / priceAmount * 100,
	}, true
}

// SelectReferenceCard picks the rate card used as the margin baseline when
// starting from a cost record. Preference order: an explicit reference card,
// then a card whose name contains "standard", then the first card in the
// snapshot. ok is false only for an empty snapshot.
func SelectReferenceCard(cards []RateCard) (RateCard, bool) {
	if len(cards) == 0 {
		return RateCard{}, false
	}
	for _, card := range cards {
		if card.IsReference {
			return card, true
		}
	}
	for _, card := range cards {
		if strings.Contains(strings.ToLower(card.Name), "standard") {
			return card, true
		}
	}
	return cards[0], true
}
