// Package pricing computes batch quotes from a base price, quantity and
// delivery mode. Everything here is a pure function over an injected
// Config; nothing is cached, so a quote can never go stale.
package pricing

import (
	"math"

	"github.com/cutboard/cutboard/internal/models"
)

// Tier grants a discount once the batch reaches MinQuantity videos.
type Tier struct {
	MinQuantity     int
	DiscountPercent int
}

// Config is the platform pricing policy. It is read from configuration and
// passed in explicitly; the engine holds no ambient state.
type Config struct {
	Tiers                  []Tier // ascending by MinQuantity
	PlatformFeePercent     int
	SimultaneousMultiplier float64
	MinBatchQuantity       int
	MaxBatchQuantity       int
}

// DefaultConfig returns the platform defaults: 4+→5%, 7+→8%, 10+→10%,
// 15% platform fee, 1.2× simultaneous delivery, batches of 4–20.
func DefaultConfig() Config {
	return Config{
		Tiers: []Tier{
			{MinQuantity: 4, DiscountPercent: 5},
			{MinQuantity: 7, DiscountPercent: 8},
			{MinQuantity: 10, DiscountPercent: 10},
		},
		PlatformFeePercent:     15,
		SimultaneousMultiplier: 1.2,
		MinBatchQuantity:       4,
		MaxBatchQuantity:       20,
	}
}

// QuantityInRange reports whether a batch quantity is within policy bounds.
// Callers enforce this; Calculate itself stays total.
func (c Config) QuantityInRange(quantity int) bool {
	return quantity >= c.MinBatchQuantity && quantity <= c.MaxBatchQuantity
}

// DiscountFor returns the discount percent of the highest tier whose
// MinQuantity is at or below quantity. Quantity 1 never discounts.
func (c Config) DiscountFor(quantity int) int {
	if quantity <= 1 {
		return 0
	}
	discount := 0
	for _, t := range c.Tiers {
		if quantity >= t.MinQuantity {
			discount = t.DiscountPercent
		}
	}
	return discount
}

// Quote is a fully derived price breakdown. All monetary values are cents.
type Quote struct {
	BasePriceCents      int64               `json:"base_price_cents"`
	Quantity            int                 `json:"quantity"`
	DeliveryMode        models.DeliveryMode `json:"delivery_mode"`
	DiscountPercent     int                 `json:"discount_percent"`
	SubtotalCents       int64               `json:"subtotal_cents"`
	UrgencyFeeCents     int64               `json:"urgency_fee_cents"`
	PlatformFeeCents    int64               `json:"platform_fee_cents"`
	TotalCents          int64               `json:"total_cents"`
	EditorEarningsCents int64               `json:"editor_earnings_cents"`
	PricePerVideoCents  int64               `json:"price_per_video_cents"`
	SavingsCents        int64               `json:"savings_cents"`
}

// Calculate derives a quote from the three true inputs. It is total: out of
// policy quantities still produce a mathematically consistent result, and
// it must be re-called whenever quantity or delivery mode changes.
func Calculate(basePriceCents int64, quantity int, mode models.DeliveryMode, cfg Config) Quote {
	if quantity < 1 {
		quantity = 1
	}
	if basePriceCents < 0 {
		basePriceCents = 0
	}

	discount := cfg.DiscountFor(quantity)
	beforeDiscount := basePriceCents * int64(quantity)
	discountAmount := roundCents(float64(beforeDiscount) * float64(discount) / 100)
	subtotal := beforeDiscount - discountAmount

	var urgency int64
	if quantity > 1 && mode == models.DeliverySimultaneous {
		urgency = roundCents(float64(subtotal) * (cfg.SimultaneousMultiplier - 1))
	}

	total := subtotal + urgency
	platformFee := roundCents(float64(total) * float64(cfg.PlatformFeePercent) / 100)

	return Quote{
		BasePriceCents:      basePriceCents,
		Quantity:            quantity,
		DeliveryMode:        mode,
		DiscountPercent:     discount,
		SubtotalCents:       subtotal,
		UrgencyFeeCents:     urgency,
		PlatformFeeCents:    platformFee,
		TotalCents:          total,
		EditorEarningsCents: total - platformFee,
		PricePerVideoCents:  roundCents(float64(total) / float64(quantity)),
		SavingsCents:        discountAmount,
	}
}

// roundCents rounds half away from zero, clamped at zero on the low side.
func roundCents(v float64) int64 {
	r := int64(math.Round(v))
	if r < 0 {
		return 0
	}
	return r
}
