// Package payment defines the boundary to the external payment provider.
// The engine decides the amount; capture is the provider's problem.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/cutboard/cutboard/internal/models"
	"github.com/cutboard/cutboard/internal/pricing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChargeRequest asks the provider to capture a quote's total.
type ChargeRequest struct {
	IdempotencyKey uuid.UUID
	ProjectID      string
	AmountCents    int64
	Description    string
}

// ChargeResult is the provider's answer to a capture attempt.
type ChargeResult struct {
	Reference string
	Succeeded bool
}

// Provider captures payments. Implementations live outside this module.
type Provider interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// Checkout reprices a project from its current source fields and charges
// the total. The quote is computed inside the same call so a stale price
// can never reach the provider. The charge reference is stored on success.
func Checkout(ctx context.Context, db *gorm.DB, provider Provider, projectID string, cfg pricing.Config) (*pricing.Quote, error) {
	var p models.Project
	if err := db.Where("id = ?", projectID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment: project not found: %s", projectID)
		}
		return nil, fmt.Errorf("payment: get project %s: %w", projectID, err)
	}
	if p.ChargeRef != "" {
		return nil, fmt.Errorf("payment: project %s already charged (ref %s)", projectID, p.ChargeRef)
	}

	quantity := 1
	mode := models.DeliverySequential
	if p.IsBatch {
		quantity = p.BatchQuantity
		mode = p.BatchDeliveryMode
	}
	quote := pricing.Calculate(p.BasePriceCents, quantity, mode, cfg)

	result, err := provider.Charge(ctx, ChargeRequest{
		IdempotencyKey: uuid.New(),
		ProjectID:      projectID,
		AmountCents:    quote.TotalCents,
		Description:    fmt.Sprintf("%s (%d videos)", p.Title, quantity),
	})
	if err != nil {
		return nil, fmt.Errorf("payment: charge project %s: %w", projectID, err)
	}
	if !result.Succeeded {
		return nil, fmt.Errorf("payment: charge for project %s declined", projectID)
	}

	if err := db.Model(&models.Project{}).Where("id = ?", projectID).
		Update("charge_ref", result.Reference).Error; err != nil {
		return nil, fmt.Errorf("payment: record charge for %s: %w", projectID, err)
	}
	return &quote, nil
}
