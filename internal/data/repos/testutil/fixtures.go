package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/lims-backend/internal/domain"
	"github.com/yungbote/lims-backend/internal/normalization"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	now := time.Now().UTC()
	u := &types.User{
		ID:        uuid.New(),
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedReagent(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, formula *string) *types.Reagent {
	tb.Helper()
	now := time.Now().UTC()
	r := &types.Reagent{
		ID:        uuid.New(),
		Name:      name,
		NameKey:   normalization.Key(name),
		Formula:   formula,
		Status:    types.ReagentStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed reagent: %v", err)
	}
	return r
}

func SeedBatch(tb testing.TB, ctx context.Context, tx *gorm.DB, reagentID uuid.UUID, number string, qty, reserved float64) *types.Batch {
	tb.Helper()
	now := time.Now().UTC()
	b := &types.Batch{
		ID:               uuid.New(),
		ReagentID:        reagentID,
		BatchNumber:      number,
		Quantity:         qty,
		OriginalQuantity: qty,
		ReservedQuantity: reserved,
		Unit:             "L",
		Status:           types.BatchStatusAvailable,
		ReceivedDate:     now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed batch: %v", err)
	}
	return b
}
