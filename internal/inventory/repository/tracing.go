package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("inventory-repository")

// GormInventoryRepositoryWithTracing wraps GormInventoryRepository with tracing
type GormInventoryRepositoryWithTracing struct {
	*GormInventoryRepository
}

// NewGormInventoryRepositoryWithTracing creates a new repository with tracing
func NewGormInventoryRepositoryWithTracing(db *gorm.DB) *GormInventoryRepositoryWithTracing {
	return &GormInventoryRepositoryWithTracing{
		GormInventoryRepository: NewGormInventoryRepository(db),
	}
}

// AvailabilityWithContext sums availability under a repository span
func (r *GormInventoryRepositoryWithTracing) AvailabilityWithContext(ctx context.Context, variantID uint) (int, error) {
	_, span := tracer.Start(ctx, "repository.Availability",
		trace.WithAttributes(
			attribute.Int("inventory.variant_id", int(variantID)),
		),
	)
	defer span.End()

	available, err := r.GormInventoryRepository.Availability(variantID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int("inventory.available", available))
	return available, nil
}

// AdjustQuantityWithContext applies a manual adjustment under a repository span
func (r *GormInventoryRepositoryWithTracing) AdjustQuantityWithContext(ctx context.Context, variantID, warehouseID uint, change int, notes string) error {
	_, span := tracer.Start(ctx, "repository.AdjustQuantity",
		trace.WithAttributes(
			attribute.Int("inventory.variant_id", int(variantID)),
			attribute.Int("inventory.warehouse_id", int(warehouseID)),
			attribute.Int("inventory.change", change),
		),
	)
	defer span.End()

	err := r.GormInventoryRepository.AdjustQuantity(variantID, warehouseID, change, notes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// DecrementOnHandWithContext runs the conditional decrement under a repository span
func (r *GormInventoryRepositoryWithTracing) DecrementOnHandWithContext(ctx context.Context, variantID, warehouseID uint, qty int) (bool, error) {
	_, span := tracer.Start(ctx, "repository.DecrementOnHand",
		trace.WithAttributes(
			attribute.Int("inventory.variant_id", int(variantID)),
			attribute.Int("inventory.warehouse_id", int(warehouseID)),
			attribute.Int("inventory.quantity", qty),
		),
	)
	defer span.End()

	ok, err := r.GormInventoryRepository.DecrementOnHand(variantID, warehouseID, qty)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetAttributes(attribute.Bool("inventory.decremented", ok))
	return ok, nil
}
