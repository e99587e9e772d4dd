package queries

import (
	"context"
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ensureOrderVisible fails with errs.ObjectNotFoundError when the order does
// not exist and errs.PermissionDeniedError when the actor may not see it.
// Customers see their own orders; drivers see orders they deliver.
func ensureOrderVisible(ctx context.Context, db *gorm.DB, actor access.Actor, orderID kernel.UUID) error {
	scope, err := actor.Authorize(access.ReadOrderHistory)
	if err != nil {
		return err
	}

	var row struct {
		CustomerID uuid.UUID
	}
	err = db.WithContext(ctx).Table("orders").Select("customer_id").
		Where("id = ?", orderID.Bytes()).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("order", orderID)
	}
	if err != nil {
		return err
	}
	if scope == access.ScopeAny {
		return nil
	}

	visible := false
	switch {
	case actor.Is(access.Customer):
		visible = row.CustomerID == actor.ID().Bytes()
	case actor.Is(access.Driver):
		var n int64
		err = db.WithContext(ctx).Table("deliveries AS d").
			Joins("JOIN drivers AS dr ON dr.id = d.driver_id").
			Where("d.order_id = ? AND dr.user_id = ?", orderID.Bytes(), actor.ID().Bytes()).
			Count(&n).Error
		if err != nil {
			return err
		}
		visible = n > 0
	}
	if !visible {
		return errs.NewPermissionDeniedError(actor.ID(), actor.Role().String(), "read order "+orderID.String())
	}
	return nil
}

// ensureCylinderVisible applies the cylinder read rules. Customers see
// cylinders they hold or held before; drivers see cylinders whose history
// names them as the actor.
func ensureCylinderVisible(ctx context.Context, db *gorm.DB, actor access.Actor, cylinderID kernel.UUID) error {
	scope, err := actor.Authorize(access.ReadCylinderHistory)
	if err != nil {
		return err
	}

	var row struct {
		CurrentCustomerID *uuid.UUID
	}
	err = db.WithContext(ctx).Table("cylinders").Select("current_customer_id").
		Where("id = ?", cylinderID.Bytes()).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("cylinder", cylinderID)
	}
	if err != nil {
		return err
	}
	if scope == access.ScopeAny {
		return nil
	}

	if actor.Is(access.Customer) && row.CurrentCustomerID != nil && *row.CurrentCustomerID == actor.ID().Bytes() {
		return nil
	}

	column := "actor_id"
	if actor.Is(access.Customer) {
		column = "customer_id"
	}
	var n int64
	err = db.WithContext(ctx).Table("cylinder_history").
		Where("cylinder_id = ? AND "+column+" = ?", cylinderID.Bytes(), actor.ID().Bytes()).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NewPermissionDeniedError(actor.ID(), actor.Role().String(), "read cylinder "+cylinderID.String())
	}
	return nil
}

// window applies the shared filter and paging rules to q and returns the
// unpaged total. The date range applies to timeColumn.
func window(
	q *gorm.DB,
	typeColumn, timeColumn string,
	types []string,
	filter audit.Filter,
	page audit.PageRequest,
) (*gorm.DB, int64, error) {
	if len(types) > 0 {
		q = q.Where(typeColumn+" IN ?", types)
	}
	if filter.From != nil {
		q = q.Where(timeColumn+" >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where(timeColumn+" <= ?", *filter.To)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return q.Order(timeColumn + " DESC").Order("id DESC").Limit(page.Limit).Offset(page.Offset), total, nil
}

// normalizeTypes upper-cases the requested types and rejects unknown ones.
func normalizeTypes(types []string, parse func(string) (string, error)) ([]string, error) {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if strings.TrimSpace(t) == "" {
			continue
		}
		v, err := parse(t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
