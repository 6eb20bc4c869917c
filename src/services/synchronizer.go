package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/username/finanphy/console/src/gateway"
	"github.com/username/finanphy/console/src/logger"
	"github.com/username/finanphy/console/src/models"
	"github.com/username/finanphy/console/src/utils"
)

type synchronizerImpl struct {
	gateway gateway.Gateway
	views   ViewService
}

func NewSynchronizer(gw gateway.Gateway, views ViewService) Synchronizer {
	return &synchronizerImpl{
		gateway: gw,
		views:   views,
	}
}

// CreateOrUpdate validates payload, writes it, then waits for the affected
// views to reload. A failed write leaves every view as it was.
func (s *synchronizerImpl) CreateOrUpdate(ctx context.Context, resource gateway.Resource, id string, payload any) MutationResult {
	log := logger.FromContext(ctx)
	id = strings.TrimSpace(id)

	prepared, err := preparePayload(resource, payload)
	if err != nil {
		log.Info("Mutation rejected", "resource", resource, "id", id, "error", err)
		return MutationResult{Status: MutationRejected, Message: err.Error(), Err: err}
	}

	if id == "" {
		_, err = s.gateway.Create(ctx, resource, prepared)
	} else {
		_, err = s.gateway.Update(ctx, resource, id, prepared)
	}
	if err != nil {
		log.Warn("Mutation write failed", "resource", resource, "id", id, "error", err)
		return MutationResult{Status: MutationWriteFailed, Message: gateway.UserMessage(err), Err: err}
	}
	log.Info("Mutation written", "resource", resource, "id", id, "created", id == "")

	return s.refetch(ctx, resource)
}

func (s *synchronizerImpl) Delete(ctx context.Context, resource gateway.Resource, id string) MutationResult {
	log := logger.FromContext(ctx)
	id = strings.TrimSpace(id)

	if _, err := writableResource(resource); err != nil {
		return MutationResult{Status: MutationRejected, Message: err.Error(), Err: err}
	}
	if id == "" {
		err := &models.ValidationError{Field: "id", Message: "is required"}
		return MutationResult{Status: MutationRejected, Message: err.Error(), Err: err}
	}

	if err := s.gateway.Delete(ctx, resource, id); err != nil {
		log.Warn("Delete failed", "resource", resource, "id", id, "error", err)
		return MutationResult{Status: MutationWriteFailed, Message: gateway.UserMessage(err), Err: err}
	}
	log.Info("Record deleted", "resource", resource, "id", id)

	return s.refetch(ctx, resource)
}

// refetch reloads the view backed by resource. The mutation is committed only
// once a cycle that started after the write has been applied; if the newer
// cycles that overtook ours all fail, that is a refetch failure.
func (s *synchronizerImpl) refetch(ctx context.Context, resource gateway.Resource) MutationResult {
	var err error
	if resource == gateway.Products {
		_, err = s.views.RefreshProducts(ctx)
	} else {
		_, err = s.views.RefreshLedger(ctx)
	}
	if err != nil {
		logger.FromContext(ctx).Warn("Refetch after mutation failed", "resource", resource, "error", err)
		return MutationResult{Status: MutationRefetchFailed, Message: gateway.UserMessage(err), Err: err}
	}
	return MutationResult{Status: MutationCommitted}
}

// writableResource returns the transaction kind stored by resource, or "" for products.
func writableResource(resource gateway.Resource) (models.TransactionKind, error) {
	switch resource {
	case gateway.Products:
		return "", nil
	case gateway.Incomes:
		return models.KindIncome, nil
	case gateway.Expenses:
		return models.KindExpense, nil
	}
	return "", &models.ValidationError{Field: "resource", Message: fmt.Sprintf("%s is read-only", resource)}
}

func preparePayload(resource gateway.Resource, payload any) (any, error) {
	kind, err := writableResource(resource)
	if err != nil {
		return nil, err
	}
	if kind == "" {
		p, ok := payload.(models.ProductPayload)
		if !ok {
			return nil, &models.ValidationError{Message: fmt.Sprintf("unexpected payload %T for %s", payload, resource)}
		}
		return prepareProduct(p)
	}
	p, ok := payload.(models.TransactionPayload)
	if !ok {
		return nil, &models.ValidationError{Message: fmt.Sprintf("unexpected payload %T for %s", payload, resource)}
	}
	return prepareTransaction(kind, p)
}

func prepareProduct(p models.ProductPayload) (models.ProductPayload, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = strings.TrimSpace(p.SKU)
	switch {
	case p.Name == "":
		return p, &models.ValidationError{Field: "name", Message: "is required"}
	case p.SKU == "":
		return p, &models.ValidationError{Field: "sku", Message: "is required"}
	case p.Price.IsNegative():
		return p, &models.ValidationError{Field: "price", Message: "must not be negative"}
	case p.Cost.IsNegative():
		return p, &models.ValidationError{Field: "cost", Message: "must not be negative"}
	case p.Stock < 0:
		return p, &models.ValidationError{Field: "stock", Message: "must not be negative"}
	}
	return p, nil
}

// prepareTransaction checks the fields the normalizer will need once the
// record comes back, so a committed write never turns into a malformed record.
func prepareTransaction(kind models.TransactionKind, p models.TransactionPayload) (models.TransactionPayload, error) {
	p.Category = strings.TrimSpace(p.Category)
	p.Supplier = strings.TrimSpace(p.Supplier)
	p.ExitDate = strings.TrimSpace(p.ExitDate)
	p.DueDate = strings.TrimSpace(p.DueDate)

	if !p.Amount.IsPositive() {
		return p, &models.ValidationError{Field: "amount", Message: "must be greater than zero"}
	}

	if kind == models.KindExpense {
		// Expenses are dated by dueDate only.
		p.ExitDate = ""
	}

	dateField, dateValue := "dueDate", p.DueDate
	if kind == models.KindIncome && p.ExitDate != "" {
		dateField, dateValue = "exitDate", p.ExitDate
	}
	if dateValue == "" {
		return p, &models.ValidationError{Field: dateField, Message: "is required"}
	}
	if _, err := utils.ToCalendarDate(dateValue); err != nil {
		return p, &models.ValidationError{Field: dateField, Message: "is not a valid date"}
	}
	if p.DueDate != "" {
		if _, err := utils.ToCalendarDate(p.DueDate); err != nil {
			return p, &models.ValidationError{Field: "dueDate", Message: "is not a valid date"}
		}
	}
	return p, nil
}
