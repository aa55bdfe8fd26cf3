package stock

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pharmastock/inventory-api/internal/apperror"
	"github.com/pharmastock/inventory-api/internal/historique"
	"github.com/pharmastock/inventory-api/internal/produit"
	"github.com/pharmastock/inventory-api/internal/storage"
)

// Catalog is the part of the regular product catalog the engine writes to.
type Catalog interface {
	Get(ctx context.Context, id int) (produit.Product, error)
	SetQuantity(ctx context.Context, id, quantity int) error
	InvalidateList(ctx context.Context)
}

type AuditRecorder interface {
	Record(ctx context.Context, rec historique.Record) (historique.Entry, error)
}

var errInsufficient = errors.New(errInsufficientStock)

// Engine applies stock batches item by item. Each item's quantity write and
// audit entry share one transaction; items never affect each other.
//
// There is no isolation between concurrent batches touching the same
// product: the read and the write are separate statements, so a concurrent
// adjustment can be lost.
type Engine struct {
	tx      storage.Transactor
	catalog Catalog
	audit   AuditRecorder
	logger  *zap.Logger
}

func NewEngine(tx storage.Transactor, catalog Catalog, audit AuditRecorder, logger *zap.Logger) *Engine {
	if tx == nil {
		tx = storage.NoopTransactor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{tx: tx, catalog: catalog, audit: audit, logger: logger}
}

// Apply processes the items in order and never fails as a whole.
func (e *Engine) Apply(ctx context.Context, b Batch) Result {
	out := Result{
		Message:    processedMessage,
		CheckoutID: b.CheckoutID,
		Results:    make([]ItemResult, 0, len(b.Items)),
	}

	changed := false
	for _, item := range b.Items {
		res := e.applyItem(ctx, item, b.CheckoutID)
		if res.Success {
			changed = true
		}
		out.Results = append(out.Results, res)
	}
	if changed {
		e.catalog.InvalidateList(ctx)
	}

	e.logger.Info("stock batch processed",
		zap.Int("items", len(b.Items)),
		zap.Stringp("checkout_id", b.CheckoutID))
	return out
}

func (e *Engine) applyItem(ctx context.Context, item Item, checkoutID *string) ItemResult {
	res := ItemResult{ProductID: item.ProductID}
	id, ok := item.ProductID.ID()
	if !ok {
		res.Error = errProductNotFound
		return res
	}

	delta := item.QuantityChange
	amount := abs(delta)
	var oldQty, newQty int

	err := e.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := e.catalog.Get(ctx, id)
		if err != nil {
			return err
		}
		oldQty = p.Quantity
		// the magnitude is always added; the sign only picks the label
		newQty = oldQty + amount
		if newQty < 0 {
			return errInsufficient
		}
		if err := e.catalog.SetQuantity(ctx, id, newQty); err != nil {
			return err
		}

		action, verb := historique.ActionStockAdded, "ajouté"
		if delta < 0 {
			action, verb = historique.ActionStockRemoved, "retiré"
		}
		_, err = e.audit.Record(ctx, historique.Record{
			Action:      action,
			ProductID:   &p.ID,
			ProductName: p.Name,
			Kind:        historique.KindNormal,
			Details:     fmt.Sprintf("%d unités %s pour %s. Stock: %d → %d", amount, verb, p.Name, oldQty, newQty),
			CheckoutID:  checkoutID,
		})
		return err
	})

	switch {
	case err == nil:
		res.Success = true
		res.OldQuantity = &oldQty
		res.NewQuantity = &newQty
		res.QuantityChange = &delta
	case errors.Is(err, apperror.ErrNotFound):
		res.Error = errProductNotFound
	case errors.Is(err, errInsufficient):
		res.Error = errInsufficientStock
		res.OldQuantity = &oldQty
	default:
		e.logger.Warn("stock item failed", zap.Int("product_id", id), zap.Error(err))
		res.Error = err.Error()
	}
	return res
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
