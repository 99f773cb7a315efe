package persistence

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("persistence layer is closed")

// ValidateBatch checks the fields every backend keys on.
func ValidateBatch(batch *types.Batch) error {
	if batch == nil {
		return fmt.Errorf("cannot save nil Batch")
	}
	if batch.BatchCode == "" {
		return fmt.Errorf("batch code cannot be empty")
	}
	return nil
}

// ValidateProduct checks the fields every backend keys on.
func ValidateProduct(product *types.Product) error {
	if product == nil {
		return fmt.Errorf("cannot save nil Product")
	}
	if product.BatchCode == "" || product.ProductIdentifier == "" {
		return fmt.Errorf("product requires batch code and product identifier")
	}
	return nil
}

// ValidateMovement checks the fields every backend keys on.
func ValidateMovement(movement *types.Movement) error {
	if movement == nil {
		return fmt.Errorf("cannot save nil Movement")
	}
	if movement.ID == "" || movement.BatchCode == "" {
		return fmt.Errorf("movement requires id and batch code")
	}
	return nil
}

// SortBatches orders batches by creation time, then batch code.
func SortBatches(batches []*types.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		if !batches[i].CreatedAt.Equal(batches[j].CreatedAt) {
			return batches[i].CreatedAt.Before(batches[j].CreatedAt)
		}
		return batches[i].BatchCode < batches[j].BatchCode
	})
}

// SortProducts orders products by their leaf index.
func SortProducts(products []*types.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Index < products[j].Index
	})
}

// SortMovements orders movements by timestamp, then ID.
func SortMovements(movements []*types.Movement) {
	sort.SliceStable(movements, func(i, j int) bool {
		if !movements[i].Timestamp.Equal(movements[j].Timestamp) {
			return movements[i].Timestamp.Before(movements[j].Timestamp)
		}
		return movements[i].ID < movements[j].ID
	})
}
