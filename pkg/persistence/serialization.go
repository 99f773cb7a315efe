package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/chaintrack-labs/chaintrack-go/pkg/types"
)

// MarshalBatch serializes a Batch to JSON bytes.
func MarshalBatch(b *types.Batch) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("cannot marshal nil Batch")
	}

	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Batch to JSON: %w", err)
	}

	return data, nil
}

// UnmarshalBatch deserializes a Batch from JSON bytes.
func UnmarshalBatch(data []byte) (*types.Batch, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var b types.Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to Batch: %w", err)
	}

	return &b, nil
}

// MarshalProduct serializes a Product to JSON bytes. The inclusion proof is
// stored in its {"leaf","proof","root"} wire form.
func MarshalProduct(p *types.Product) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("cannot marshal nil Product")
	}

	return json.Marshal(p)
}

// UnmarshalProduct deserializes a Product from JSON bytes. Stored proofs go
// through the strict digest decoder, so a corrupted proof surfaces here.
func UnmarshalProduct(data []byte) (*types.Product, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var p types.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to Product: %w", err)
	}

	return &p, nil
}

// MarshalMovement serializes a Movement to JSON bytes.
func MarshalMovement(m *types.Movement) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("cannot marshal nil Movement")
	}

	return json.Marshal(m)
}

// UnmarshalMovement deserializes a Movement from JSON bytes.
func UnmarshalMovement(data []byte) (*types.Movement, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var m types.Movement
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to Movement: %w", err)
	}

	return &m, nil
}
