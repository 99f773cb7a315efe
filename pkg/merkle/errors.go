package merkle

import "errors"

var (
	// ErrEmptyInput is returned when a tree is requested over zero items.
	ErrEmptyInput = errors.New("cannot build merkle tree from empty item list")

	// ErrLeafNotFound is returned when a proof is requested for an item that
	// is not a leaf of the tree.
	ErrLeafNotFound = errors.New("item not found in merkle tree")

	// ErrIndexOutOfRange is returned by GenerateProof for a bad leaf index.
	ErrIndexOutOfRange = errors.New("leaf index out of range")

	// ErrMalformedProof is returned when a digest on the wire is not
	// 0x-prefixed lowercase hex of exactly 32 bytes.
	ErrMalformedProof = errors.New("malformed merkle digest")
)
