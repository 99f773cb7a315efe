package merkle

import (
	"github.com/ethereum/go-ethereum/common"
)

// MerkleTree is a binary keccak256 merkle tree over an ordered list of items.
// Interior nodes hash the sorted concatenation of their children, so proofs
// carry no left/right position bits and verify with Solidity's
// MerkleProof.verify.
//
// A MerkleTree is never mutated after BuildMerkleTree returns and is safe for
// concurrent readers.
type MerkleTree struct {
	// leaves contains the leaf hashes in input order
	leaves [][32]byte

	root [32]byte

	// levels stores all tree levels for proof generation
	// levels[0] = leaves, levels[len-1] = root
	levels [][][32]byte
}

// InclusionProof shows that Leaf is included under Root. Proof lists the
// sibling hashes from the leaf level up to, but excluding, the root.
//
// The JSON form {"leaf", "proof", "root"} is what gets stored next to each
// product and handed to the on-chain verifier.
type InclusionProof struct {
	Leaf  common.Hash
	Proof []common.Hash
	Root  common.Hash
}
