package merkle

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// BuildMerkleTree creates a binary merkle tree from items, keeping their order.
//
// Each leaf is keccak256 of the item's UTF-8 bytes. Duplicate items are kept
// as distinct leaves. If there's an odd number of nodes at any level, the last
// node is paired with itself. A single item produces a tree whose root is that
// item's leaf hash.
func BuildMerkleTree(items []string) (*MerkleTree, error) {
	if len(items) == 0 {
		return nil, ErrEmptyInput
	}

	leaves := make([][32]byte, len(items))
	for i, item := range items {
		leaves[i] = HashLeaf(item)
	}

	return buildFromLeaves(leaves)
}

func buildFromLeaves(leaves [][32]byte) (*MerkleTree, error) {
	levels := make([][][32]byte, 0)
	levels = append(levels, leaves)

	currentLevel := leaves
	for len(currentLevel) > 1 {
		nextLevel := make([][32]byte, 0, (len(currentLevel)+1)/2)

		for i := 0; i < len(currentLevel); i += 2 {
			left := currentLevel[i]
			right := left
			if i+1 < len(currentLevel) {
				right = currentLevel[i+1]
			}
			nextLevel = append(nextLevel, hashPair(left, right))
		}

		levels = append(levels, nextLevel)
		currentLevel = nextLevel
	}

	if len(currentLevel) != 1 {
		return nil, fmt.Errorf("merkle tree construction failed: final level has %d nodes instead of 1", len(currentLevel))
	}

	return &MerkleTree{
		leaves: leaves,
		root:   currentLevel[0],
		levels: levels,
	}, nil
}

// GetRoot returns the root as a go-ethereum hash.
func (mt *MerkleTree) GetRoot() common.Hash {
	return common.Hash(mt.root)
}

// RootHex returns the root as 0x-prefixed lowercase hex.
func (mt *MerkleTree) RootHex() string {
	return FormatDigest(mt.root)
}

// LeafCount returns the number of leaves, duplicates included.
func (mt *MerkleTree) LeafCount() int {
	return len(mt.leaves)
}

// GetLeaves returns a copy of the leaf hashes in input order.
func (mt *MerkleTree) GetLeaves() []common.Hash {
	out := make([]common.Hash, len(mt.leaves))
	for i, l := range mt.leaves {
		out[i] = common.Hash(l)
	}
	return out
}

// Depth is the number of levels below the root, which is also the length of
// every proof the tree produces.
func (mt *MerkleTree) Depth() int {
	return len(mt.levels) - 1
}

// IndexOf returns the position of the first leaf matching item, or -1.
func (mt *MerkleTree) IndexOf(item string) int {
	leaf := HashLeaf(item)
	for i, l := range mt.leaves {
		if l == leaf {
			return i
		}
	}
	return -1
}

// GetProof creates an inclusion proof for item. When item occurs more than
// once, the proof is for its first occurrence; use GenerateProof to address a
// specific position.
func (mt *MerkleTree) GetProof(item string) (*InclusionProof, error) {
	idx := mt.IndexOf(item)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrLeafNotFound, item)
	}
	return mt.GenerateProof(idx)
}

// GenerateProof creates an inclusion proof for the leaf at the given index.
// The proof consists of sibling hashes along the path from leaf to root.
func (mt *MerkleTree) GenerateProof(leafIndex int) (*InclusionProof, error) {
	if leafIndex < 0 || leafIndex >= len(mt.leaves) {
		return nil, fmt.Errorf("%w: %d (tree has %d leaves)", ErrIndexOutOfRange, leafIndex, len(mt.leaves))
	}

	proof := make([]common.Hash, 0, mt.Depth())
	index := leafIndex

	for level := 0; level < len(mt.levels)-1; level++ {
		currentLevel := mt.levels[level]

		var siblingIndex int
		if index%2 == 0 {
			siblingIndex = index + 1
		} else {
			siblingIndex = index - 1
		}

		// dangling last node is its own sibling
		if siblingIndex >= len(currentLevel) {
			siblingIndex = index
		}

		proof = append(proof, common.Hash(currentLevel[siblingIndex]))
		index = index / 2
	}

	return &InclusionProof{
		Leaf:  common.Hash(mt.leaves[leafIndex]),
		Proof: proof,
		Root:  common.Hash(mt.root),
	}, nil
}

// VerifyProof recomputes the root from the proof's leaf and siblings and
// reports whether it equals the proof's root. A mismatch is not an error.
func VerifyProof(proof *InclusionProof) bool {
	if proof == nil {
		return false
	}
	return ComputeRoot(proof.Leaf, proof.Proof) == proof.Root
}

// VerifyProofAgainst checks proof against an externally trusted root, such as
// the one read from the ledger, ignoring proof.Root.
func VerifyProofAgainst(proof *InclusionProof, root common.Hash) bool {
	if proof == nil {
		return false
	}
	return ComputeRoot(proof.Leaf, proof.Proof) == root
}

// VerifyProofHex verifies a proof given in wire form. Malformed digests fail
// with ErrMalformedProof before any hashing is done.
func VerifyProofHex(leaf string, proof []string, root string) (bool, error) {
	p, err := DecodeInclusionProof(leaf, proof, root)
	if err != nil {
		return false, err
	}
	return VerifyProof(p), nil
}

// ComputeRoot folds the siblings into leaf using the sorted pair rule.
func ComputeRoot(leaf common.Hash, siblings []common.Hash) common.Hash {
	current := [32]byte(leaf)
	for _, sibling := range siblings {
		current = hashPair(current, sibling)
	}
	return common.Hash(current)
}

// HashLeaf creates the keccak256 hash of an item for use as a merkle leaf.
func HashLeaf(item string) [32]byte {
	return crypto.Keccak256Hash([]byte(item))
}

// hashPair computes keccak256(min(a,b) || max(a,b)), comparing the hashes as
// big-endian byte strings. Ordering never depends on tree position.
func hashPair(a, b [32]byte) [32]byte {
	data := make([]byte, 64)
	if bytes.Compare(a[:], b[:]) <= 0 {
		copy(data[0:32], a[:])
		copy(data[32:64], b[:])
	} else {
		copy(data[0:32], b[:])
		copy(data[32:64], a[:])
	}

	return crypto.Keccak256Hash(data)
}
