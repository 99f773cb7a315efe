package merkle

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hashP1     = "0x4c67e233f88e3064cb77b82c5831846ff4a4fd9019aad9ff71e116d1f600efa3"
	hashP2     = "0xdf50905bddb6c992c6045fb8893576631cb01f67d9a21b8e87bd5e43543068b4"
	hashP3     = "0x7ccbaa9d10472a1c2ba3b0443c7c03902bc9fc5c0e49d19e763d7f17bb1282d7"
	pairP1P2   = "0x28f4d99272e967880723c24b6c77a65ad5172a99836647b6906894af0265e9f0"
	pairP3P3   = "0x1e2f519ce601954ef1ad5a0573339b6ecbaeb9e62067be185b22b327258c59bf"
	rootP1toP3 = "0x94bf8bb843242f4226f1d8bb54a9d56a27e42f291f3815f290c9c44810fb1219"
	hashA      = "0x3ac225168df54212a25c1c01fd35bebfea408fdac2e31ddd6f80a4bbf9a5f1cb"
	rootAA     = "0xc59a43eba681b2d86edc6ed4bc6d7cdebfc83adbb103ee0d4a6bf19d95518b94"
	rootAB     = "0x805b21d846b189efaeb0377d6bb0d201b3872a363e607c25088f025b0c6ae1f8"
)

// createTestItems creates n distinct product identifiers
func createTestItems(n int) []string {
	items := make([]string, n)
	for i := 0; i < n; i++ {
		items[i] = fmt.Sprintf("OIL-1700000000000-AB12-%06d-XY34ZZ", i+1)
	}
	return items
}

func TestHashLeaf(t *testing.T) {
	assert.Equal(t, hashP1, FormatDigest(HashLeaf("P1")))
	assert.Equal(t, hashA, FormatDigest(HashLeaf("a")))
	// keccak256 of the empty string
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", FormatDigest(HashLeaf("")))
}

func TestHashPairIsOrderIndependent(t *testing.T) {
	a := HashLeaf("a")
	b := HashLeaf("b")
	require.Equal(t, hashPair(a, b), hashPair(b, a))
	assert.Equal(t, rootAB, FormatDigest(hashPair(a, b)))
}

// TestBuildMerkleTree tests merkle tree construction with various numbers of items
func TestBuildMerkleTree(t *testing.T) {
	testCases := []struct {
		name      string
		numItems  int
		wantDepth int
	}{
		{"Single item", 1, 0},
		{"Two items", 2, 1},
		{"Three items", 3, 2},
		{"Four items (power of 2)", 4, 2},
		{"Five items", 5, 3},
		{"Seven items", 7, 3},
		{"Eight items (power of 2)", 8, 3},
		{"Fifteen items", 15, 4},
		{"Sixteen items (power of 2)", 16, 4},
		{"Seventeen items", 17, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			items := createTestItems(tc.numItems)
			tree, err := BuildMerkleTree(items)
			require.NoError(t, err)
			require.NotNil(t, tree)

			require.Equal(t, tc.numItems, tree.LeafCount())
			require.Equal(t, tc.wantDepth, tree.Depth())
			require.NotEqual(t, [32]byte{}, tree.root)

			for i, item := range items {
				proof, err := tree.GetProof(item)
				require.NoError(t, err)
				require.Equal(t, common.Hash(tree.leaves[i]), proof.Leaf)
				require.Equal(t, tree.GetRoot(), proof.Root)
				require.Len(t, proof.Proof, tc.wantDepth)
				require.True(t, VerifyProof(proof), "Proof for item %d should be valid", i)
			}
		})
	}
}

func TestBuildMerkleTreeEmpty(t *testing.T) {
	for _, items := range [][]string{nil, {}} {
		tree, err := BuildMerkleTree(items)
		require.Nil(t, tree)
		require.ErrorIs(t, err, ErrEmptyInput)
	}
}

func TestThreeItemScenario(t *testing.T) {
	tree, err := BuildMerkleTree([]string{"P1", "P2", "P3"})
	require.NoError(t, err)

	assert.Equal(t, []common.Hash{
		common.HexToHash(hashP1),
		common.HexToHash(hashP2),
		common.HexToHash(hashP3),
	}, tree.GetLeaves())
	assert.Equal(t, rootP1toP3, tree.RootHex())

	t.Run("proof for P2", func(t *testing.T) {
		proof, err := tree.GetProof("P2")
		require.NoError(t, err)
		assert.Equal(t, hashP2, FormatDigest(proof.Leaf))
		assert.Equal(t, []string{hashP1, pairP3P3}, proof.ProofHex())
		assert.True(t, VerifyProof(proof))
	})

	t.Run("proof for dangling P3 uses itself", func(t *testing.T) {
		proof, err := tree.GetProof("P3")
		require.NoError(t, err)
		assert.Equal(t, []string{hashP3, pairP1P2}, proof.ProofHex())
		assert.True(t, VerifyProof(proof))
	})

	t.Run("tampered leaf fails", func(t *testing.T) {
		proof, err := tree.GetProof("P2")
		require.NoError(t, err)
		proof.Leaf = common.Hash(HashLeaf("P4"))
		assert.False(t, VerifyProof(proof))
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := tree.GetProof("P4")
		require.ErrorIs(t, err, ErrLeafNotFound)
	})
}

func TestSingleItemTree(t *testing.T) {
	tree, err := BuildMerkleTree([]string{"a"})
	require.NoError(t, err)
	assert.Equal(t, hashA, tree.RootHex())

	proof, err := tree.GetProof("a")
	require.NoError(t, err)
	assert.Empty(t, proof.Proof)
	assert.Equal(t, proof.Leaf, proof.Root)
	assert.True(t, VerifyProof(proof))
}

func TestDuplicateItems(t *testing.T) {
	tree, err := BuildMerkleTree([]string{"a", "a"})
	require.NoError(t, err)
	assert.Equal(t, 2, tree.LeafCount())
	assert.Equal(t, rootAA, tree.RootHex())

	t.Run("GetProof uses first occurrence", func(t *testing.T) {
		byItem, err := tree.GetProof("a")
		require.NoError(t, err)
		byIndex, err := tree.GenerateProof(0)
		require.NoError(t, err)
		assert.Equal(t, byIndex, byItem)
	})

	t.Run("every occurrence is provable by index", func(t *testing.T) {
		for i := 0; i < tree.LeafCount(); i++ {
			proof, err := tree.GenerateProof(i)
			require.NoError(t, err)
			assert.True(t, VerifyProof(proof))
		}
	})
}

func TestItemOrderMatters(t *testing.T) {
	t1, err := BuildMerkleTree([]string{"P1", "P2", "P3"})
	require.NoError(t, err)
	t2, err := BuildMerkleTree([]string{"P3", "P2", "P1"})
	require.NoError(t, err)
	assert.NotEqual(t, t1.root, t2.root)

	// swapping siblings within a pair keeps the root
	t3, err := BuildMerkleTree([]string{"P2", "P1", "P3"})
	require.NoError(t, err)
	assert.Equal(t, t1.root, t3.root)
}

func TestBuildIsDeterministic(t *testing.T) {
	items := createTestItems(33)
	t1, err := BuildMerkleTree(items)
	require.NoError(t, err)
	t2, err := BuildMerkleTree(items)
	require.NoError(t, err)
	assert.Equal(t, t1.root, t2.root)
}

func TestGenerateProofIndexBounds(t *testing.T) {
	tree, err := BuildMerkleTree(createTestItems(4))
	require.NoError(t, err)

	for _, idx := range []int{-1, 4, 100} {
		_, err := tree.GenerateProof(idx)
		require.ErrorIs(t, err, ErrIndexOutOfRange)
	}
}

// TestMerkleProofVerification tests proof verification with valid and invalid cases
func TestMerkleProofVerification(t *testing.T) {
	tree, err := BuildMerkleTree(createTestItems(6))
	require.NoError(t, err)

	t.Run("Valid proof", func(t *testing.T) {
		proof, err := tree.GenerateProof(0)
		require.NoError(t, err)
		require.True(t, VerifyProof(proof))
		require.True(t, VerifyProofAgainst(proof, tree.GetRoot()))
	})

	t.Run("Invalid proof - wrong root", func(t *testing.T) {
		proof, err := tree.GenerateProof(0)
		require.NoError(t, err)
		proof.Root = common.Hash{1, 2, 3, 4, 5}
		require.False(t, VerifyProof(proof))
	})

	t.Run("Invalid proof - tampered sibling", func(t *testing.T) {
		proof, err := tree.GenerateProof(3)
		require.NoError(t, err)
		proof.Proof[1][0] ^= 0xFF
		require.False(t, VerifyProof(proof))
	})

	t.Run("Invalid proof - truncated", func(t *testing.T) {
		proof, err := tree.GenerateProof(3)
		require.NoError(t, err)
		proof.Proof = proof.Proof[:len(proof.Proof)-1]
		require.False(t, VerifyProof(proof))
	})

	t.Run("Invalid proof - other tree", func(t *testing.T) {
		other, err := BuildMerkleTree(createTestItems(7))
		require.NoError(t, err)
		proof, err := tree.GenerateProof(2)
		require.NoError(t, err)
		require.False(t, VerifyProofAgainst(proof, other.GetRoot()))
	})

	t.Run("Nil proof", func(t *testing.T) {
		require.False(t, VerifyProof(nil))
		require.False(t, VerifyProofAgainst(nil, tree.GetRoot()))
	})
}

func TestConcurrentProofGeneration(t *testing.T) {
	items := createTestItems(64)
	tree, err := BuildMerkleTree(items)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, len(items))
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			proof, err := tree.GenerateProof(i)
			results[i] = err == nil && VerifyProof(proof)
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		assert.True(t, ok, "proof %d", i)
	}
}

func TestVerifyProofHex(t *testing.T) {
	valid := []string{hashP1, pairP3P3}

	t.Run("valid", func(t *testing.T) {
		ok, err := VerifyProofHex(hashP2, valid, rootP1toP3)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("mismatch is not an error", func(t *testing.T) {
		ok, err := VerifyProofHex(hashP3, valid, rootP1toP3)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	malformed := []struct {
		name  string
		leaf  string
		proof []string
		root  string
	}{
		{"short leaf", "0x1234", valid, rootP1toP3},
		{"missing prefix", hashP2[2:] + "00", valid, rootP1toP3},
		{"uppercase", "0x" + "DF50905BDDB6C992C6045FB8893576631CB01F67D9A21B8E87BD5E43543068B4", valid, rootP1toP3},
		{"non hex sibling", hashP2, []string{hashP1, "0x" + string(make([]byte, 64))}, rootP1toP3},
		{"empty root", hashP2, valid, ""},
	}
	for _, tc := range malformed {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := VerifyProofHex(tc.leaf, tc.proof, tc.root)
			require.ErrorIs(t, err, ErrMalformedProof)
			assert.False(t, ok)
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	all := []error{ErrEmptyInput, ErrLeafNotFound, ErrIndexOutOfRange, ErrMalformedProof}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b))
			}
		}
	}
}

func TestGetLeavesReturnsCopy(t *testing.T) {
	tree, err := BuildMerkleTree([]string{"P1", "P2", "P3"})
	require.NoError(t, err)

	before, err := tree.GenerateProof(1)
	require.NoError(t, err)

	leaves := tree.GetLeaves()
	leaves[0] = common.Hash{}
	leaves[1] = common.Hash{}

	after, err := tree.GenerateProof(1)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, common.Hash(HashLeaf("P1")), tree.GetLeaves()[0])
	assert.True(t, VerifyProof(after))
}
