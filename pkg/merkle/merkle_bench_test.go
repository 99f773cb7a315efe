package merkle

import (
	"fmt"
	"testing"
)

// BenchmarkMerkleTreeBuild benchmarks merkle tree construction with various sizes
func BenchmarkMerkleTreeBuild(b *testing.B) {
	sizes := []int{10, 100, 1000, 10000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			items := createTestItems(size)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _ = BuildMerkleTree(items)
			}
		})
	}
}

// BenchmarkMerkleProofGeneration benchmarks proof generation by item lookup
func BenchmarkMerkleProofGeneration(b *testing.B) {
	sizes := []int{10, 100, 1000}

	for _, size := range sizes {
		items := createTestItems(size)
		tree, _ := BuildMerkleTree(items)

		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, _ = tree.GetProof(items[i%size])
			}
		})
	}
}

// BenchmarkMerkleProofVerification benchmarks proof verification
func BenchmarkMerkleProofVerification(b *testing.B) {
	sizes := []int{10, 100, 1000}

	for _, size := range sizes {
		tree, _ := BuildMerkleTree(createTestItems(size))
		proof, _ := tree.GenerateProof(0)

		b.Run(fmt.Sprintf("Items_%d", size), func(b *testing.B) {
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_ = VerifyProof(proof)
			}
		})
	}
}
