package merkle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDigest(t *testing.T) {
	h, err := ParseDigest(hashP1)
	require.NoError(t, err)
	assert.Equal(t, hashP1, FormatDigest(h))

	bad := []string{
		"",
		"0x",
		hashP1[:65],
		hashP1 + "0",
		"0X" + hashP1[2:],
		"0x4C67E233F88E3064CB77B82C5831846FF4A4FD9019AAD9FF71E116D1F600EFA3",
		"0xzz67e233f88e3064cb77b82c5831846ff4a4fd9019aad9ff71e116d1f600efa3",
	}
	for _, s := range bad {
		_, err := ParseDigest(s)
		assert.ErrorIs(t, err, ErrMalformedProof, "input %q", s)
	}
}

func TestInclusionProofJSON(t *testing.T) {
	tree, err := BuildMerkleTree([]string{"P1", "P2", "P3"})
	require.NoError(t, err)
	proof, err := tree.GetProof("P2")
	require.NoError(t, err)

	data, err := json.Marshal(proof)
	require.NoError(t, err)
	assert.JSONEq(t, `{"leaf":"`+hashP2+`","proof":["`+hashP1+`","`+pairP3P3+`"],"root":"`+rootP1toP3+`"}`, string(data))

	decoded, err := ParseInclusionProof(data)
	require.NoError(t, err)
	assert.Equal(t, proof, decoded)
	assert.True(t, VerifyProof(decoded))
}

func TestInclusionProofJSONSingleLeaf(t *testing.T) {
	tree, err := BuildMerkleTree([]string{"a"})
	require.NoError(t, err)
	proof, err := tree.GetProof("a")
	require.NoError(t, err)

	data, err := json.Marshal(proof)
	require.NoError(t, err)
	assert.JSONEq(t, `{"leaf":"`+hashA+`","proof":[],"root":"`+hashA+`"}`, string(data))
}

func TestParseInclusionProofRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"not json":       `{leaf}`,
		"uppercase leaf": `{"leaf":"0x4C67E233F88E3064CB77B82C5831846FF4A4FD9019AAD9FF71E116D1F600EFA3","proof":[],"root":"` + hashA + `"}`,
		"short sibling":  `{"leaf":"` + hashA + `","proof":["0xabc"],"root":"` + hashA + `"}`,
		"missing root":   `{"leaf":"` + hashA + `","proof":[]}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseInclusionProof([]byte(in))
			require.ErrorIs(t, err, ErrMalformedProof)
		})
	}
}

func TestInclusionProofCopy(t *testing.T) {
	tree, err := BuildMerkleTree(createTestItems(5))
	require.NoError(t, err)
	proof, err := tree.GenerateProof(4)
	require.NoError(t, err)

	cp := proof.Copy()
	require.Equal(t, proof, cp)
	cp.Proof[0][0] ^= 0x01
	assert.NotEqual(t, proof.Proof[0], cp.Proof[0])
	assert.Nil(t, (*InclusionProof)(nil).Copy())
}
