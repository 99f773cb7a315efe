package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaintrack-labs/chaintrack-go/pkg/merkle"
)

func TestParseUserRole(t *testing.T) {
	for _, r := range SupportedRoles {
		got, err := ParseUserRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseUserRole("admin")
	require.Error(t, err)

	assert.True(t, RoleRetailer.IsLedgerRole())
	assert.False(t, RoleConsumer.IsLedgerRole())
}

func TestParseMovementStatus(t *testing.T) {
	s, err := ParseMovementStatus("")
	require.NoError(t, err)
	assert.Equal(t, MovementInTransit, s)

	s, err = ParseMovementStatus("received")
	require.NoError(t, err)
	assert.Equal(t, MovementReceived, s)

	_, err = ParseMovementStatus("lost")
	require.Error(t, err)
}

func TestCopiesAreDeep(t *testing.T) {
	tx := common.HexToHash("0x01")
	b := &Batch{BatchCode: "B", LedgerTxHash: &tx}
	bc := b.Copy()
	bc.LedgerTxHash[0] = 0xff
	assert.Equal(t, common.HexToHash("0x01"), *b.LedgerTxHash)

	tree, err := merkle.BuildMerkleTree([]string{"x", "y"})
	require.NoError(t, err)
	proof, err := tree.GetProof("x")
	require.NoError(t, err)
	p := &Product{ProductIdentifier: "x", MerkleProof: proof}
	pc := p.Copy()
	pc.MerkleProof.Proof[0][0] ^= 0xff
	assert.True(t, merkle.VerifyProof(p.MerkleProof))

	m := &Movement{LedgerTxHash: &tx}
	mc := m.Copy()
	assert.NotSame(t, m.LedgerTxHash, mc.LedgerTxHash)

	assert.Nil(t, (*Batch)(nil).Copy())
	assert.Nil(t, (*Product)(nil).Copy())
	assert.Nil(t, (*Movement)(nil).Copy())
}
