package merkle

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// digestHexLen is "0x" followed by 64 hex characters.
const digestHexLen = 2 + 2*common.HashLength

// FormatDigest renders a digest as 0x-prefixed lowercase hex.
func FormatDigest(d [32]byte) string {
	return hexutil.Encode(d[:])
}

// ParseDigest parses the canonical wire form of a digest. Anything other than
// "0x" followed by exactly 64 lowercase hex characters is rejected.
func ParseDigest(s string) (common.Hash, error) {
	if len(s) != digestHexLen {
		return common.Hash{}, fmt.Errorf("%w: expected %d characters, got %d", ErrMalformedProof, digestHexLen, len(s))
	}
	if s[0] != '0' || s[1] != 'x' {
		return common.Hash{}, fmt.Errorf("%w: missing 0x prefix", ErrMalformedProof)
	}
	for i := 2; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return common.Hash{}, fmt.Errorf("%w: invalid character %q at position %d", ErrMalformedProof, c, i)
		}
	}

	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	return common.BytesToHash(b), nil
}

// DecodeInclusionProof builds a proof from its wire form, validating every
// digest.
func DecodeInclusionProof(leaf string, proof []string, root string) (*InclusionProof, error) {
	l, err := ParseDigest(leaf)
	if err != nil {
		return nil, fmt.Errorf("leaf: %w", err)
	}
	r, err := ParseDigest(root)
	if err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}

	siblings := make([]common.Hash, len(proof))
	for i, p := range proof {
		siblings[i], err = ParseDigest(p)
		if err != nil {
			return nil, fmt.Errorf("proof[%d]: %w", i, err)
		}
	}

	return &InclusionProof{Leaf: l, Proof: siblings, Root: r}, nil
}

// ProofHex returns the siblings in wire form.
func (p *InclusionProof) ProofHex() []string {
	out := make([]string, len(p.Proof))
	for i, h := range p.Proof {
		out[i] = FormatDigest(h)
	}
	return out
}

// Copy returns a deep copy of the proof.
func (p *InclusionProof) Copy() *InclusionProof {
	if p == nil {
		return nil
	}
	siblings := make([]common.Hash, len(p.Proof))
	copy(siblings, p.Proof)
	return &InclusionProof{Leaf: p.Leaf, Proof: siblings, Root: p.Root}
}

type inclusionProofJSON struct {
	Leaf  string   `json:"leaf"`
	Proof []string `json:"proof"`
	Root  string   `json:"root"`
}

func (p InclusionProof) MarshalJSON() ([]byte, error) {
	return json.Marshal(inclusionProofJSON{
		Leaf:  FormatDigest(p.Leaf),
		Proof: p.ProofHex(),
		Root:  FormatDigest(p.Root),
	})
}

// UnmarshalJSON applies the same strict digest rules as DecodeInclusionProof.
func (p *InclusionProof) UnmarshalJSON(data []byte) error {
	var raw inclusionProofJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	decoded, err := DecodeInclusionProof(raw.Leaf, raw.Proof, raw.Root)
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}

// ParseInclusionProof decodes the JSON form of a proof.
func ParseInclusionProof(data []byte) (*InclusionProof, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrMalformedProof)
	}
	var p InclusionProof
	if err := json.Unmarshal(data, &p); err != nil {
		if errors.Is(err, ErrMalformedProof) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	return &p, nil
}
