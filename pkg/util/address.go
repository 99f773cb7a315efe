package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrAddressMissing = errors.New("address missing")
	ErrInvalidAddress = errors.New("invalid address")
)

// NormalizeAddress validates a wallet address and returns it parsed. Mixed
// case input must carry a valid EIP-55 checksum; all-lower and all-upper hex
// is accepted as is.
func NormalizeAddress(address string) (common.Address, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return common.Address{}, ErrAddressMissing
	}
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}

	addr := common.HexToAddress(address)
	body := strings.TrimPrefix(strings.TrimPrefix(address, "0x"), "0X")
	if body != strings.ToLower(body) && body != strings.ToUpper(body) {
		if addr.Hex()[2:] != body {
			return common.Address{}, fmt.Errorf("%w: bad checksum %s", ErrInvalidAddress, address)
		}
	}
	return addr, nil
}

// SafeNormalizeAddress returns the checksummed form of address, or "" if it is
// not a valid address.
func SafeNormalizeAddress(address string) string {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return ""
	}
	return addr.Hex()
}

// ShortAddress renders an address as 0x1234...abcd for display.
func ShortAddress(addr common.Address) string {
	h := addr.Hex()
	return h[:6] + "..." + h[len(h)-4:]
}
