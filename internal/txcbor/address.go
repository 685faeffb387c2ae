package txcbor

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/mr-tron/base58"
)

// Shelley address header types, upper nibble of the first byte
const (
	addrTypeByron        = 0x8
	addrTypeStakeKey     = 0xe
	addrTypeStakeScript  = 0xf
	addrNetworkIDMainnet = 0x1
)

// EncodeAddress renders raw address bytes the way wallets display them:
// bech32 for Shelley addresses, base58 for Byron bootstrap addresses.
func EncodeAddress(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("empty address")
	}

	addrType := raw[0] >> 4
	if addrType == addrTypeByron {
		return base58.Encode(raw), nil
	}

	mainnet := raw[0]&0x0f == addrNetworkIDMainnet
	var hrp string
	switch addrType {
	case addrTypeStakeKey, addrTypeStakeScript:
		hrp = "stake"
	default:
		if addrType > addrTypeByron {
			return "", fmt.Errorf("unknown address type %x (%s)", addrType, hex.EncodeToString(raw))
		}
		hrp = "addr"
	}
	if !mainnet {
		hrp += "_test"
	}

	data, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("failed to convert address bits: %w", err)
	}
	return bech32.Encode(hrp, data)
}
