package common

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	NetworkPreprod = "preprod"
	NetworkPreview = "preview"
	NetworkMainnet = "mainnet"
)

// Shelley payment address header: types 0-7 in the upper nibble,
// network id in the lower one.
const (
	maxPaymentAddrType = 0x7
	networkIDMainnet   = 0x1
	networkIDTestnet   = 0x0

	// header + 28 byte payment credential (enterprise address)
	minAddressLen = 29
)

// ValidateNetwork reports whether network is one the provider serves.
func ValidateNetwork(network string) error {
	switch network {
	case NetworkPreprod, NetworkPreview, NetworkMainnet:
		return nil
	}
	return fmt.Errorf("unknown network %q: use preprod, preview or mainnet", network)
}

// APIBaseURL returns the transaction services root for network.
func APIBaseURL(network string) string {
	sub := network
	if network == NetworkMainnet {
		sub = "prod"
	}
	return fmt.Sprintf("https://%s.api.ada-anvil.app/v2/services", sub)
}

// AddressPrefix returns the bech32 human-readable part of payment addresses
// on network.
func AddressPrefix(network string) string {
	if network == NetworkMainnet {
		return "addr"
	}
	return "addr_test"
}

// ExplorerTxURL returns the Cardanoscan page of a transaction.
func ExplorerTxURL(network, txHash string) string {
	if network == NetworkMainnet {
		return "https://cardanoscan.io/transaction/" + txHash
	}
	return fmt.Sprintf("https://%s.cardanoscan.io/transaction/%s", network, txHash)
}

// ValidateAddress checks that address is a bech32 Shelley payment address
// for network: checksum, human-readable part and header network id.
func ValidateAddress(address, network string) error {
	hrp, data, err := bech32.DecodeNoLimit(address)
	if err != nil {
		return fmt.Errorf("invalid bech32 address: %w", err)
	}
	if want := AddressPrefix(network); hrp != want {
		return fmt.Errorf("address must start with %q on %s", want+"1", network)
	}

	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return fmt.Errorf("invalid bech32 address: %w", err)
	}
	if len(raw) < minAddressLen {
		return fmt.Errorf("address is too short")
	}
	if raw[0]>>4 > maxPaymentAddrType {
		return fmt.Errorf("not a payment address (header type %x)", raw[0]>>4)
	}

	wantID := byte(networkIDTestnet)
	if network == NetworkMainnet {
		wantID = networkIDMainnet
	}
	if id := raw[0] & 0x0f; id != wantID {
		return fmt.Errorf("address network id %d does not match %s", id, network)
	}
	return nil
}

// IsHex reports whether s is a non-empty even-length lowercase or uppercase hex string.
func IsHex(s string) bool {
	if s == "" || len(s)%2 != 0 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
