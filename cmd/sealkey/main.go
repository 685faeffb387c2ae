// Encrypts an Anvil API key into a .cwt file for ANVIL_KEY_FILE.
// Usage: go run ./cmd/sealkey -out anvil.cwt [-network preprod]
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/AlexZinkM/anvil-tx/internal/common"
	"github.com/AlexZinkM/anvil-tx/internal/config"
	"github.com/AlexZinkM/anvil-tx/internal/crypto"
)

func main() {
	out := flag.String("out", "anvil.cwt", "key file to create")
	network := flag.String("network", common.NetworkPreprod, "network the key belongs to")
	flag.Parse()

	if err := run(*out, *network); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Printf("Key sealed to %s. Set ANVIL_KEY_FILE=%s\n", *out, *out)
}

func run(out, network string) error {
	if err := common.ValidateNetwork(network); err != nil {
		return err
	}

	apiKey, err := config.PromptForPassword("Enter Anvil API key: ")
	if err != nil {
		return err
	}
	defer clear(apiKey)

	password, err := config.PromptForPassword("Enter key file password: ")
	if err != nil {
		return err
	}
	defer clear(password)

	confirm, err := config.PromptForPassword("Repeat key file password: ")
	if err != nil {
		return err
	}
	defer clear(confirm)

	if !bytes.Equal(password, confirm) {
		return fmt.Errorf("passwords do not match")
	}
	return crypto.SealKey(out, network, strings.TrimSpace(string(apiKey)), password)
}
