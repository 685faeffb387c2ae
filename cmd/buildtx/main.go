// Builds one transaction through the Anvil API and prints the raw reply.
// Usage: go run ./cmd/buildtx [-change addr] [-to addr:lovelace]... [-payload file] [-pretty] [-inspect]
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/AlexZinkM/anvil-tx/cardano"
	"github.com/AlexZinkM/anvil-tx/internal/client"
	"github.com/AlexZinkM/anvil-tx/internal/common"
	"github.com/AlexZinkM/anvil-tx/internal/config"
	"github.com/AlexZinkM/anvil-tx/internal/model"
	"github.com/AlexZinkM/anvil-tx/internal/txcbor"

	"go.uber.org/zap"
)

// Preprod addresses used when no outputs are given
const (
	defaultChangeAddress   = "addr_test1qrydyk6uw6cehk5u3zspyz3dhnwzmhfls2fp42vv5dv9g2z3885pg4kpkn30ptezc855lu3w5ey93zcr5lrezjmwkftqg8xvge"
	defaultReceiverAddress = "addr_test1qr0tkwvlln0v5fljdxceudmlpt5y6szc84vpj4skm836tgn4hsqaesgg97l8ppy5rsn0alj8pth6lqe20fdyydsdgw6sr74cyt"
	defaultLovelace        = 10_000_000
)

type outputFlags []model.Output

func (o *outputFlags) String() string {
	parts := make([]string, len(*o))
	for i, out := range *o {
		parts[i] = fmt.Sprintf("%s:%d", out.Address, out.Lovelace)
	}
	return strings.Join(parts, ",")
}

func (o *outputFlags) Set(v string) error {
	address, lovelace, err := common.ParseOutputSpec(v)
	if err != nil {
		return err
	}
	*o = append(*o, model.Output{Address: address, Lovelace: lovelace})
	return nil
}

func main() {
	var outputs outputFlags
	change := flag.String("change", "", "change address (default CHANGE_ADDRESS or the preprod sample sender)")
	flag.Var(&outputs, "to", "output as address:lovelace or address:<n>ada, repeatable")
	payloadFile := flag.String("payload", "", "file with a JSON build request sent as-is")
	pretty := flag.Bool("pretty", false, "indent the JSON reply")
	inspect := flag.Bool("inspect", false, "decode the returned transaction to stderr")
	flag.Parse()

	if err := run(os.Stdout, *change, outputs, *payloadFile, *pretty, *inspect); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run performs one build call and writes the provider reply to stdout.
func run(stdout io.Writer, change string, outputs []model.Output, payloadFile string, pretty, inspect bool) error {
	if err := config.Init(); err != nil {
		return err
	}
	logger, err := config.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := config.LoadKeyFile(); err != nil {
		return err
	}
	anvil, err := client.NewAnvilClientFromConfig()
	if err != nil {
		return err
	}

	body, err := requestBody(change, outputs, payloadFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("building transaction", zap.String("url", config.GetAPIURL()), zap.Int("bytes", len(body)))
	raw, err := anvil.BuildTransactionRaw(ctx, body)
	if err != nil {
		if apiErr, ok := client.IsAPIError(err); ok {
			// the provider's reply is still the command output
			fmt.Fprintln(stdout, apiErr.Body)
		}
		return err
	}

	out := raw
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			logger.Warn("reply is not JSON, printing as is", zap.Error(err))
		} else {
			out = buf.Bytes()
		}
	}
	stdout.Write(out)
	fmt.Fprintln(stdout)

	if inspect {
		return inspectReply(raw, logger)
	}
	return nil
}

func requestBody(change string, outputs []model.Output, payloadFile string) ([]byte, error) {
	if payloadFile != "" {
		if change != "" || len(outputs) > 0 {
			return nil, errors.New("-payload cannot be combined with -change or -to")
		}
		body, err := os.ReadFile(payloadFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
		if !json.Valid(body) {
			return nil, fmt.Errorf("payload %s is not valid JSON", payloadFile)
		}
		return body, nil
	}

	if change == "" {
		change = config.GetChangeAddress()
	}
	if change == "" {
		change = defaultChangeAddress
	}
	if len(outputs) == 0 {
		outputs = []model.Output{{Address: defaultReceiverAddress, Lovelace: defaultLovelace}}
	}

	req := &model.BuildRequest{ChangeAddress: change, Outputs: outputs}
	if err := req.Validate(config.GetNetwork()); err != nil {
		return nil, err
	}
	return json.Marshal(req)
}

func inspectReply(raw []byte, logger *zap.Logger) error {
	var resp model.BuildResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("failed to parse reply: %w", err)
	}

	if _, err := txcbor.VerifyBuildResponse(&resp); err != nil {
		logger.Warn("reply failed verification", zap.Error(err))
	}
	summary, err := cardano.InspectHex(resp.Complete)
	if err != nil {
		return fmt.Errorf("failed to decode transaction: %w", err)
	}

	enc := json.NewEncoder(os.Stderr)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
