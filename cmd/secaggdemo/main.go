// Command secaggdemo runs one end-to-end pass of the secure-aggregation
// engine: several simulated clients each sample a key, encrypt a plaintext
// vector, and the server aggregates the resulting ciphertexts; the demo
// then reconstructs the combined key via convert_key/create_key and
// decrypts the aggregate, printing whether it matches the coordinatewise
// sum of the client plaintexts mod t.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/vaultgrove/secagg/rlwe"
	"github.com/vaultgrove/secagg/secagg"
)

func main() {
	inputSize := flag.Int("input-size", secagg.N, "plaintext length in coefficients, must be a multiple of N")
	logT := flag.Int("log-t", 11, "plaintext bit-width; t = 2^log-t + 1")
	numClients := flag.Int("clients", 3, "number of simulated clients")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()

	if err := run(log, *inputSize, *logT, *numClients); err != nil {
		log.Error().Err(err).Msg("demo failed")
		os.Exit(1)
	}
}

func run(log zerolog.Logger, inputSize, logT, numClients int) error {
	eng, err := secagg.NewSecAggEngine(
		secagg.Config{InputSize: inputSize, LogT: logT},
		secagg.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("constructing engine: %w", err)
	}
	log.Info().Int("num_clients", numClients).Msg("engine constructed")

	t := uint64(1)<<uint(logT) + 1
	var aggregatedCts []*rlwe.Ciphertext
	var sumKey *rlwe.SecretKey
	want := make([]uint64, inputSize)

	for i := 0; i < numClients; i++ {
		key, err := eng.SampleKey()
		if err != nil {
			return fmt.Errorf("client %d: sampling key: %w", i, err)
		}
		plaintext := secagg.SamplePlaintext(inputSize, logT)
		for j := range want {
			want[j] = (want[j] + plaintext[j]) % t
		}

		cts, err := eng.Encrypt(key, plaintext)
		if err != nil {
			return fmt.Errorf("client %d: encrypting: %w", i, err)
		}

		if sumKey == nil {
			sumKey, aggregatedCts = key, cts
			continue
		}
		if sumKey, err = eng.SumKeys(sumKey, key); err != nil {
			return fmt.Errorf("client %d: summing keys: %w", i, err)
		}
		if aggregatedCts, err = eng.Aggregate(aggregatedCts, cts); err != nil {
			return fmt.Errorf("client %d: aggregating ciphertexts: %w", i, err)
		}
	}

	converted, err := eng.ConvertKey(sumKey)
	if err != nil {
		return fmt.Errorf("converting aggregated key: %w", err)
	}
	reconstructed, err := eng.CreateKey(converted)
	if err != nil {
		return fmt.Errorf("reconstructing key from converted coefficients: %w", err)
	}

	got, err := eng.Decrypt(reconstructed, aggregatedCts)
	if err != nil {
		return fmt.Errorf("decrypting aggregate: %w", err)
	}

	match := true
	for i := range want {
		if want[i] != got[i] {
			match = false
			break
		}
	}
	log.Info().Bool("matches_expected_sum", match).Msg("aggregate decrypted")
	if !match {
		return fmt.Errorf("decrypted aggregate does not match expected sum")
	}
	return nil
}
