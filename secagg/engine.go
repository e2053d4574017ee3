// Package secagg orchestrates the secure-aggregation engine: it fixes the
// ring and modulus parameters, derives the per-chunk uniform randomness from
// a seed, and exposes sample/create/encrypt/decrypt/aggregate as a single
// cohesive API (spec 4.9, 6).
package secagg

import (
	"fmt"
	"math"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/vaultgrove/secagg/kerrors"
	"github.com/vaultgrove/secagg/prng"
	"github.com/vaultgrove/secagg/ring"
	"github.com/vaultgrove/secagg/rlwe"
	"github.com/vaultgrove/secagg/sampling"
)

// Engine is a constructed secure-aggregation context: fixed ring parameters
// for both the q-side (aggregation) and p-side (key-serialization) rings, a
// stored seed, the K precomputed uniform randomness polynomials the seed
// determines, and the live PRNG stream that construction seeded — later
// calls to SampleKey and Encrypt continue drawing from that same stream, so
// an Engine is a single-threaded, stateful resource exactly as spec 5
// describes: not safe to call concurrently, and not meant to be shared
// across clients (each client builds its own Engine from its own seed, or
// from a seed shared only for the a_i derivation's sake per spec 4.9's
// determinism property).
type Engine struct {
	cfg       Config
	qTable    *ring.Table[ring.Uint128]
	pTable    *ring.Table[uint64]
	errParams *rlwe.ErrorParams
	variance  int
	k         int
	seed      []byte
	stream    prng.Stream
	a         []*ring.Polynomial[ring.Uint128]
	log       zerolog.Logger
}

// Option configures optional, non-cryptographic Engine behavior.
type Option func(*Engine)

// WithLogger attaches a zerolog.Logger; the zero value (the default)
// disables logging entirely.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewSecAggEngine builds a secure-aggregation engine from cfg. Construction
// owns: validating cfg, building the q-side and p-side NTT tables, deriving
// or generating the PRNG seed, and sampling the K uniform randomness
// polynomials a_0..a_{K-1}.
func NewSecAggEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	qTable, err := ring.NewTable(N, QModulus(), ring.NewEngine128(u128(QModulus())))
	if err != nil {
		return nil, fmt.Errorf("secagg: building q-side ring: %w", err)
	}
	pTable, err := ring.NewTable(N, big.NewInt(PModulus), ring.NewEngine64(PModulus))
	if err != nil {
		return nil, fmt.Errorf("secagg: building p-side ring: %w", err)
	}

	stddev := cfg.stdDevOrDefault()
	variance := int(math.Round(stddev * stddev))
	errParams := rlwe.NewErrorParams(cfg.LogT, variance, N)

	seed := cfg.Seed
	if seed == nil {
		seed, err = prng.GenerateHKDFSeed()
		if err != nil {
			return nil, err
		}
	}
	stream, err := prng.NewHKDFStream(seed)
	if err != nil {
		return nil, err
	}

	k := cfg.InputSize / N
	a := make([]*ring.Polynomial[ring.Uint128], k)
	for i := 0; i < k; i++ {
		ui, err := sampling.Uniform(qTable, stream)
		if err != nil {
			return nil, err
		}
		a[i] = ui.ToNTT()
	}

	e := &Engine{
		cfg:       cfg,
		qTable:    qTable,
		pTable:    pTable,
		errParams: errParams,
		variance:  variance,
		k:         k,
		seed:      seed,
		stream:    stream,
		a:         a,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log.Debug().
		Int("input_size", cfg.InputSize).
		Int("log_t", cfg.LogT).
		Int("k", k).
		Str("config_fingerprint", fingerprintConfig(cfg)).
		Msg("secagg engine constructed")
	return e, nil
}

// u128 converts a *big.Int known to fit 128 bits into a ring.Uint128.
func u128(x *big.Int) ring.Uint128 {
	var b [16]byte
	x.FillBytes(b[:])
	hi := uint64(0)
	lo := uint64(0)
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(b[i])
	}
	for i := 8; i < 16; i++ {
		lo = lo<<8 | uint64(b[i])
	}
	return ring.Uint128{Hi: hi, Lo: lo}
}

// GetSeed returns the engine's stored 32-byte HKDF seed.
func (e *Engine) GetSeed() []byte {
	out := make([]byte, len(e.seed))
	copy(out, e.seed)
	return out
}

// SampleKey draws a fresh SecretKey over the q-side ring, continuing to
// consume the engine's own internal PRNG stream.
func (e *Engine) SampleKey() (*rlwe.SecretKey, error) {
	return rlwe.SampleKey(e.qTable, e.cfg.LogT, e.variance, e.stream)
}

// CreateKey reconstructs a SecretKey over the q-side ring from a
// coefficient vector already reduced mod p (e.g. the result of summing
// several ConvertKey outputs mod p).
func (e *Engine) CreateKey(coeffsModP []uint64) (*rlwe.SecretKey, error) {
	return rlwe.CreateKeyFromCoeffsModP(e.qTable, e.pTable.Modulus, e.cfg.LogT, e.variance, coeffsModP)
}

// ConvertKey serializes key as a coefficient vector mod p, via the
// modulus-balanced lift (spec 4.6).
func (e *Engine) ConvertKey(key *rlwe.SecretKey) ([]uint64, error) {
	return key.ConvertKey(e.pTable)
}

// SumKeys returns k1 + k2.
func (e *Engine) SumKeys(k1, k2 *rlwe.SecretKey) (*rlwe.SecretKey, error) {
	return k1.Add(k2)
}

// SamplePlaintext returns numCoeffs integers in [0, 2^logT) drawn from a
// deterministic Mersenne Twister seeded with 1, matching the testing-only
// helper described in spec 4.9 and 9. This is never used by Encrypt/Decrypt
// themselves; it exists purely so callers (and tests) can generate
// reproducible plaintexts without touching the cryptographic PRNG.
func SamplePlaintext(numCoeffs, logT int) []uint64 {
	mt := NewMT19937(1)
	mask := uint64(1)<<uint(logT) - 1
	out := make([]uint64, numCoeffs)
	for i := range out {
		out[i] = uint64(mt.Uint32()) & mask
	}
	return out
}

// Encrypt splits plaintext into K = input_size/N chunks, lifts each chunk
// into the Montgomery domain, NTTs it, and encrypts it with key and the
// corresponding precomputed a_i, continuing to consume the engine's own
// internal PRNG stream for the per-chunk error polynomials (spec 4.9).
func (e *Engine) Encrypt(key *rlwe.SecretKey, plaintext []uint64) ([]*rlwe.Ciphertext, error) {
	if len(plaintext) != e.cfg.InputSize {
		return nil, fmt.Errorf("%w: plaintext length %d != input_size %d", kerrors.ErrInvalidArgument, len(plaintext), e.cfg.InputSize)
	}
	out := make([]*rlwe.Ciphertext, e.k)
	for i := 0; i < e.k; i++ {
		chunk := plaintext[i*N : (i+1)*N]
		mCoeff, err := ring.ImportCoefficients(e.qTable, chunk)
		if err != nil {
			return nil, err
		}
		m := mCoeff.ToNTT()
		ct, err := rlwe.Encrypt(key, m, e.a[i], e.errParams, e.stream)
		if err != nil {
			return nil, err
		}
		out[i] = ct
	}
	return out, nil
}

// Decrypt decrypts K ciphertexts under key and concatenates the per-chunk
// results into a single plaintext vector of length input_size.
func (e *Engine) Decrypt(key *rlwe.SecretKey, ciphertexts []*rlwe.Ciphertext) ([]uint64, error) {
	if len(ciphertexts) != e.k {
		return nil, fmt.Errorf("%w: expected %d ciphertexts, got %d", kerrors.ErrInvalidArgument, e.k, len(ciphertexts))
	}
	out := make([]uint64, 0, e.cfg.InputSize)
	for _, ct := range ciphertexts {
		chunk, err := rlwe.Decrypt(key, ct)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// Aggregate returns the chunkwise sum of sumChunks and newChunks, both
// ordered lists of K ciphertexts. Only the c0 components are summed: every
// chunk-i ciphertext carries the same c1 = -a_i, which is kept as is, so the
// aggregate decrypts under the sum of the clients' keys.
func (e *Engine) Aggregate(sumChunks, newChunks []*rlwe.Ciphertext) ([]*rlwe.Ciphertext, error) {
	if len(sumChunks) != len(newChunks) {
		return nil, fmt.Errorf("%w: %d vs %d ciphertext chunks", kerrors.ErrInvalidArgument, len(sumChunks), len(newChunks))
	}
	out := make([]*rlwe.Ciphertext, len(sumChunks))
	for i := range sumChunks {
		sum, err := sumChunks[i].Add(newChunks[i])
		if err != nil {
			return nil, err
		}
		sum.Value[1] = sumChunks[i].Value[1]
		out[i] = sum
	}
	return out, nil
}
