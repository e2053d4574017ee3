package prng

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/vaultgrove/secagg/kerrors"
)

const hkdfSeedLength = 32

// HKDFStream is a deterministic byte stream built from HKDF-Extract-Expand
// over SHA-256, keyed by a 32-byte seed. Every 255*32 output bytes it
// increments an internal salt counter and re-derives, so the stream is
// effectively unbounded while remaining exactly reproducible from the seed.
type HKDFStream struct {
	seed    []byte
	salt    uint64
	reader  io.Reader
	nInSalt int
}

// NewHKDFStream creates an HKDF-SHA-256 stream keyed by seed, which must be
// exactly 32 bytes.
func NewHKDFStream(seed []byte) (*HKDFStream, error) {
	if err := checkSeedLength(seed, hkdfSeedLength); err != nil {
		return nil, err
	}
	s := &HKDFStream{seed: append([]byte(nil), seed...)}
	s.reseed()
	return s, nil
}

// GenerateHKDFSeed returns a fresh cryptographically random 32-byte seed
// suitable for NewHKDFStream.
func GenerateHKDFSeed() ([]byte, error) {
	seed := make([]byte, hkdfSeedLength)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrPRNG, err)
	}
	return seed, nil
}

func (s *HKDFStream) reseed() {
	var saltBytes [8]byte
	binary.BigEndian.PutUint64(saltBytes[:], s.salt)
	s.reader = hkdf.New(sha256.New, s.seed, saltBytes[:], nil)
	s.nInSalt = 0
	s.salt++
}

// Rand8 draws a single pseudo-random byte.
func (s *HKDFStream) Rand8() (byte, error) {
	if s.nInSalt >= bufferBytes {
		s.reseed()
	}
	var b [1]byte
	if _, err := io.ReadFull(s.reader, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", kerrors.ErrPRNG, err)
	}
	s.nInSalt++
	return b[0], nil
}

// Rand64 draws a big-endian uint64 from 8 consecutive pseudo-random bytes.
func (s *HKDFStream) Rand64() (uint64, error) {
	return rand64FromBytes(s.Rand8)
}

// SeedLength reports the seed size this stream requires (32 bytes).
func (s *HKDFStream) SeedLength() int { return hkdfSeedLength }
