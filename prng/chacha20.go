package prng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/chacha20"

	"github.com/vaultgrove/secagg/kerrors"
)

const chacha20KeyLength = 32

// ChaCha20Stream is a deterministic byte stream built from the ChaCha20
// keystream, keyed by a 32-byte key. It follows the same re-salting rule as
// HKDFStream: every 255*32 output bytes, a salt counter is folded into the
// nonce and the cipher is re-instantiated, so the stream is reproducible and
// effectively unbounded.
type ChaCha20Stream struct {
	key     []byte
	salt    uint64
	cipher  *chacha20.Cipher
	nInSalt int
}

// NewChaCha20Stream creates a ChaCha20 stream keyed by key, which must be
// exactly 32 bytes.
func NewChaCha20Stream(key []byte) (*ChaCha20Stream, error) {
	if err := checkSeedLength(key, chacha20KeyLength); err != nil {
		return nil, err
	}
	s := &ChaCha20Stream{key: append([]byte(nil), key...)}
	if err := s.reseed(); err != nil {
		return nil, err
	}
	return s, nil
}

// GenerateChaCha20Seed returns a fresh cryptographically random 32-byte key
// suitable for NewChaCha20Stream.
func GenerateChaCha20Seed() ([]byte, error) {
	key := make([]byte, chacha20KeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrPRNG, err)
	}
	return key, nil
}

func (s *ChaCha20Stream) reseed() error {
	nonce := make([]byte, chacha20.NonceSize)
	binary.BigEndian.PutUint64(nonce[4:], s.salt)
	c, err := chacha20.NewUnauthenticatedCipher(s.key, nonce)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrPRNG, err)
	}
	s.cipher = c
	s.nInSalt = 0
	s.salt++
	return nil
}

// Rand8 draws a single pseudo-random byte from the keystream.
func (s *ChaCha20Stream) Rand8() (byte, error) {
	if s.nInSalt >= bufferBytes {
		if err := s.reseed(); err != nil {
			return 0, err
		}
	}
	var in, out [1]byte
	s.cipher.XORKeyStream(out[:], in[:])
	s.nInSalt++
	return out[0], nil
}

// Rand64 draws a big-endian uint64 from 8 consecutive keystream bytes.
func (s *ChaCha20Stream) Rand64() (uint64, error) {
	return rand64FromBytes(s.Rand8)
}

// SeedLength reports the seed size this stream requires (32 bytes).
func (s *ChaCha20Stream) SeedLength() int { return chacha20KeyLength }
