package secagg

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// fingerprintConfig returns a short hex digest of an engine's construction
// parameters (everything except the seed itself, which must never be
// logged), for debug-level logging: it lets an operator confirm two engine
// instances were built with matching (input_size, log_t, stddev) without
// printing any sensitive material. This is a diagnostic convenience, not a
// cryptographic operation of the scheme.
func fingerprintConfig(cfg Config) string {
	h := blake3.New()
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(cfg.InputSize))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(cfg.LogT))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(cfg.stdDevOrDefault()*1000))
	_, _ = h.Write(buf[:])
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}
