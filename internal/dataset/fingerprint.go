package dataset

import (
	"encoding/binary"
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// fingerprint identifies a loaded dataset version by its sources and row counts.
func fingerprint(sources []SourceInfo, dailyRows, hourlyRows int) string {
	h, _ := blake2b.New256(nil)
	for _, s := range sources {
		h.Write([]byte(s.Path))
		h.Write([]byte{0})
		writeInt(h, s.Size)
		writeInt(h, s.ModTime.UnixNano())
	}
	writeInt(h, int64(dailyRows))
	writeInt(h, int64(hourlyRows))
	return hex.EncodeToString(h.Sum(nil)[:16])
}

func writeInt(h hash.Hash, v int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	h.Write(buf[:])
}
