package snapshot

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash is a BLAKE3 digest of uncompressed pixel data.
type Hash [32]byte

// String returns the hex form of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// pixelsDomainKey keys the pixel hash so it never collides with a plain
// BLAKE3 of the same bytes.
var pixelsDomainKey = [32]byte{
	'r', 'a', 's', 't', 'e', 'r', 'd', 'o', 'c', '.', 's', 'n', 'a', 'p', 's', 'h',
	'o', 't', '.', 'p', 'i', 'x', 'e', 'l', 's', 0, 0, 0, 0, 0, 0, 0,
}

// HashPixels returns the keyed hash stored alongside a pixel payload.
func HashPixels(data []byte) Hash {
	hasher, err := blake3.NewKeyed(pixelsDomainKey[:])
	if err != nil {
		// Only a wrong key length fails, and the key is fixed-size.
		panic("snapshot: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	_, _ = hasher.Write(data)
	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h
}
