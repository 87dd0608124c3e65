package directory

import (
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
)

// Principals travel in text as lower-case unpadded base32 of a CRC32
// checksum followed by the raw bytes, dash-separated every five characters.
// The remote directory wants the raw bytes.

var principalEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

var errChecksum = errors.New("principal checksum mismatch")

// DecodePrincipal parses a textual principal into its raw platform-native
// bytes, verifying the embedded checksum.
func DecodePrincipal(text string) ([]byte, error) {
	ungrouped := strings.ReplaceAll(strings.ToUpper(text), "-", "")
	raw, err := principalEncoding.DecodeString(ungrouped)
	if err != nil {
		return nil, fmt.Errorf("invalid principal %q: %w", text, err)
	}
	if len(raw) < 4 {
		return nil, fmt.Errorf("invalid principal %q: too short", text)
	}

	sum := binary.BigEndian.Uint32(raw[:4])
	body := raw[4:]
	if crc32.ChecksumIEEE(body) != sum {
		return nil, fmt.Errorf("invalid principal %q: %w", text, errChecksum)
	}
	return body, nil
}

// EncodePrincipal renders raw principal bytes in the platform's textual
// form.
func EncodePrincipal(raw []byte) string {
	buf := make([]byte, 4+len(raw))
	binary.BigEndian.PutUint32(buf[:4], crc32.ChecksumIEEE(raw))
	copy(buf[4:], raw)

	encoded := strings.ToLower(principalEncoding.EncodeToString(buf))

	var b strings.Builder
	for i, r := range encoded {
		if i > 0 && i%5 == 0 {
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}
