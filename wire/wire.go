// Package wire implements the bit-exact Babel packet header and TLV
// primitives needed by the authentication core: the 4-byte datagram
// header, PAD1/TS-PC/HMAC TLV encode-decode, and the HMAC padding rule.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// MagicByte and VersionByte are the fixed Babel header bytes.
	MagicByte   byte = 42
	VersionByte byte = 2

	// HeaderLen is the size of the fixed datagram header.
	HeaderLen = 4

	// TLV types relevant to authentication.
	TypePAD1 byte = 0
	TypeTSPC byte = 4
	TypeHMAC byte = 11

	// TSPCValueLen is the fixed value length of a well-formed TS/PC TLV.
	TSPCValueLen = 6

	// HMACKeyIDLen is the size of the KeyID field inside an HMAC TLV value.
	HMACKeyIDLen = 2

	// MaxDigestsIn / MaxDigestsOut bound HMAC work per packet.
	MaxDigestsIn  = 4
	MaxDigestsOut = 4

	// MaxDigestLen is the largest digest this core supports (Whirlpool/SHA-512).
	MaxDigestLen = 64

	// MaxAuthSpace is the worst-case space a signer must reserve beyond
	// the plain body: one TS/PC TLV plus MaxDigestsOut max-size HMAC TLVs.
	MaxAuthSpace = (2 + TSPCValueLen) + MaxDigestsOut*(2+HMACKeyIDLen+MaxDigestLen)
)

// ErrMalformedTLV is returned whenever a TLV's declared length overruns
// the remaining packet bytes, or an HMAC TLV is too short to carry a
// KeyID and address-padding field.
var ErrMalformedTLV = errors.New("wire: malformed tlv")

// TLV describes one parsed type-length-value element.
type TLV struct {
	Type        byte
	Length      byte // value length; 0 for PAD1
	Offset      int  // offset of the type byte
	ValueOffset int  // offset of the first value byte (Offset+2, or Offset+1 for PAD1 which has no value)
}

// WriteHeader writes the fixed 4-byte header with the given body length.
func WriteHeader(buf []byte, bodyLen uint16) error {
	if len(buf) < HeaderLen {
		return fmt.Errorf("wire: header: buffer too short")
	}
	buf[0] = MagicByte
	buf[1] = VersionByte
	binary.BigEndian.PutUint16(buf[2:4], bodyLen)
	return nil
}

// ReadHeader validates and returns the body length encoded in buf.
func ReadHeader(buf []byte) (uint16, error) {
	if len(buf) < HeaderLen {
		return 0, fmt.Errorf("wire: header: packet too short")
	}
	if buf[0] != MagicByte {
		return 0, fmt.Errorf("wire: header: bad magic byte %d", buf[0])
	}
	if buf[1] != VersionByte {
		return 0, fmt.Errorf("wire: header: bad version byte %d", buf[1])
	}
	return binary.BigEndian.Uint16(buf[2:4]), nil
}

// Walk scans the TLV stream starting at HeaderLen and calls fn for every
// TLV encountered, in order. It stops and returns ErrMalformedTLV if any
// TLV's declared length would run past the end of packet.
func Walk(packet []byte, fn func(TLV) error) error {
	i := HeaderLen
	for i < len(packet) {
		t := packet[i]
		if t == TypePAD1 {
			if err := fn(TLV{Type: TypePAD1, Offset: i, ValueOffset: i + 1}); err != nil {
				return err
			}
			i++
			continue
		}
		if i+2 > len(packet) {
			return ErrMalformedTLV
		}
		length := packet[i+1]
		valueOffset := i + 2
		if valueOffset+int(length) > len(packet) {
			return ErrMalformedTLV
		}
		tlv := TLV{Type: t, Length: length, Offset: i, ValueOffset: valueOffset}
		if err := fn(tlv); err != nil {
			return err
		}
		i = valueOffset + int(length)
	}
	return nil
}

// EncodeTSPC encodes a TS/PC TLV body: type, length, pc, ts.
func EncodeTSPC(pc uint16, ts uint32) []byte {
	out := make([]byte, 2+TSPCValueLen)
	out[0] = TypeTSPC
	out[1] = TSPCValueLen
	binary.BigEndian.PutUint16(out[2:4], pc)
	binary.BigEndian.PutUint32(out[4:8], ts)
	return out
}

// DecodeTSPC reads the pc/ts fields out of a TS/PC TLV value of exactly
// TSPCValueLen bytes.
func DecodeTSPC(value []byte) (pc uint16, ts uint32, err error) {
	if len(value) != TSPCValueLen {
		return 0, 0, fmt.Errorf("wire: tspc: bad value length %d", len(value))
	}
	return binary.BigEndian.Uint16(value[0:2]), binary.BigEndian.Uint32(value[2:6]), nil
}

// EncodeHMACPlaceholder encodes an HMAC TLV with the digest field
// pre-filled per the padding rule: addr(16) || zeros(digestLen-16).
func EncodeHMACPlaceholder(keyID uint16, digestLen int, addr [16]byte) ([]byte, error) {
	if digestLen < 16 {
		return nil, fmt.Errorf("wire: hmac: digest length %d too short for padding", digestLen)
	}
	valueLen := HMACKeyIDLen + digestLen
	out := make([]byte, 2+valueLen)
	out[0] = TypeHMAC
	out[1] = byte(valueLen)
	binary.BigEndian.PutUint16(out[2:4], keyID)
	copy(out[4:4+16], addr[:])
	// remaining bytes already zero
	return out, nil
}
