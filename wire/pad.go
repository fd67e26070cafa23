package wire

// Pad returns a copy of packet in which every HMAC TLV's digest field has
// been overwritten with addr (16 bytes) followed by zero padding, leaving
// every other byte — including each HMAC TLV's KeyID — untouched. This is
// the transform both signer and verifier apply before computing an HMAC,
// so the digest never covers its own output.
//
// Pad aborts with ErrMalformedTLV on any TLV whose declared length runs
// past the end of the packet, or any HMAC TLV too short to hold a KeyID
// plus a 16-byte address (length < 18).
func Pad(packet []byte, addr [16]byte) ([]byte, error) {
	out := make([]byte, len(packet))
	copy(out, packet)

	err := Walk(packet, func(t TLV) error {
		if t.Type != TypeHMAC {
			return nil
		}
		if t.Length < HMACKeyIDLen+16 {
			return ErrMalformedTLV
		}
		digestStart := t.ValueOffset + HMACKeyIDLen
		digestLen := int(t.Length) - HMACKeyIDLen
		copy(out[digestStart:digestStart+16], addr[:])
		for i := 16; i < digestLen; i++ {
			out[digestStart+i] = 0
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
