package wire

import (
	"bytes"
	"testing"
)

func buildPacket(tlvBytes ...[]byte) []byte {
	buf := make([]byte, HeaderLen)
	for _, t := range tlvBytes {
		buf = append(buf, t...)
	}
	_ = WriteHeader(buf, uint16(len(buf)-HeaderLen))
	return buf
}

func TestWriteReadHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, HeaderLen)
	if err := WriteHeader(buf, 12); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	got, err := ReadHeader(buf)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if got != 12 {
		t.Fatalf("body len = %d, want 12", got)
	}
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	buf := []byte{0, VersionByte, 0, 0}
	if _, err := ReadHeader(buf); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestWalkPAD1AndTSPC(t *testing.T) {
	pkt := buildPacket([]byte{TypePAD1}, EncodeTSPC(7, 1000))

	var found []TLV
	if err := Walk(pkt, func(tlv TLV) error {
		found = append(found, tlv)
		return nil
	}); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 tlvs, got %d", len(found))
	}
	if found[0].Type != TypePAD1 {
		t.Fatalf("expected PAD1 first")
	}
	if found[1].Type != TypeTSPC {
		t.Fatalf("expected TS/PC second")
	}
	pc, ts, err := DecodeTSPC(pkt[found[1].ValueOffset : found[1].ValueOffset+int(found[1].Length)])
	if err != nil {
		t.Fatalf("DecodeTSPC: %v", err)
	}
	if pc != 7 || ts != 1000 {
		t.Fatalf("got pc=%d ts=%d, want pc=7 ts=1000", pc, ts)
	}
}

func TestWalkMalformedLengthOverrun(t *testing.T) {
	pkt := buildPacket()
	pkt = append(pkt, TypeHMAC, 0xFF, 0x01, 0x02) // declares 255 bytes, only 2 present
	if err := Walk(pkt, func(TLV) error { return nil }); err != ErrMalformedTLV {
		t.Fatalf("expected ErrMalformedTLV, got %v", err)
	}
}

func TestEncodeHMACPlaceholderRejectsShortDigest(t *testing.T) {
	if _, err := EncodeHMACPlaceholder(1, 10, [16]byte{}); err == nil {
		t.Fatalf("expected error for digest length < 16")
	}
}

func TestPadIsInvolutionOnNonHMACBytes(t *testing.T) {
	hmacTLV, err := EncodeHMACPlaceholder(42, 20, [16]byte{0xAA})
	if err != nil {
		t.Fatalf("EncodeHMACPlaceholder: %v", err)
	}
	pkt := buildPacket(EncodeTSPC(1, 100), hmacTLV)

	addr := [16]byte{0xFE, 0x80, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	padded, err := Pad(pkt, addr)
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	if len(padded) != len(pkt) {
		t.Fatalf("padded length changed: %d vs %d", len(padded), len(pkt))
	}

	// Non-HMAC bytes (header + TS/PC TLV + HMAC type/length/keyid) unchanged.
	if !bytes.Equal(padded[:HeaderLen+8+4], pkt[:HeaderLen+8+4]) {
		t.Fatalf("non-digest bytes were modified")
	}

	digestStart := HeaderLen + 8 + 4
	if !bytes.Equal(padded[digestStart:digestStart+16], addr[:]) {
		t.Fatalf("digest does not start with padding address")
	}
	for _, b := range padded[digestStart+16 : digestStart+20] {
		if b != 0 {
			t.Fatalf("expected zero padding after address")
		}
	}
}

func TestPadRejectsShortHMACTLV(t *testing.T) {
	pkt := buildPacket()
	pkt = append(pkt, TypeHMAC, 10, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	if _, err := Pad(pkt, [16]byte{}); err != ErrMalformedTLV {
		t.Fatalf("expected ErrMalformedTLV, got %v", err)
	}
}
