package codec

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	cases := [][]byte{
		[]byte("hello hello hello world"),
		bytes.Repeat([]byte{'A'}, 10000),
		[]byte("x"),
		[]byte("ab"),
	}
	for _, payload := range cases {
		// The ratio gate rejects short payloads, so the roundtrip is
		// checked on the ungated stream.
		encoded := encodeStream(payload)
		if got := readUint32(encoded[0:4]); got != uint32(len(payload)) {
			t.Fatalf("uncompressed-size field for %q = %d, want %d", payload, got, len(payload))
		}
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(decoded, payload) {
			t.Fatalf("roundtrip mismatch: got %q want %q", decoded, payload)
		}
	}
}

func TestCompressionGateHighlyCompressible(t *testing.T) {
	payload := bytes.Repeat([]byte{'A'}, 10000)
	_, ok := Encode(payload, 80)
	if !ok {
		t.Fatal("expected highly repetitive payload to pass the compression ratio gate")
	}
}

func TestCompressionGateRandomData(t *testing.T) {
	payload := make([]byte, 10000)
	if _, err := rand.Read(payload); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}
	_, ok := Encode(payload, 80)
	if ok {
		t.Fatal("expected near-incompressible random payload to fail the compression ratio gate")
	}
}

func TestDecodeRejectsTruncated(t *testing.T) {
	if _, err := Decode([]byte{1, 2}); err == nil {
		t.Fatal("expected error decoding truncated stream")
	}
}
