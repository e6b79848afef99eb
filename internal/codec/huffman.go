// Package codec implements the Huffman compression envelope used to
// optionally shrink an asset's payload before it is persisted. Encoding is
// hand-rolled rather than built on a general-purpose compression library:
// the wire format (pre-order node stream with relative child pointers,
// LSB-first packed bitstream) is project-specific, not a DEFLATE-family
// container any stdlib or ecosystem codec speaks.
package codec

import (
	"container/heap"
	"fmt"

	"github.com/konstatoivanen/pkassetc/internal/container"
)

// node is one entry of the Huffman code tree built over the payload's
// byte-frequency table.
type node struct {
	freq        int
	isLeaf      bool
	value       byte
	left, right *node
	// seq records insertion order into the priority queue, used to break
	// ties between equal-frequency nodes deterministically.
	seq int
}

// nodeHeap is a min-heap over *node ordered by frequency, with insertion
// order as the tiebreaker so encoding is reproducible across runs.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// buildTree constructs the Huffman code tree from a 256-entry frequency
// table. Symbols with zero frequency are excluded. A single-symbol
// payload still produces a valid (degenerate, three-node) tree so encode
// and decode agree on a codeword.
func buildTree(freq [256]int) *node {
	h := &nodeHeap{}
	heap.Init(h)
	seq := 0
	for v := 0; v < 256; v++ {
		if freq[v] == 0 {
			continue
		}
		heap.Push(h, &node{freq: freq[v], isLeaf: true, value: byte(v), seq: seq})
		seq++
	}
	if h.Len() == 0 {
		return nil
	}
	if h.Len() == 1 {
		only := (*h)[0]
		// Degenerate alphabet: synthesize a parent so the leaf still gets
		// a one-bit codeword instead of a zero-bit one.
		return &node{freq: only.freq, left: only, right: &node{freq: 0, isLeaf: true, value: only.value, seq: seq}, seq: seq}
	}
	for h.Len() > 1 {
		a := heap.Pop(h).(*node)
		b := heap.Pop(h).(*node)
		parent := &node{freq: a.freq + b.freq, left: a, right: b, seq: seq}
		seq++
		heap.Push(h, parent)
	}
	return heap.Pop(h).(*node)
}

// codeTable maps each byte value present in the tree to its codeword,
// expressed as the bit sequence from root to leaf (0 = left, 1 = right).
func codeTable(root *node) map[byte][]bit {
	table := make(map[byte][]bit)
	var walk func(n *node, path []bit)
	walk = func(n *node, path []bit) {
		if n == nil {
			return
		}
		if n.isLeaf {
			cp := make([]bit, len(path))
			copy(cp, path)
			if len(cp) == 0 {
				cp = []bit{0}
			}
			table[n.value] = cp
			return
		}
		walk(n.left, append(path, 0))
		walk(n.right, append(path, 1))
	}
	walk(root, nil)
	return table
}

type bit uint8

// Encode attempts to Huffman-compress payload. It returns the serialized
// form (tree + bitstream, built inside a container.Buffer so the tree's
// child links are ordinary relative pointers) and true if compression was
// applied. ok is false when the compression-ratio gate fails or the
// payload is empty; callers should then persist the raw payload.
//
// headerSize is the size in bytes of the asset header that precedes the
// payload on disk; it participates in the ratio test per the envelope's
// (compressed+header)/uncompressed <= 0.75 rule.
func Encode(payload []byte, headerSize int) (encoded []byte, ok bool) {
	if len(payload) == 0 {
		return nil, false
	}
	encoded = encodeStream(payload)
	ratio := float64(len(encoded)+headerSize) / float64(len(payload))
	if ratio > 0.75 {
		return nil, false
	}
	return encoded, true
}

// encodeStream serializes a non-empty payload into the (uncompressed-size,
// tree, bitstream) form without applying the compression-ratio gate.
func encodeStream(payload []byte) []byte {
	var freq [256]int
	for _, b := range payload {
		freq[b]++
	}
	root := buildTree(freq)
	table := codeTable(root)

	buf := container.NewBuffer(container.AssetTypeInvalid, "")
	// Reuse the generic buffer purely as a relocatable-pointer arena; its
	// own header is discarded by the caller, only the payload after
	// HeaderSize is taken.
	writeUint32(buf, uint32(len(payload)))
	treeRootField := buf.Allocate(4)
	serializeTree(buf, treeRootField.Offset(), root)
	bits := packBits(payload, table)
	writeUint32(buf, uint32(len(bits)))
	buf.Write(bits)

	return buf.Bytes()[container.HeaderSize:]
}

func writeUint32(buf *container.Buffer, v uint32) container.WritePointer {
	b := make([]byte, 4)
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	return buf.Write(b)
}

// serializeTree writes a pre-order node stream. Each node is
// [is_leaf:1][value:1][left_ptr:4][right_ptr:4] (child pointers are zero
// and unused for leaves). rootField is the 4-byte slot the caller
// allocated to hold the root's relative pointer.
func serializeTree(buf *container.Buffer, rootField int, n *node) {
	wp := emitNode(buf, n)
	container.PutRelativePointer(buf, rootField, wp)
}

func emitNode(buf *container.Buffer, n *node) container.WritePointer {
	rec := buf.Allocate(10)
	data := rec.Bytes()
	if n.isLeaf {
		data[0] = 1
		data[1] = n.value
		return rec
	}
	data[0] = 0
	leftField := rec.Offset() + 2
	rightField := rec.Offset() + 6
	leftWP := emitNode(buf, n.left)
	container.PutRelativePointer(buf, leftField, leftWP)
	rightWP := emitNode(buf, n.right)
	container.PutRelativePointer(buf, rightField, rightWP)
	return rec
}

// packBits writes, for each input byte, its codeword LSB-first within
// each output byte.
func packBits(payload []byte, table map[byte][]bit) []byte {
	var out []byte
	var cur byte
	var nbits uint
	for _, b := range payload {
		for _, bt := range table[b] {
			if bt != 0 {
				cur |= 1 << nbits
			}
			nbits++
			if nbits == 8 {
				out = append(out, cur)
				cur = 0
				nbits = 0
			}
		}
	}
	if nbits > 0 {
		out = append(out, cur)
	}
	return out
}

// Decode reverses Encode, reconstructing the original payload from its
// serialized (uncompressed-size, tree, bitstream) form.
func Decode(encoded []byte) ([]byte, error) {
	if len(encoded) < 4 {
		return nil, fmt.Errorf("codec: truncated stream")
	}
	uncompressedSize := readUint32(encoded[0:4])
	treeField := 4
	if len(encoded) < treeField+4 {
		return nil, fmt.Errorf("codec: truncated tree pointer")
	}
	rootOffset := container.ResolveRelativePointer(encoded, treeField)
	// The pre-order node stream sits between the root pointer and the
	// bitstream length field; walk it to find where it ends.
	bitLenField := rootOffset
	for pending := 1; pending > 0; bitLenField += 10 {
		if bitLenField < 0 || len(encoded) < bitLenField+10 {
			return nil, fmt.Errorf("codec: truncated tree")
		}
		if encoded[bitLenField] == 1 {
			pending--
		} else {
			pending++
		}
	}
	if len(encoded) < bitLenField+4 {
		return nil, fmt.Errorf("codec: truncated bit length")
	}
	// encodeStream stores the packed bitstream's length in bytes.
	streamLen := int(readUint32(encoded[bitLenField : bitLenField+4]))
	bitstreamOffset := bitLenField + 4
	if len(encoded) < bitstreamOffset+streamLen {
		return nil, fmt.Errorf("codec: truncated bitstream")
	}
	bitstream := encoded[bitstreamOffset : bitstreamOffset+streamLen]

	out := make([]byte, 0, uncompressedSize)
	if uncompressedSize == 0 {
		return out, nil
	}

	bitIdx := 0
	for uint32(len(out)) < uncompressedSize {
		offset := rootOffset
		for {
			isLeaf := encoded[offset]
			if isLeaf == 1 {
				out = append(out, encoded[offset+1])
				break
			}
			b := readBit(bitstream, bitIdx)
			bitIdx++
			var childField int
			if b == 0 {
				childField = offset + 2
			} else {
				childField = offset + 6
			}
			offset = container.ResolveRelativePointer(encoded, childField)
		}
	}
	return out, nil
}

func byteLen(nbits int) int {
	return (nbits + 7) / 8
}

func readBit(stream []byte, idx int) bit {
	byteIdx := idx / 8
	bitIdx := uint(idx % 8)
	return bit((stream[byteIdx] >> bitIdx) & 1)
}

func readUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
