// Package shaderreflect walks raw SPIR-V bytecode to answer the
// questions a general-purpose reflection library does not expose
// (whether a binding is ever written to) and to compute a dense
// descriptor binding/set renumbering (CompactBindings). It does not
// rewrite bytecode: the renumbering is returned, not applied.
package shaderreflect

import "fmt"

const (
	opcodeExecutionModeID = 331
	opcodeLoad            = 61
	opcodeAccessChain     = 65
	opcodeStore           = 62
	opcodeImageWrite      = 99
	opcodeConstant        = 43
	opcodeVariable        = 59
	opcodeDecorate        = 71
	opcodeName            = 5
)

// executionModeLocalSizeID is the LocalSizeId execution mode value.
const executionModeLocalSizeID = 38

// atomicWriteOpcodes is the write-detecting atomic opcode set from the
// glossary's "Atomic-write opcode set".
var atomicWriteOpcodes = map[uint32]bool{
	62:   true, // OpStore
	228:  true, // OpAtomicStore
	229:  true, // OpAtomicExchange
	230:  true, // OpAtomicCompareExchange
	231:  true, // OpAtomicCompareExchangeWeak
	232:  true, // OpAtomicIIncrement
	233:  true, // OpAtomicIDecrement
	234:  true, // OpAtomicIAdd
	235:  true, // OpAtomicISub
	236:  true, // OpAtomicSMin
	237:  true, // OpAtomicUMin
	238:  true, // OpAtomicSMax
	239:  true, // OpAtomicUMax
	240:  true, // OpAtomicAnd
	241:  true, // OpAtomicOr
	242:  true, // OpAtomicXor
	6035: true, // OpAtomicFAddEXT (vendor extended range, matches glossary listing)
}

// Instruction is one decoded SPIR-V instruction.
type Instruction struct {
	Opcode    uint32
	WordCount uint32
	Operands  []uint32
	// WordOffset is the instruction's starting word index, used as a
	// stable id for cross-referencing (e.g. a variable's result id is
	// Operands[1] for OpVariable).
	WordOffset int
}

// Module is a parsed SPIR-V module: header fields plus the linear
// instruction stream.
type Module struct {
	Version      uint32
	Generator    uint32
	Bound        uint32
	Schema       uint32
	Instructions []Instruction
}

// ParseModule decodes a little-endian 32-bit-word SPIR-V module: a
// 5-word header followed by (opcode | word_count<<16)-prefixed
// instructions.
func ParseModule(words []uint32) (*Module, error) {
	if len(words) < 5 {
		return nil, fmt.Errorf("shaderreflect: module too short")
	}
	m := &Module{Version: words[1], Generator: words[2], Bound: words[3], Schema: words[4]}
	i := 5
	for i < len(words) {
		head := words[i]
		wordCount := head >> 16
		opcode := head & 0xffff
		if wordCount == 0 || i+int(wordCount) > len(words) {
			return nil, fmt.Errorf("shaderreflect: malformed instruction at word %d", i)
		}
		operands := append([]uint32(nil), words[i+1:i+int(wordCount)]...)
		m.Instructions = append(m.Instructions, Instruction{
			Opcode: opcode, WordCount: wordCount, Operands: operands, WordOffset: i,
		})
		i += int(wordCount)
	}
	return m, nil
}

// ImageWriteVariables returns the set of OpVariable result-ids that are
// storage-write per the image-write rule: some OpLoad of the variable is
// later referenced by an OpImageWrite.
func (m *Module) ImageWriteVariables() map[uint32]bool {
	written := make(map[uint32]bool)
	loadedFrom := make(map[uint32]uint32) // load result id -> pointer operand
	for _, ins := range m.Instructions {
		switch ins.Opcode {
		case opcodeLoad:
			if len(ins.Operands) >= 2 {
				loadedFrom[ins.Operands[1]] = ins.Operands[2]
			}
		case opcodeImageWrite:
			if len(ins.Operands) >= 1 {
				if ptr, ok := loadedFrom[ins.Operands[0]]; ok {
					written[ptr] = true
				}
			}
		}
	}
	return written
}

// BufferWriteVariables returns the set of OpVariable result-ids that are
// storage-write per the buffer-write rule: some OpAccessChain of the
// variable is later referenced by a write opcode from the atomic-write
// set (which includes plain OpStore).
func (m *Module) BufferWriteVariables() map[uint32]bool {
	written := make(map[uint32]bool)
	accessChainBase := make(map[uint32]uint32) // access chain result id -> base variable
	for _, ins := range m.Instructions {
		switch ins.Opcode {
		case opcodeAccessChain:
			if len(ins.Operands) >= 3 {
				accessChainBase[ins.Operands[1]] = ins.Operands[2]
			}
		default:
			if !atomicWriteOpcodes[ins.Opcode] {
				continue
			}
			if len(ins.Operands) == 0 {
				continue
			}
			target := ins.Operands[0]
			if base, ok := accessChainBase[target]; ok {
				written[base] = true
			}
		}
	}
	return written
}

const (
	decorationDescriptorSet = 34
	decorationBinding       = 33
	storageClassUniformConstant = 0
	storageClassUniform         = 2
	storageClassStorageBuffer   = 12
)

// DecoratedVariable is one OpVariable enumerated alongside the
// decorations and debug name that describe it.
type DecoratedVariable struct {
	ResultID     uint32
	StorageClass uint32
	Name         string
	Set          uint32
	Binding      uint32
	HasBinding   bool
}

// ResourceVariables walks OpName, OpDecorate and OpVariable to recover
// descriptor-worthy variables (UniformConstant, Uniform, StorageBuffer
// storage classes) with their declared name, set and binding. This is
// the raw-bytecode counterpart to a reflection library's binding table,
// used so descriptor enumeration does not depend on the same library
// the write-analysis walks above deliberately bypass.
func (m *Module) ResourceVariables() []DecoratedVariable {
	names := make(map[uint32]string)
	sets := make(map[uint32]uint32)
	bindings := make(map[uint32]uint32)
	hasBinding := make(map[uint32]bool)

	for _, ins := range m.Instructions {
		switch ins.Opcode {
		case opcodeName:
			if len(ins.Operands) >= 2 {
				names[ins.Operands[0]] = decodeLiteralString(ins.Operands[1:])
			}
		case opcodeDecorate:
			if len(ins.Operands) < 2 {
				continue
			}
			target, decoration := ins.Operands[0], ins.Operands[1]
			switch decoration {
			case decorationDescriptorSet:
				if len(ins.Operands) >= 3 {
					sets[target] = ins.Operands[2]
				}
			case decorationBinding:
				if len(ins.Operands) >= 3 {
					bindings[target] = ins.Operands[2]
					hasBinding[target] = true
				}
			}
		}
	}

	var out []DecoratedVariable
	for _, ins := range m.Instructions {
		if ins.Opcode != opcodeVariable || len(ins.Operands) < 3 {
			continue
		}
		id := ins.Operands[1]
		storageClass := ins.Operands[2]
		if storageClass != storageClassUniformConstant && storageClass != storageClassUniform && storageClass != storageClassStorageBuffer {
			continue
		}
		out = append(out, DecoratedVariable{
			ResultID:     id,
			StorageClass: storageClass,
			Name:         names[id],
			Set:          sets[id],
			Binding:      bindings[id],
			HasBinding:   hasBinding[id],
		})
	}
	return out
}

// decodeLiteralString reinterprets SPIR-V's packed, nul-terminated
// literal string encoding (4 ASCII bytes per word, little-endian) back
// into a Go string. Test fixtures pass single ASCII words.
func decodeLiteralString(words []uint32) string {
	var b []byte
	for _, w := range words {
		for i := 0; i < 4; i++ {
			c := byte(w >> (8 * i))
			if c == 0 {
				return string(b)
			}
			b = append(b, c)
		}
	}
	return string(b)
}

// GroupSize scans for OpExecutionModeId with mode LocalSizeId and
// resolves its three operand ids via OpConstant, returning the compute
// workgroup dimensions.
func (m *Module) GroupSize() (x, y, z uint32, ok bool) {
	constants := make(map[uint32]uint32)
	for _, ins := range m.Instructions {
		if ins.Opcode == opcodeConstant && len(ins.Operands) >= 3 {
			constants[ins.Operands[1]] = ins.Operands[2]
		}
	}
	for _, ins := range m.Instructions {
		if ins.Opcode != opcodeExecutionModeID || len(ins.Operands) < 5 {
			continue
		}
		if ins.Operands[1] != executionModeLocalSizeID {
			continue
		}
		return constants[ins.Operands[2]], constants[ins.Operands[3]], constants[ins.Operands[4]], true
	}
	return 0, 0, 0, false
}
