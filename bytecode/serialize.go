package bytecode

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"lull/value"
)

// value tags in the serialized container, per spec §4.3.
const (
	tagFloat byte = 0
	tagInt   byte = 1
	tagStr   byte = 2
)

// Write serializes p to w using the container format from spec §4.3:
//
//	program  := u32 n_funcs, { function } x n_funcs
//	function := string name, u32 n_args, { string } x n_args,
//	            u32 n_lits, { value } x n_lits,
//	            u32 n_ins,  { inst } x n_ins
//	string   := u32 length, { byte } x length (UTF-8)
//	value    := u8 tag, payload
//	inst     := u8 opcode, u8 immediate
//
// All multi-byte integers are little-endian.
func Write(w io.Writer, p Program) error {
	bw := bufio.NewWriter(w)

	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}

	if err := writeU32(bw, uint32(len(names))); err != nil {
		return err
	}
	for _, name := range names {
		fn := p[name]
		if err := writeString(bw, name); err != nil {
			return err
		}
		if err := writeU32(bw, uint32(len(fn.Args))); err != nil {
			return err
		}
		for _, arg := range fn.Args {
			if err := writeString(bw, arg); err != nil {
				return err
			}
		}
		if err := writeU32(bw, uint32(len(fn.Literals))); err != nil {
			return err
		}
		for _, lit := range fn.Literals {
			if err := writeValue(bw, lit); err != nil {
				return err
			}
		}
		if err := writeU32(bw, uint32(len(fn.Instructions))); err != nil {
			return err
		}
		for _, ins := range fn.Instructions {
			if err := bw.WriteByte(byte(ins.Op)); err != nil {
				return err
			}
			if err := bw.WriteByte(ins.Arg); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Read deserializes a Program from r, the inverse of Write. A well-formed
// image round-trips: Read(Write(P)) == P (spec §4.3, invariant 4).
func Read(r io.Reader) (Program, error) {
	br := bufio.NewReader(r)

	nFuncs, err := readU32(br)
	if err != nil {
		return nil, err
	}
	p := make(Program, nFuncs)
	for i := uint32(0); i < nFuncs; i++ {
		name, err := readString(br)
		if err != nil {
			return nil, err
		}
		nArgs, err := readU32(br)
		if err != nil {
			return nil, err
		}
		args := make([]string, nArgs)
		for j := range args {
			args[j], err = readString(br)
			if err != nil {
				return nil, err
			}
		}
		nLits, err := readU32(br)
		if err != nil {
			return nil, err
		}
		lits := make([]value.Value, nLits)
		for j := range lits {
			lits[j], err = readValue(br)
			if err != nil {
				return nil, err
			}
		}
		nIns, err := readU32(br)
		if err != nil {
			return nil, err
		}
		ins := make([]Instruction, nIns)
		for j := range ins {
			opByte, err := br.ReadByte()
			if err != nil {
				return nil, err
			}
			arg, err := br.ReadByte()
			if err != nil {
				return nil, err
			}
			ins[j] = Instruction{Op: Opcode(opByte), Arg: arg}
		}
		p[name] = &FunctionImage{Args: args, Literals: lits, Instructions: ins}
	}
	return p, nil
}

func writeU32(w io.ByteWriter, n uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], n)
	for _, b := range buf {
		if err := w.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeString(w io.ByteWriter, s string) error {
	if err := writeU32(w, uint32(len(s))); err != nil {
		return err
	}
	for i := 0; i < len(s); i++ {
		if err := w.WriteByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}

func readString(r io.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeValue(w io.ByteWriter, v value.Value) error {
	switch v.Kind() {
	case value.Float:
		if err := w.WriteByte(tagFloat); err != nil {
			return err
		}
		return writeU64(w, math.Float64bits(v.Float()))
	case value.Int:
		if err := w.WriteByte(tagInt); err != nil {
			return err
		}
		return writeU64(w, uint64(v.Int()))
	case value.Str:
		if err := w.WriteByte(tagStr); err != nil {
			return err
		}
		return writeString(w, v.Str())
	default:
		return fmt.Errorf("serialize: unknown value kind %v", v.Kind())
	}
}

func readValue(r io.Reader) (value.Value, error) {
	var tagBuf [1]byte
	if _, err := io.ReadFull(r, tagBuf[:]); err != nil {
		return value.Value{}, err
	}
	switch tagBuf[0] {
	case tagFloat:
		bits, err := readU64(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.Float64(math.Float64frombits(bits)), nil
	case tagInt:
		bits, err := readU64(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.Int64(int64(bits)), nil
	case tagStr:
		s, err := readString(r)
		if err != nil {
			return value.Value{}, err
		}
		return value.String(s), nil
	default:
		return value.Value{}, fmt.Errorf("deserialize: unknown value tag %d", tagBuf[0])
	}
}

func writeU64(w io.ByteWriter, n uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	for _, b := range buf {
		if err := w.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

func readU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
