// Package vm executes a bytecode.Program: a register-less stack
// interpreter with call frames, mixed-typed values, and a single-shot
// suspension primitive (Yield) that preserves full frame state for
// resumption (spec §4.5).
package vm

import (
	"fmt"

	"lull/bytecode"
	"lull/value"
)

// NativeFunc is a host-provided function: a read-only view of argument
// values in call order in, exactly one value out. Natives are trusted —
// spec §6 specifies that a native has no failure mode the VM can recover
// from, so a NativeFunc that cannot produce a result should panic rather
// than return an error.
type NativeFunc func(args []value.Value) value.Value

// VM executes one program at a time across a stack of call frames. It is
// not re-entrant: the host must not call Resume while a previous Resume
// from the same VM is still running (spec §5).
type VM struct {
	prog    bytecode.Program
	natives map[string]NativeFunc
	frames  []*Frame
}

// New creates a VM over prog with the given native function table. Native
// names and user-function names share one namespace; a user function of
// the same name takes priority at Call time, which is the observable
// effect of spec §4.3's "VM pre-populates the function table with natives
// before reading user functions, and user functions overwrite natives on
// name collision."
func New(prog bytecode.Program, natives map[string]NativeFunc) *VM {
	return &VM{prog: prog, natives: natives}
}

// Init creates the initial frame for a named user function and pushes its
// arguments. It errors if name resolves to a native rather than a
// user-defined function (spec §4.5, "Host control API").
func (vm *VM) Init(name string, args []value.Value) error {
	if _, ok := vm.natives[name]; ok {
		if _, isUserFn := vm.prog[name]; !isUserFn {
			return fmt.Errorf("vm: %q is a native function, not directly callable", name)
		}
	}
	fn, ok := vm.prog[name]
	if !ok {
		return fmt.Errorf("vm: unknown function %q", name)
	}
	vm.frames = []*Frame{newFrame(fn, args)}
	return nil
}

// RunToCompletion initializes a call to name and runs it until it
// finishes, erroring if the callee yields instead (spec §4.5).
func (vm *VM) RunToCompletion(name string, args []value.Value) (value.Value, error) {
	if err := vm.Init(name, args); err != nil {
		return value.Value{}, err
	}
	res, err := vm.Resume()
	if err != nil {
		return value.Value{}, err
	}
	if res.Status != Finished {
		return value.Value{}, fmt.Errorf("vm: %q suspended; run-to-completion requires it to run uninterrupted", name)
	}
	return res.Value, nil
}

// Resume runs the dispatch loop, driven by the top frame's instruction
// pointer, until the next Suspend or Finished outcome (spec §4.5).
func (vm *VM) Resume() (Result, error) {
	for {
		if len(vm.frames) == 0 {
			return Result{}, fmt.Errorf("vm: no active frame to resume")
		}
		frame := vm.frames[len(vm.frames)-1]

		ins := bytecode.Instruction{Op: bytecode.Ret, Arg: 0}
		if frame.ip < len(frame.fn.Instructions) {
			ins = frame.fn.Instructions[frame.ip]
		}

		switch ins.Op {
		case bytecode.LoadLiteral:
			if int(ins.Arg) >= len(frame.fn.Literals) {
				return Result{}, &RuntimeError{Msg: "LoadLiteral: literal index out of range"}
			}
			frame.stack = append(frame.stack, frame.fn.Literals[ins.Arg])
			frame.ip++

		case bytecode.Store:
			v, ok := frame.popTail()
			if !ok {
				return Result{}, &RuntimeError{Msg: "Store: stack underread"}
			}
			idx := len(frame.stack) - 1 - int(ins.Arg)
			if idx < 0 || idx >= len(frame.stack) {
				return Result{}, &RuntimeError{Msg: "Store: offset out of range"}
			}
			frame.stack[idx] = v
			frame.ip++

		case bytecode.Copy:
			idx := len(frame.stack) - 1 - int(ins.Arg)
			if idx < 0 || idx >= len(frame.stack) {
				return Result{}, &RuntimeError{Msg: "Copy: offset out of range"}
			}
			frame.stack = append(frame.stack, frame.stack[idx].Clone())
			frame.ip++

		case bytecode.Dup:
			if len(frame.stack) == 0 {
				return Result{}, &RuntimeError{Msg: "Dup: stack underread"}
			}
			tos := frame.stack[len(frame.stack)-1]
			for i := 0; i < int(ins.Arg); i++ {
				frame.stack = append(frame.stack, tos.Clone())
			}
			frame.ip++

		case bytecode.Add, bytecode.Sub, bytecode.Mul, bytecode.Div, bytecode.Lt:
			rhs, rok := frame.popTail()
			lhs, lok := frame.popTail()
			if !rok || !lok {
				return Result{}, &RuntimeError{Msg: "arithmetic: stack underread"}
			}
			result, err := applyArith(ins.Op, lhs, rhs)
			if err != nil {
				return Result{}, &RuntimeError{Msg: err.Error()}
			}
			frame.stack = append(frame.stack, result)
			frame.ip++

		case bytecode.Pop:
			if int(ins.Arg) > len(frame.stack) {
				return Result{}, &RuntimeError{Msg: "Pop: stack underread"}
			}
			frame.stack = frame.stack[:len(frame.stack)-int(ins.Arg)]
			frame.ip++

		case bytecode.Jmp:
			frame.ip = int(ins.Arg)

		case bytecode.Jf:
			v, ok := frame.popTail()
			if !ok {
				return Result{}, &RuntimeError{Msg: "Jf: stack underread"}
			}
			if v.AsFloat() == 0.0 {
				frame.ip = int(ins.Arg)
			} else {
				frame.ip++
			}

		case bytecode.Call:
			if err := vm.dispatchCall(frame, int(ins.Arg)); err != nil {
				return Result{}, err
			}

		case bytecode.Ret:
			res, done, err := vm.dispatchRet(frame, int(ins.Arg))
			if err != nil {
				return Result{}, err
			}
			if done {
				return res, nil
			}

		case bytecode.Yield:
			idx := len(frame.stack) - 1 - int(ins.Arg)
			if idx < 0 || idx >= len(frame.stack) {
				return Result{}, &RuntimeError{Msg: "Yield: offset out of range"}
			}
			v := frame.stack[idx]
			frame.stack = append(frame.stack[:idx], frame.stack[idx+1:]...)
			frame.ip++
			return Result{Status: Suspended, Value: v}, nil

		default:
			return Result{}, &RuntimeError{Msg: fmt.Sprintf("unknown opcode %v", ins.Op)}
		}
	}
}

// popTail removes and returns the current tos, reporting false if the
// stack was already empty.
func (f *Frame) popTail() (value.Value, bool) {
	if len(f.stack) == 0 {
		return value.Value{}, false
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v, true
}

func applyArith(op bytecode.Opcode, lhs, rhs value.Value) (value.Value, error) {
	switch op {
	case bytecode.Add:
		return value.Add(lhs, rhs)
	case bytecode.Sub:
		return value.Sub(lhs, rhs)
	case bytecode.Mul:
		return value.Mul(lhs, rhs)
	case bytecode.Div:
		return value.Div(lhs, rhs)
	case bytecode.Lt:
		return value.Lt(lhs, rhs)
	default:
		return value.Value{}, fmt.Errorf("not an arithmetic opcode: %v", op)
	}
}

// dispatchCall resolves the callee sitting at from-top offset argc and
// either invokes a native synchronously or pushes a new frame for a user
// function (spec §4.5, "Call").
func (vm *VM) dispatchCall(frame *Frame, argc int) error {
	nameIdx := len(frame.stack) - 1 - argc
	if nameIdx < 0 {
		return &RuntimeError{Msg: "Call: stack underread"}
	}
	nameVal := frame.stack[nameIdx]
	if !nameVal.IsString() {
		return &RuntimeError{Msg: "Call: callee slot is not a string"}
	}
	name := nameVal.Str()
	args := append([]value.Value(nil), frame.stack[nameIdx+1:]...)

	if fn, ok := vm.prog[name]; ok {
		vm.frames = append(vm.frames, newFrame(fn, args))
		return nil
	}
	if native, ok := vm.natives[name]; ok {
		result := native(args)
		frame.stack = frame.stack[:nameIdx]
		frame.stack = append(frame.stack, result)
		frame.ip++
		return nil
	}
	return &RuntimeError{Msg: fmt.Sprintf("Call: unknown function %q", name)}
}

// dispatchRet reads the return value at the given from-top offset, pops
// the current frame, and either finishes the program or hands the value
// back to the caller frame, discarding its name+args slots (spec §4.5,
// "Ret").
func (vm *VM) dispatchRet(frame *Frame, offset int) (Result, bool, error) {
	idx := len(frame.stack) - 1 - offset
	if idx < 0 || idx >= len(frame.stack) {
		return Result{}, false, &RuntimeError{Msg: "Ret: offset out of range"}
	}
	retVal := frame.stack[idx]
	vm.frames = vm.frames[:len(vm.frames)-1]

	if len(vm.frames) == 0 {
		return Result{Status: Finished, Value: retVal}, true, nil
	}

	caller := vm.frames[len(vm.frames)-1]
	discard := frame.fn.NumArgs() + 1
	if discard > len(caller.stack) {
		return Result{}, false, &RuntimeError{Msg: "Ret: caller stack underread"}
	}
	caller.stack = caller.stack[:len(caller.stack)-discard]
	caller.stack = append(caller.stack, retVal)
	caller.ip++
	return Result{}, false, nil
}
