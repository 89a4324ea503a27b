// Package fixture describes basic blocks as plain data so they can be
// loaded from CUE files (CLI) and YAML scenarios (harness) alike.
//
// A fixture names each instruction and refers to operands symbolically:
// "%x" is a prior instruction's result, "@P" an opaque incoming value,
// and a bare integer a constant. Dependence edges beyond the implied
// def-use flow are listed explicitly.
package fixture

import (
	"fmt"

	"github.com/roach88/slpvec/internal/deps"
	"github.com/roach88/slpvec/internal/ir"
)

// Fixture is a block description plus extra dependence edges.
type Fixture struct {
	Name  string `json:"name" yaml:"name"`
	Insts []Inst `json:"insts" yaml:"insts"`
	Deps  []Dep  `json:"deps,omitempty" yaml:"deps,omitempty"`
}

// Inst describes one instruction.
//
// Ops and their fields:
//   - read:  elem, object, index (or indices)
//   - write: elem, value, object, index (or indices)
//   - alloc: elem, length
//   - add, mul: args (two operands)
type Inst struct {
	Name string `json:"name" yaml:"name"`
	Op   string `json:"op" yaml:"op"`
	Elem string `json:"elem,omitempty" yaml:"elem,omitempty"`

	Object  any   `json:"object,omitempty" yaml:"object,omitempty"`
	Index   any   `json:"index,omitempty" yaml:"index,omitempty"`
	Indices []any `json:"indices,omitempty" yaml:"indices,omitempty"`
	Value   any   `json:"value,omitempty" yaml:"value,omitempty"`
	Length  any   `json:"length,omitempty" yaml:"length,omitempty"`
	Args    []any `json:"args,omitempty" yaml:"args,omitempty"`
}

// Dep describes one extra dependence edge.
type Dep struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Kind string `json:"kind" yaml:"kind"`
}

// Build materializes the fixture: the IR block plus a dependence graph
// holding the def-use flow and the fixture's extra edges.
func (f *Fixture) Build() (*ir.Block, *deps.Graph, error) {
	name := f.Name
	if name == "" {
		name = "entry"
	}
	b := ir.NewBuilder(ir.NewBlock(name))

	insts := make(map[string]*ir.Inst)
	params := make(map[string]*ir.Param)

	resolve := func(v any) (ir.Value, error) {
		switch val := v.(type) {
		case string:
			if val == "" {
				return nil, fmt.Errorf("empty operand reference")
			}
			switch val[0] {
			case '%':
				inst, ok := insts[val]
				if !ok {
					return nil, fmt.Errorf("undefined instruction %q", val)
				}
				return inst, nil
			case '@':
				pname := val[1:]
				p, ok := params[pname]
				if !ok {
					p = b.Param(pname)
					params[pname] = p
				}
				return p, nil
			default:
				return nil, fmt.Errorf("operand %q must start with %%, @, or be an integer", val)
			}
		case int:
			return b.Const(int64(val)), nil
		case int64:
			return b.Const(val), nil
		case uint64:
			return b.Const(int64(val)), nil
		case float64:
			if val != float64(int64(val)) {
				return nil, fmt.Errorf("operand %v is not an integer", val)
			}
			return b.Const(int64(val)), nil
		default:
			return nil, fmt.Errorf("unsupported operand %v (%T)", v, v)
		}
	}

	resolveAll := func(vs []any) ([]ir.Value, error) {
		out := make([]ir.Value, len(vs))
		for i, v := range vs {
			val, err := resolve(v)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	}

	for i, in := range f.Insts {
		if in.Name == "" {
			return nil, nil, fmt.Errorf("inst %d: missing name", i)
		}
		if _, dup := insts[in.Name]; dup {
			return nil, nil, fmt.Errorf("inst %d: duplicate name %q", i, in.Name)
		}

		indices := in.Indices
		if indices == nil && in.Index != nil {
			indices = []any{in.Index}
		}

		var inst *ir.Inst
		switch in.Op {
		case "read":
			elem, err := parseElem(in.Elem)
			if err != nil {
				return nil, nil, fmt.Errorf("inst %s: %w", in.Name, err)
			}
			obj, err := resolve(in.Object)
			if err != nil {
				return nil, nil, fmt.Errorf("inst %s: object: %w", in.Name, err)
			}
			idx, err := resolveAll(indices)
			if err != nil {
				return nil, nil, fmt.Errorf("inst %s: index: %w", in.Name, err)
			}
			if len(idx) == 0 {
				return nil, nil, fmt.Errorf("inst %s: read needs an index", in.Name)
			}
			inst = b.ReadND(in.Name, elem, obj, idx...)
		case "write":
			elem, err := parseElem(in.Elem)
			if err != nil {
				return nil, nil, fmt.Errorf("inst %s: %w", in.Name, err)
			}
			val, err := resolve(in.Value)
			if err != nil {
				return nil, nil, fmt.Errorf("inst %s: value: %w", in.Name, err)
			}
			obj, err := resolve(in.Object)
			if err != nil {
				return nil, nil, fmt.Errorf("inst %s: object: %w", in.Name, err)
			}
			idx, err := resolveAll(indices)
			if err != nil {
				return nil, nil, fmt.Errorf("inst %s: index: %w", in.Name, err)
			}
			if len(idx) != 1 {
				return nil, nil, fmt.Errorf("inst %s: write needs exactly one index", in.Name)
			}
			inst = b.Write(in.Name, elem, val, obj, idx[0])
		case "alloc":
			elem, err := parseElem(in.Elem)
			if err != nil {
				return nil, nil, fmt.Errorf("inst %s: %w", in.Name, err)
			}
			length, err := resolve(in.Length)
			if err != nil {
				return nil, nil, fmt.Errorf("inst %s: length: %w", in.Name, err)
			}
			inst = b.SeqAlloc(in.Name, elem, length)
		case "add", "mul":
			if len(in.Args) != 2 {
				return nil, nil, fmt.Errorf("inst %s: %s needs two args", in.Name, in.Op)
			}
			args, err := resolveAll(in.Args)
			if err != nil {
				return nil, nil, fmt.Errorf("inst %s: %w", in.Name, err)
			}
			if in.Op == "add" {
				inst = b.Add(in.Name, args[0], args[1])
			} else {
				inst = b.Mul(in.Name, args[0], args[1])
			}
		default:
			return nil, nil, fmt.Errorf("inst %s: unknown op %q", in.Name, in.Op)
		}

		insts[in.Name] = inst
	}

	graph := deps.FromFlow(b.Block())
	for i, d := range f.Deps {
		from, ok := insts[d.From]
		if !ok {
			return nil, nil, fmt.Errorf("dep %d: unknown instruction %q", i, d.From)
		}
		to, ok := insts[d.To]
		if !ok {
			return nil, nil, fmt.Errorf("dep %d: unknown instruction %q", i, d.To)
		}
		kind, err := parseDepKind(d.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("dep %d: %w", i, err)
		}
		graph.AddEdge(from, to, kind)
	}

	return b.Block(), graph, nil
}

func parseElem(s string) (ir.ElemType, error) {
	switch s {
	case "u32":
		return ir.U32, nil
	case "u64":
		return ir.U64, nil
	case "f32":
		return ir.F32, nil
	case "f64":
		return ir.F64, nil
	case "":
		return 0, fmt.Errorf("missing elem type")
	default:
		return 0, fmt.Errorf("unknown elem type %q", s)
	}
}

func parseDepKind(s string) (deps.Kind, error) {
	switch s {
	case "data":
		return deps.Data, nil
	case "control":
		return deps.Control, nil
	case "memory":
		return deps.Memory, nil
	default:
		return 0, fmt.Errorf("unknown dependence kind %q", s)
	}
}
