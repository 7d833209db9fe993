package image

import (
	"fmt"

	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/symbol"
)

// maxDepth bounds value nesting so self-containing hash tables and vectors
// fail instead of recursing forever.
const maxDepth = 512

// NodeKind tags the payload of a Node.
type NodeKind uint8

const (
	KindSymbol     NodeKind = iota + 1 // interned symbol, by ID
	KindUninterned                     // symbol outside the obarray, by name
	KindList                           // Items, then Tail when dotted
	KindInt
	KindFloat
	KindStr
	KindVector
	KindHash // Items alternate key, value
)

// Node is the wire form of a runtime value. Lists are stored flat, so a
// long list does not nest. Shared structure is not preserved: a cell
// reachable twice decodes as two cells.
type Node struct {
	Kind  NodeKind `cbor:"1,keyasint"`
	ID    uint32   `cbor:"2,keyasint,omitempty"`
	Int   int64    `cbor:"3,keyasint,omitempty"`
	Float float64  `cbor:"4,keyasint,omitempty"`
	Str   string   `cbor:"5,keyasint,omitempty"`
	Items []Node   `cbor:"6,keyasint,omitempty"`
	Tail  *Node    `cbor:"7,keyasint,omitempty"`
}

// Encode converts v to a Node. Symbols resident in t are stored by ID.
func Encode(t *symbol.Table, v lisp.Value) (Node, error) {
	return encode(t, v, 0)
}

func encode(t *symbol.Table, v lisp.Value, depth int) (Node, error) {
	if depth > maxDepth {
		return Node{}, fmt.Errorf("image: value nesting exceeds %d", maxDepth)
	}
	depth++

	switch x := v.(type) {
	case nil:
		return Node{Kind: KindSymbol, ID: uint32(symbol.NilID)}, nil
	case *symbol.Symbol:
		if t.Contains(x) {
			return Node{Kind: KindSymbol, ID: uint32(x.ID())}, nil
		}
		return Node{Kind: KindUninterned, Str: x.Name()}, nil
	case lisp.Int:
		return Node{Kind: KindInt, Int: int64(x)}, nil
	case lisp.Float:
		return Node{Kind: KindFloat, Float: float64(x)}, nil
	case lisp.Str:
		return Node{Kind: KindStr, Str: string(x)}, nil
	case lisp.Vector:
		n := Node{Kind: KindVector, Items: make([]Node, len(x))}
		for i, e := range x {
			var err error
			if n.Items[i], err = encode(t, e, depth); err != nil {
				return Node{}, err
			}
		}
		return n, nil
	case *lisp.HashTable:
		n := Node{Kind: KindHash}
		var err error
		x.Range(func(k, val lisp.Value) bool {
			var kn, vn Node
			if kn, err = encode(t, k, depth); err != nil {
				return false
			}
			if vn, err = encode(t, val, depth); err != nil {
				return false
			}
			n.Items = append(n.Items, kn, vn)
			return true
		})
		return n, err
	case *lisp.View:
		return encode(t, x.Seq(), depth-1)
	case *lisp.Cons:
		return encodeList(t, x, depth)
	}
	return Node{}, fmt.Errorf("image: cannot encode value of type %T", v)
}

func encodeList(t *symbol.Table, c *lisp.Cons, depth int) (Node, error) {
	n := Node{Kind: KindList}
	var cur lisp.Value = c
	for {
		cell, ok := cur.(*lisp.Cons)
		if !ok {
			break
		}
		item, err := encode(t, cell.Car, depth)
		if err != nil {
			return Node{}, err
		}
		n.Items = append(n.Items, item)
		cur = cell.Cdr
		if view, ok := cur.(*lisp.View); ok {
			cur = view.Seq()
		}
	}
	if !lisp.IsNil(cur) {
		tail, err := encode(t, cur, depth)
		if err != nil {
			return Node{}, err
		}
		n.Tail = &tail
	}
	return n, nil
}

// Decode converts n back to a runtime value, resolving symbol IDs in t.
func Decode(t *symbol.Table, n Node) (lisp.Value, error) {
	switch n.Kind {
	case KindSymbol:
		s, ok := t.Symbol(symbol.ID(n.ID))
		if !ok {
			return nil, fmt.Errorf("image: unknown symbol id %d", n.ID)
		}
		return s, nil
	case KindUninterned:
		return symbol.Make(n.Str), nil
	case KindInt:
		return lisp.Int(n.Int), nil
	case KindFloat:
		return lisp.Float(n.Float), nil
	case KindStr:
		return lisp.Str(n.Str), nil
	case KindVector:
		vec := make(lisp.Vector, len(n.Items))
		for i, item := range n.Items {
			var err error
			if vec[i], err = Decode(t, item); err != nil {
				return nil, err
			}
		}
		return vec, nil
	case KindHash:
		if len(n.Items)%2 != 0 {
			return nil, fmt.Errorf("image: odd hash table entry count %d", len(n.Items))
		}
		h := lisp.NewHashTable()
		for i := 0; i < len(n.Items); i += 2 {
			k, err := Decode(t, n.Items[i])
			if err != nil {
				return nil, err
			}
			v, err := Decode(t, n.Items[i+1])
			if err != nil {
				return nil, err
			}
			if err := h.Put(k, v); err != nil {
				return nil, err
			}
		}
		return h, nil
	case KindList:
		items := make([]lisp.Value, len(n.Items), len(n.Items)+1)
		for i, item := range n.Items {
			var err error
			if items[i], err = Decode(t, item); err != nil {
				return nil, err
			}
		}
		if n.Tail == nil {
			return lisp.List(items...), nil
		}
		tail, err := Decode(t, *n.Tail)
		if err != nil {
			return nil, err
		}
		return lisp.ListStar(append(items, tail)...), nil
	}
	return nil, fmt.Errorf("image: unknown node kind %d", n.Kind)
}
