package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// NodeKind tags a JSON tree node
type NodeKind int

const (
	KindNull NodeKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Node is a JSON value with object member order preserved. encoding/json's
// map decoding loses that order, and the first matching field wins during
// traversal.
type Node struct {
	Kind   NodeKind
	Str    string
	Number json.Number
	Bool   bool
	Items  []*Node
	Fields []Field
}

// Field is one object member
type Field struct {
	Key   string
	Value *Node
}

// ParseTree decodes data into a Node tree. Nesting deeper than maxDepth is
// an error.
func ParseTree(data []byte, maxDepth int) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := decodeNode(dec, 0, maxDepth)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return root, nil
}

func decodeNode(dec *json.Decoder, depth, maxDepth int) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case nil:
		return &Node{Kind: KindNull}, nil
	case bool:
		return &Node{Kind: KindBool, Bool: v}, nil
	case json.Number:
		return &Node{Kind: KindNumber, Number: v}, nil
	case string:
		return &Node{Kind: KindString, Str: v}, nil
	case json.Delim:
		if depth >= maxDepth {
			return nil, fmt.Errorf("json nesting exceeds depth %d", maxDepth)
		}
		switch v {
		case '[':
			n := &Node{Kind: KindArray}
			for dec.More() {
				item, err := decodeNode(dec, depth+1, maxDepth)
				if err != nil {
					return nil, err
				}
				n.Items = append(n.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		case '{':
			n := &Node{Kind: KindObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				value, err := decodeNode(dec, depth+1, maxDepth)
				if err != nil {
					return nil, err
				}
				n.Fields = append(n.Fields, Field{Key: key, Value: value})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return n, nil
		}
	}
	return nil, fmt.Errorf("unexpected json token %v", tok)
}

// Walk visits the tree depth-first in document order, calling visit with
// each node and the object key it sits under ("" for array items and the
// root). Walking stops when visit returns false or after maxVisits nodes.
// It reports whether the walk ran to completion.
func Walk(root *Node, maxVisits int, visit func(key string, n *Node) bool) bool {
	if root == nil {
		return true
	}

	type entry struct {
		key  string
		node *Node
	}
	stack := []entry{{node: root}}
	visited := 0

	for len(stack) > 0 {
		if visited >= maxVisits {
			return false
		}
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited++

		if !visit(e.key, e.node) {
			return false
		}

		switch e.node.Kind {
		case KindArray:
			for i := len(e.node.Items) - 1; i >= 0; i-- {
				stack = append(stack, entry{node: e.node.Items[i]})
			}
		case KindObject:
			for i := len(e.node.Fields) - 1; i >= 0; i-- {
				f := e.node.Fields[i]
				stack = append(stack, entry{key: f.Key, node: f.Value})
			}
		}
	}
	return true
}
