package translate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Tree is a JSON document. It is implemented only by Leaf, Scalar, Node and
// List, so type switches over it are exhaustive.
type Tree interface {
	isTree()
}

// Leaf is a JSON string.
type Leaf string

// Scalar is any non-string JSON scalar: json.Number, bool or nil.
type Scalar struct {
	Value any
}

// Field is one key of a Node.
type Field struct {
	Key   string
	Value Tree
}

// Node is a JSON object with its key order preserved.
type Node []Field

// List is a JSON array.
type List []Tree

func (Leaf) isTree()   {}
func (Scalar) isTree() {}
func (Node) isTree()   {}
func (List) isTree()   {}

// Get returns the value of key, or nil.
func (n Node) Get(key string) Tree {
	for _, f := range n {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value)
}

func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range n {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalTree(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (l List) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		val, err := marshalTree(item)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalTree(t Tree) ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	return json.Marshal(t)
}

// ParseJSON decodes data into a Tree, keeping object key order and number
// literals.
func ParseJSON(data []byte) (Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	t, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return t, nil
}

func parseValue(dec *json.Decoder) (Tree, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			node := Node{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				node = append(node, Field{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		case '[':
			list := List{}
			for dec.More() {
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		return Leaf(v), nil
	default:
		return Scalar{Value: v}, nil
	}
}

// FromValue converts a value through its JSON encoding into a Tree.
func FromValue(v any) (Tree, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

// Into decodes t into out through its JSON encoding.
func Into(t Tree, out any) error {
	data, err := marshalTree(t)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
