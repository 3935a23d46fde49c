package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"tablegen/internal/diagnostic"
)

// YAML core schema tags.
const (
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagStr   = "!!str"
	tagBool  = "!!bool"
	tagNull  = "!!null"
)

// maxAliasDepth bounds alias expansion so recursive anchors cannot loop.
const maxAliasDepth = 64

// LoadFile reads and decodes the source unit at path.
func LoadFile(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source unit %s: %w", path, err)
	}

	return Parse(path, data)
}

// Parse decodes one source unit. Only the first YAML document is used.
func Parse(origin string, data []byte) (*Unit, error) {
	var doc yaml.Node

	err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return nil, diagnostic.Newf(diagnostic.KindStructural, "source unit is empty").From(origin)
	}

	if err != nil {
		return nil, diagnostic.Newf(diagnostic.KindStructural, "decoding: %v", err).From(origin)
	}

	root, err := convert(&doc, 0)
	if err != nil {
		var e *diagnostic.Error
		if errors.As(err, &e) {
			return nil, e.From(origin)
		}

		return nil, err
	}

	return &Unit{Origin: origin, Root: root}, nil
}

// convert turns a yaml.Node into a Value.
func convert(n *yaml.Node, depth int) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nodeErrorf(n, "source unit is empty")
		}

		return convert(n.Content[0], depth)
	case yaml.AliasNode:
		if depth >= maxAliasDepth || n.Alias == nil {
			return nil, nodeErrorf(n, "alias %q nests too deeply", n.Value)
		}

		return convert(n.Alias, depth+1)
	case yaml.ScalarNode:
		return convertScalar(n)
	case yaml.SequenceNode:
		list := make(List, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := convert(c, depth)
			if err != nil {
				return nil, err
			}

			list = append(list, v)
		}

		return list, nil
	case yaml.MappingNode:
		return convertMap(n, depth)
	default:
		return nil, nodeErrorf(n, "unexpected node kind %d", n.Kind)
	}
}

func convertMap(n *yaml.Node, depth int) (*Map, error) {
	m := &Map{Members: make([]Member, 0, len(n.Content)/2)}
	seen := make(map[string]struct{}, len(n.Content)/2)

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, nodeErrorf(k, "map keys must be scalars")
		}

		if _, dup := seen[k.Value]; dup {
			return nil, nodeErrorf(k, "duplicate key %q", k.Value)
		}

		seen[k.Value] = struct{}{}

		val, err := convert(v, depth)
		if err != nil {
			return nil, err
		}

		m.Members = append(m.Members, Member{Key: k.Value, Value: val})
	}

	return m, nil
}

func convertScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case tagStr:
		return String(n.Value), nil
	case tagInt:
		var i int64
		if err := n.Decode(&i); err != nil {
			// Out of int64 range; inference rejects it as an unknown kind.
			return Unsupported{Tag: n.ShortTag(), Text: n.Value}, nil
		}

		return Int(i), nil
	case tagFloat:
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, nodeErrorf(n, "invalid float %q", n.Value)
		}

		return Float(f), nil
	case tagBool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, nodeErrorf(n, "invalid bool %q", n.Value)
		}

		return Bool(b), nil
	case tagNull:
		return Null{}, nil
	default:
		return Unsupported{Tag: n.ShortTag(), Text: n.Value}, nil
	}
}

func nodeErrorf(n *yaml.Node, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if n.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", n.Line, msg)
	}

	return diagnostic.Newf(diagnostic.KindStructural, "%s", msg)
}
