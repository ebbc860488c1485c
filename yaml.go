package jsondoc

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cybergodev/jsondoc/internal"
	"gopkg.in/yaml.v3"
)

// ToYAML renders v as a YAML document. Mapping keys follow the object's
// iteration order.
func ToYAML(v Value) ([]byte, error) {
	out, err := yaml.Marshal(yamlNode(v))
	if err != nil {
		return nil, &JsonsError{
			Op:      "to_yaml",
			Message: "YAML encoding failed",
			Err:     fmt.Errorf("%w: %v", ErrOperationFailed, err),
		}
	}
	return out, nil
}

func yamlNode(v Value) *yaml.Node {
	scalar := func(tag, text string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
	}

	switch v.t {
	case TypeBool:
		return scalar("!!bool", strconv.FormatBool(v.n != 0))
	case TypeInt64:
		return scalar("!!int", strconv.FormatInt(int64(v.n), 10))
	case TypeUint64:
		return scalar("!!int", strconv.FormatUint(v.n, 10))
	case TypeDouble:
		switch {
		case math.IsNaN(v.f):
			return scalar("!!float", ".nan")
		case math.IsInf(v.f, 1):
			return scalar("!!float", ".inf")
		case math.IsInf(v.f, -1):
			return scalar("!!float", "-.inf")
		}
		return scalar("!!float", string(internal.AppendFloat(nil, v.f)))
	case TypeString:
		return scalar("!!str", v.s.String())
	case TypeArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.a.All() {
			n.Content = append(n.Content, yamlNode(item))
		}
		return n
	case TypeObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for key, item := range v.o.All() {
			n.Content = append(n.Content, scalar("!!str", key), yamlNode(item))
		}
		return n
	}
	return scalar("!!null", "null")
}

// FromYAML converts a YAML document to a Value. Anchors and aliases are
// expanded; timestamps and binary scalars become strings.
func FromYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, &JsonsError{
			Op:      "from_yaml",
			Message: "YAML decoding failed",
			Err:     fmt.Errorf("%w: %v", ErrInvalidJSON, err),
		}
	}
	if len(doc.Content) == 0 {
		return Value{}, nil
	}
	return fromYAMLNode(doc.Content[0], 0)
}

func fromYAMLNode(n *yaml.Node, depth int) (Value, error) {
	if depth > internal.DefaultMaxObjectDepth+internal.DefaultMaxArrayDepth {
		return Value{}, newOperationError("from_yaml", "", "YAML nesting too deep", ErrDepthLimit)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Value{}, nil
		}
		return fromYAMLNode(n.Content[0], depth)
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias, depth+1)
	case yaml.SequenceNode:
		var a Array
		for _, c := range n.Content {
			item, err := fromYAMLNode(c, depth+1)
			if err != nil {
				a.Release()
				return Value{}, err
			}
			a.adopt(item)
		}
		return containerValue(a), nil
	case yaml.MappingNode:
		var o Object
		for i := 0; i+1 < len(n.Content); i += 2 {
			item, err := fromYAMLNode(n.Content[i+1], depth+1)
			if err != nil {
				o.Release()
				return Value{}, err
			}
			o.adopt(n.Content[i].Value, item)
		}
		return objectValue(o), nil
	}
	return yamlScalar(n)
}

func yamlScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Value{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, yamlScalarError(n, err)
		}
		return NewBool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return NewInt(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return NewUint(u), nil
		}
		fallthrough
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, yamlScalarError(n, err)
		}
		return NewDouble(f), nil
	}
	return NewString(n.Value), nil
}

func yamlScalarError(n *yaml.Node, err error) error {
	return &JsonsError{
		Op:      "from_yaml",
		Path:    fmt.Sprintf("line %d", n.Line),
		Message: fmt.Sprintf("bad %s scalar %q", n.ShortTag(), n.Value),
		Err:     fmt.Errorf("%w: %v", ErrTypeMismatch, err),
	}
}
