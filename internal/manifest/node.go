package manifest

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	strTag = "!!str"
	intTag = "!!int"
)

// lookup returns the value node for key in a mapping node, or nil.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return resolveAlias(mapping.Content[i+1])
		}
	}
	return nil
}

// resolveAlias follows alias nodes to the node they reference.
func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// setString sets key to a string scalar, keeping an explicit quote style
// from the template. Missing keys are inserted at pos (pair index, -1 appends).
func setString(mapping *yaml.Node, key, value string, pos int) {
	n := valueNode(mapping, key, pos)
	style := n.Style & (yaml.SingleQuotedStyle | yaml.DoubleQuotedStyle)
	if n.Kind != yaml.ScalarNode || n.Tag != strTag {
		style = 0
	}
	setScalar(n, strTag, value, style)
}

// setUint sets key to a plain integer scalar.
func setUint(mapping *yaml.Node, key string, value uint64, pos int) {
	setScalar(valueNode(mapping, key, pos), intTag, strconv.FormatUint(value, 10), 0)
}

func setScalar(n *yaml.Node, tag, value string, style yaml.Style) {
	n.Kind = yaml.ScalarNode
	n.Tag = tag
	n.Value = value
	n.Style = style
	n.Content = nil
	n.Alias = nil
}

// valueNode returns the value node for key, inserting an empty pair when
// the key is missing. Aliased values are detached so the anchor target is
// left alone.
func valueNode(mapping *yaml.Node, key string, pos int) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != key {
			continue
		}
		if mapping.Content[i+1].Kind == yaml.AliasNode {
			mapping.Content[i+1] = &yaml.Node{}
		}
		return mapping.Content[i+1]
	}

	k := &yaml.Node{Kind: yaml.ScalarNode, Tag: strTag, Value: key}
	v := &yaml.Node{}
	idx := len(mapping.Content)
	if pos >= 0 && pos*2 < len(mapping.Content) {
		idx = pos * 2
	}
	content := make([]*yaml.Node, 0, len(mapping.Content)+2)
	content = append(content, mapping.Content[:idx]...)
	content = append(content, k, v)
	content = append(content, mapping.Content[idx:]...)
	mapping.Content = content
	return v
}

// ownedValue returns the value node for key, replacing an alias value with a
// copy of its target so edits stay local to mapping.
func ownedValue(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value != key {
			continue
		}
		if v := mapping.Content[i+1]; v.Kind == yaml.AliasNode {
			mapping.Content[i+1] = copyNode(resolveAlias(v), nil)
		}
		return mapping.Content[i+1]
	}
	return nil
}

// ownItems replaces alias items of a sequence with copies of their targets.
func ownItems(seq *yaml.Node) {
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return
	}
	for i, item := range seq.Content {
		if item.Kind == yaml.AliasNode {
			seq.Content[i] = copyNode(resolveAlias(item), nil)
		}
	}
}

// detach makes sub safe to edit: every alias in root that refers to an
// anchor inside sub is replaced by a copy of the anchored node as it is now.
func detach(root, sub *yaml.Node) {
	anchors := make(map[*yaml.Node]bool)
	collectAnchors(sub, anchors)
	if len(anchors) == 0 {
		return
	}
	expandAliases(root, anchors)
}

func collectAnchors(n *yaml.Node, anchors map[*yaml.Node]bool) {
	if n == nil || n.Kind == yaml.AliasNode {
		return
	}
	if n.Anchor != "" {
		anchors[n] = true
	}
	for _, c := range n.Content {
		collectAnchors(c, anchors)
	}
}

func expandAliases(n *yaml.Node, targets map[*yaml.Node]bool) {
	if n == nil {
		return
	}
	for i, c := range n.Content {
		if c.Kind == yaml.AliasNode && targets[c.Alias] {
			n.Content[i] = copyNode(c.Alias, targets)
			continue
		}
		expandAliases(c, targets)
	}
}

// copyNode deep-copies n without anchors. Aliases to nodes in expand are
// copied too; other aliases are kept.
func copyNode(n *yaml.Node, expand map[*yaml.Node]bool) *yaml.Node {
	if n.Kind == yaml.AliasNode && expand[n.Alias] {
		return copyNode(n.Alias, expand)
	}
	cp := *n
	cp.Anchor = ""
	if len(n.Content) > 0 {
		cp.Content = make([]*yaml.Node, len(n.Content))
		for i, c := range n.Content {
			cp.Content[i] = copyNode(c, expand)
		}
	}
	return &cp
}

// sequence returns the items of a sequence value, or nil.
func sequence(n *yaml.Node) []*yaml.Node {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	items := make([]*yaml.Node, 0, len(n.Content))
	for _, item := range n.Content {
		items = append(items, resolveAlias(item))
	}
	return items
}
