package defs

import "fmt"

// Node is one element of a trigger event's structure tree: either a concrete
// segment reference or a named group of child nodes. Trees are built once
// per trigger event and never mutated, so they can be interpreted
// concurrently.
type Node struct {
	SegmentCode   string
	GroupName     string
	Optionality   Optionality
	Repeatability string
	Children      []*Node
}

// IsGroup reports whether the node is a group rather than a segment.
func (n *Node) IsGroup() bool {
	return n.SegmentCode == ""
}

// Required reports whether the node's optionality tag is R.
func (n *Node) Required() bool {
	return n.Optionality == Required
}

// Repeats reports whether the node may occur more than once.
func (n *Node) Repeats() bool {
	return repeats(n.Repeatability)
}

// Name returns the segment code or, for groups, the group name.
func (n *Node) Name() string {
	if n.IsGroup() {
		return n.GroupName
	}
	return n.SegmentCode
}

// BuildTree converts the trigger event's flat, level-annotated entry list
// into a node tree. A group entry adopts every following entry one level
// deeper until the level drops back; a group that ends up with no children
// is a definition error, surfaced here rather than silently skipped.
func BuildTree(ev *TriggerEvent) ([]*Node, error) {
	var roots []*Node
	// stack[i] is the open group at level i waiting for children.
	var stack []*Node

	for _, entry := range ev.Segments {
		node := &Node{
			SegmentCode:   entry.SegmentCode,
			GroupName:     entry.GroupName,
			Optionality:   entry.Optionality,
			Repeatability: entry.Repeatability,
		}

		if entry.Level < 0 || entry.Level > len(stack) {
			return nil, fmt.Errorf("defs: trigger event %s: entry %q at level %d has no parent group", ev.Code, node.Name(), entry.Level)
		}
		stack = stack[:entry.Level]

		if entry.Level == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[entry.Level-1]
			parent.Children = append(parent.Children, node)
		}

		if node.IsGroup() {
			if node.GroupName == "" {
				return nil, fmt.Errorf("defs: trigger event %s: unnamed group entry", ev.Code)
			}
			stack = append(stack, node)
		}
	}

	if err := checkGroups(ev.Code, roots); err != nil {
		return nil, err
	}
	return roots, nil
}

func checkGroups(eventCode string, nodes []*Node) error {
	for _, n := range nodes {
		if n.IsGroup() {
			if len(n.Children) == 0 {
				return fmt.Errorf("defs: trigger event %s: group %q has no children", eventCode, n.GroupName)
			}
			if err := checkGroups(eventCode, n.Children); err != nil {
				return err
			}
		}
	}
	return nil
}
