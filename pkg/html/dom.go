package html

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// NodeID indexes a node in its Document.
type NodeID int

// NoParent is the parent of the root node.
const NoParent NodeID = -1

// Node is a text or element node. Children and Parent refer to nodes in the
// owning Document, so the tree has no pointer cycles.
type Node struct {
	Type     NodeType
	TagName  string
	Text     string
	Parent   NodeID
	Children []NodeID
}

// Document owns every node produced by one parse.
type Document struct {
	nodes []Node
	root  NodeID
}

func (d *Document) add(n Node) NodeID {
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

func (d *Document) appendChild(parent, child NodeID) {
	d.nodes[parent].Children = append(d.nodes[parent].Children, child)
}

// Root returns the top-level element.
func (d *Document) Root() NodeID {
	return d.root
}

// Node returns the node with the given id.
func (d *Document) Node(id NodeID) *Node {
	return &d.nodes[id]
}

func (d *Document) Children(id NodeID) []NodeID {
	return d.nodes[id].Children
}

func (d *Document) Parent(id NodeID) NodeID {
	return d.nodes[id].Parent
}

// Len returns the number of nodes in the document.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Dump writes an indented outline of the tree.
func (d *Document) Dump(w io.Writer) error {
	return d.dump(w, d.root, 0)
}

func (d *Document) dump(w io.Writer, id NodeID, indent int) error {
	n := d.Node(id)
	label := "<" + strconv.Quote(n.TagName) + ">"
	if n.Type == TextNode {
		label = strconv.Quote(n.Text)
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", indent), label); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := d.dump(w, child, indent+2); err != nil {
			return err
		}
	}
	return nil
}
