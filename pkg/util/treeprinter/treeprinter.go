// Copyright 2024 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package treeprinter renders trees of text nodes with box-drawing
// connectors, in the form used by optimizer test output:
//
//	kudu-scan t
//	 ├── columns: a:1 b:2
//	 └── partitions
//	      └── 1
package treeprinter

import (
	"fmt"
	"strings"
)

const (
	edgeMid  = "├── "
	edgeLast = "└── "
	vertical = "│    "
	blank    = "     "
)

type node struct {
	text     string
	children []*node
}

// Node is a handle to a node in the tree. The zero value is not usable; call
// New to get the root.
type Node struct {
	n *node
}

// New creates a tree printer and returns the sentinel root node. The root
// itself is not printed; its children are the top-level nodes.
func New() Node {
	return Node{n: &node{}}
}

// Child adds a node as a child of the given node.
func (n Node) Child(text string) Node {
	c := &node{text: text}
	n.n.children = append(n.n.children, c)
	return Node{n: c}
}

// Childf adds a node as a child of the given node.
func (n Node) Childf(format string, args ...interface{}) Node {
	return n.Child(fmt.Sprintf(format, args...))
}

// String returns the tree as a string, one node per line.
func (n Node) String() string {
	var buf strings.Builder
	for _, c := range n.n.children {
		buf.WriteString(c.text)
		buf.WriteByte('\n')
		format(&buf, c, " ")
	}
	return buf.String()
}

func format(buf *strings.Builder, n *node, prefix string) {
	for i, c := range n.children {
		last := i == len(n.children)-1
		buf.WriteString(prefix)
		if last {
			buf.WriteString(edgeLast)
		} else {
			buf.WriteString(edgeMid)
		}
		buf.WriteString(c.text)
		buf.WriteByte('\n')
		if last {
			format(buf, c, prefix+blank)
		} else {
			format(buf, c, prefix+vertical)
		}
	}
}
