/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package engine

import (
	"github.com/000alen/nfasim/automaton"
)

// DefaultTreeLimit bounds Tree when no positive limit is given.
var DefaultTreeLimit = 1000000

// TreeSize summarizes a computation tree.
type TreeSize struct {
	Nodes     int  `json:"nodes"`
	Truncated bool `json:"truncated,omitempty"`
}

type treeNode struct {
	state automaton.StateID
	pos   int
}

// Tree counts the nodes in the computation tree that a naive
// backtracking matcher would explore for the input.
//
// Unlike NFA.Exec, branches aren't merged when they reach the same
// state at the same position, so the tree grows much faster than the
// active set.  Every followed transition is a node, and the root is a
// node.  An epsilon transition stays at the same position.  Once the
// input is consumed, a node's epsilon and wildcard children are still
// counted, but they aren't explored any further.
//
// Since epsilon cycles make the tree infinite, the count stops at the
// limit (DefaultTreeLimit if limit isn't positive) and the result is
// marked Truncated.
func Tree(a *automaton.Automaton, input string, limit int) TreeSize {
	if limit <= 0 {
		limit = DefaultTreeLimit
	}

	rs := []rune(input)
	size := TreeSize{
		Nodes: 1,
	}

	queue := []treeNode{{state: a.Start()}}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		end := len(rs) <= n.pos
		for _, t := range a.Transitions(n.state) {
			child := treeNode{
				state: t.To,
				pos:   n.pos,
			}
			switch {
			case t.Label.IsEpsilon():
			case t.Label.IsWildcard():
				child.pos++
			case !end && t.Label.Matches(rs[n.pos]):
				child.pos++
			default:
				continue
			}
			if limit <= size.Nodes {
				size.Truncated = true
				return size
			}
			size.Nodes++
			if !end {
				queue = append(queue, child)
			}
		}
	}

	return size
}
