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
	"errors"

	"github.com/000alen/nfasim/automaton"
)

// ComparisonPoint is one row of a Compare sweep.
type ComparisonPoint struct {
	Size          int  `json:"size"`
	NFASteps      int  `json:"nfaSteps"`
	DFASteps      int  `json:"dfaSteps"`
	TreeNodes     int  `json:"treeNodes"`
	TreeTruncated bool `json:"treeTruncated,omitempty"`
	Backtracking  int  `json:"backtracking"`
}

var BadSize = errors.New("comparison size must be at least 1")

// Compare runs both automata on the input rendered for each size from
// 1 to maxSize.
//
// The nfa Automaton is also used for the computation tree (see Tree),
// which is limited to treeLimit nodes per size.  Each point also has
// the Backtracking estimate for the input.
func Compare(nfa, dfa *automaton.Automaton, maxSize int, render func(size int) string, treeLimit int) ([]ComparisonPoint, error) {
	if maxSize < 1 {
		return nil, BadSize
	}

	d, err := NewDFA(dfa)
	if err != nil {
		return nil, err
	}
	n := NewNFA(nfa)

	acc := make([]ComparisonPoint, 0, maxSize)
	for size := 1; size <= maxSize; size++ {
		input := render(size)
		tree := Tree(nfa, input, treeLimit)
		acc = append(acc, ComparisonPoint{
			Size:          size,
			NFASteps:      n.Exec(input).Steps,
			DFASteps:      d.Exec(input).Steps,
			TreeNodes:     tree.Nodes,
			TreeTruncated: tree.Truncated,
			Backtracking:  Backtracking(input),
		})
	}

	return acc, nil
}
