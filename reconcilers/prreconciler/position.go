/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package prreconciler

import (
	"fmt"

	"github.com/waigani/diffparser"
)

// positionIndex maps (path, new-file line) pairs to unified diff positions,
// which is what the review API anchors comments to.
type positionIndex map[string]map[int]int

// indexDiff parses a unified diff and builds the position index.
func indexDiff(rawDiff string) (positionIndex, error) {
	diff, err := diffparser.Parse(rawDiff)
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	idx := positionIndex{}
	for _, file := range diff.Files {
		if file.NewName == "" {
			continue
		}
		lines := map[int]int{}
		for _, hunk := range file.Hunks {
			for _, line := range hunk.WholeRange.Lines {
				if line.Mode == diffparser.REMOVED {
					continue
				}
				lines[line.Number] = line.Position
			}
		}
		idx[file.NewName] = lines
	}
	return idx, nil
}

// Position resolves a new-file line to its diff position. The second return
// is false when the line is not part of the diff.
func (idx positionIndex) Position(path string, line int) (int, bool) {
	lines, ok := idx[path]
	if !ok {
		return 0, false
	}
	pos, ok := lines[line]
	return pos, ok
}
