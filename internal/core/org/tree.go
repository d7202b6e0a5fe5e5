package org

import (
	"sort"
	"strings"
)

// findPosition は部門のフォレストを深さ優先で探索し、見つかったノードと
// その兄弟スライスへのポインタ、スライス内の位置を返します。
func findPosition(d *Department, positionID string) (*Position, *[]*Position, int) {
	return searchPositions(&d.Positions, positionID)
}

func searchPositions(siblings *[]*Position, positionID string) (*Position, *[]*Position, int) {
	for i, pos := range *siblings {
		if pos.ID == positionID {
			return pos, siblings, i
		}
		if found, parent, idx := searchPositions(&pos.SubPositions, positionID); found != nil {
			return found, parent, idx
		}
	}
	return nil, nil, -1
}

// siblingNameTaken は同じ兄弟集合に大文字小文字を無視して同名のノードが
// あるかを調べます。selfID は改名時に自分自身を除外するために使います。
func siblingNameTaken(siblings []*Position, name, selfID string) bool {
	for _, pos := range siblings {
		if pos.ID != selfID && strings.EqualFold(pos.Name, name) {
			return true
		}
	}
	return false
}

// sortSiblings は兄弟スライスを名前順に並べ替えます。
func sortSiblings(siblings []*Position) {
	sort.Slice(siblings, func(i, j int) bool {
		return strings.ToLower(siblings[i].Name) < strings.ToLower(siblings[j].Name)
	})
}

// flattenPositions は深さ優先・前順でフォレストを平坦化します。毎回
// 再計算され、キャッシュされません。
func flattenPositions(positions []*Position, level int, out []FlatPosition) []FlatPosition {
	for _, pos := range positions {
		out = append(out, FlatPosition{ID: pos.ID, Name: pos.Name, Level: level})
		out = flattenPositions(pos.SubPositions, level+1, out)
	}
	return out
}
