// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package subset

import (
	"slices"

	"github.com/gx-org/tile/base/stringseq"
	"github.com/gx-org/tile/idx"
)

type (
	// TileType is the type of an axis-aligned region of an index
	// space. Shape holds the extent of each dimension when it is known
	// at build time, and idx.Dynamic otherwise.
	TileType struct {
		Shape []int64
	}

	// PointType is the type of a single coordinate in a subset. The
	// rank of the coordinate comes from the operation defining it, not
	// from the type.
	PointType struct{}
)

var (
	_ Type = (*TileType)(nil)
	_ Type = (*PointType)(nil)
)

func (*TileType) node() {}

// Rank returns the number of dimensions of the tile.
func (t *TileType) Rank() int {
	return len(t.Shape)
}

// Equal reports whether two types are the same.
func (t *TileType) Equal(typ Type) bool {
	other, ok := typ.(*TileType)
	if !ok {
		return false
	}
	return slices.Equal(t.Shape, other.Shape)
}

// AssignableTo reports whether a value of the type can be used where a
// value of type typ is expected: the ranks are equal and each dimension
// extent matches unless either side is only known at runtime.
func (t *TileType) AssignableTo(typ Type) bool {
	other, ok := typ.(*TileType)
	if !ok {
		return false
	}
	if len(t.Shape) != len(other.Shape) {
		return false
	}
	for i, ext := range t.Shape {
		oExt := other.Shape[i]
		if ext == idx.Dynamic || oExt == idx.Dynamic {
			continue
		}
		if ext != oExt {
			return false
		}
	}
	return true
}

func (t *TileType) String() string {
	return "tile<" + stringseq.Join(dimSeq(t.Shape), "x") + ">"
}

func (*PointType) node() {}

// Equal reports whether two types are the same.
func (*PointType) Equal(typ Type) bool {
	_, ok := typ.(*PointType)
	return ok
}

// AssignableTo reports whether a value of the type can be used where a
// value of type typ is expected.
func (*PointType) AssignableTo(typ Type) bool {
	_, ok := typ.(*PointType)
	return ok
}

func (*PointType) String() string {
	return "point"
}
