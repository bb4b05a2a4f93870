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

// Package subset declares operations defining subsets of multi-dimensional
// index spaces.
//
// A root index space is introduced by Space. Every other operation takes
// the subset defined by another operation, its superset, and defines a
// narrower or reshaped subset of it: Tile selects an axis-aligned region
// given offsets, sizes, and strides, Point selects a single coordinate,
// Collapse keeps some of the dimensions, and Transpose reorders them.
// Operations are verified when they are built: an operation that does not
// verify is never returned to the caller.
//
// Operations are immutable. Rewrites replace an operation with a new one
// instead of editing it (see package compose).
package subset

import (
	"fmt"
	"go/ast"

	"github.com/gx-org/tile/base/iter"
	"github.com/gx-org/tile/idx"
)

type (
	// Node is a node defining or typing a subset of an index space.
	Node interface {
		// node ensures that only types defined in this package
		// implement the interface.
		node()
	}

	// Type is the type of the value computed by a subset operation.
	Type interface {
		Node
		fmt.Stringer
		// Equal reports whether two types are the same.
		Equal(typ Type) bool
		// AssignableTo reports whether a value of the type can be
		// used where a value of type typ is expected.
		AssignableTo(typ Type) bool
	}

	// Op is an operation defining a subset of an index space.
	Op interface {
		Node
		// Source returns the node in the source code the operation
		// originates from. It is nil for operations built
		// programmatically.
		Source() ast.Node
		// Type of the subset the operation defines.
		Type() Type
		// Superset returns the operation defining the subset this
		// operation narrows. It is nil for a root space.
		Superset() Op
	}

	// TileSet is an operation defining a tile.
	TileSet interface {
		Op
		// TileType returns the type of the tile.
		TileType() *TileType
	}
)

// Rank returns the number of dimensions of the subset defined by an
// operation. A point has the rank of the coordinate it selects.
func Rank(op Op) int {
	switch opT := op.(type) {
	case *SpaceOp:
		return len(opT.Extents)
	case *TileOp:
		return len(opT.Sizes)
	case *PointOp:
		return len(opT.Indices)
	case *CollapseOp:
		return len(opT.RemainingDims)
	case *TransposeOp:
		return len(opT.Permutation)
	}
	return 0
}

func appendExprs(dst []idx.Expr, op Op) []idx.Expr {
	switch opT := op.(type) {
	case *SpaceOp:
		return append(dst, opT.Extents...)
	case *TileOp:
		for x := range iter.All(opT.Offsets, opT.Sizes, opT.Strides) {
			dst = append(dst, x)
		}
		return dst
	case *PointOp:
		return append(dst, opT.Indices...)
	}
	return dst
}

func isDynamic(x idx.Expr) bool {
	_, ok := idx.ConstOf(x)
	return !ok
}

// Dynamics returns the expressions of the operation whose value is only
// known at runtime, in the order in which the encoded form of the
// operation lists them.
func Dynamics(op Op) []idx.Expr {
	var r []idx.Expr
	for x := range iter.Filter(isDynamic, appendExprs(nil, op)) {
		r = append(r, x)
	}
	return r
}

// Params returns all the runtime parameters the subset depends on,
// through all of its supersets, in first-use order and with no
// duplicate.
func Params(op Op) []*idx.Param {
	var all []idx.Expr
	for cur := op; cur != nil; cur = cur.Superset() {
		all = appendExprs(all, cur)
	}
	return idx.Params(all...)
}
