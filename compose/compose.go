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

// Package compose rewrites chains of subset operations into single
// operations defined directly against a root space.
//
// A tile of a tile is a tile of the common superset: its offsets and
// strides can be computed from the two operations. The same holds for
// the other operations: Step rewrites one operation given the operation
// defining its superset, and Root applies Step through a whole chain of
// supersets. A collapse or a transpose of a root space becomes a new
// root space with the selected or reordered extents, so Root returns
// either a space, or a tile or a point whose superset is a space.
//
// Composition builds new operations and never modifies the operations
// it composes. Index arithmetic stays constant wherever every operand
// is known at build time and becomes an expression computed at runtime
// otherwise.
package compose

import (
	"go/ast"

	"github.com/gx-org/tile/fmterr"
	"github.com/gx-org/tile/idx"
	"github.com/gx-org/tile/subset"
	"github.com/pkg/errors"
)

// Step composes op with the operation defining its superset and returns
// an equivalent operation defined against the superset of that
// operation. It returns op and false when the pair does not compose.
// This is not an error: a composition toward the root may only become
// possible once the superset itself has been rewritten, which is what
// Root takes care of.
func Step(op subset.Op) (subset.Op, bool, error) {
	var composed subset.Op
	var err error
	switch opT := op.(type) {
	case *subset.SpaceOp:
		return op, false, nil
	case *subset.TileOp:
		composed, err = stepTile(opT)
	case *subset.PointOp:
		composed, err = stepPoint(opT)
	case *subset.CollapseOp:
		composed, err = stepCollapse(opT)
	case *subset.TransposeOp:
		composed, err = stepTranspose(opT)
	default:
		return nil, false, fmterr.Internalf(nil, op.Source(), "cannot compose %T: not a subset operation", op)
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "cannot compose %s", op)
	}
	if composed == nil {
		return op, false, nil
	}
	// A composition replaces the operation it composes: both must
	// define a subset of the same type.
	if !composed.Type().Equal(op.Type()) {
		return nil, false, fmterr.Internalf(nil, op.Source(), "cannot compose %s: composed type %s does not match %s", op, composed.Type(), op.Type())
	}
	return composed, true, nil
}

// Root rewrites op into an equivalent operation defined directly
// against a root space, composing the whole chain of its supersets.
// It composes op with its immediate superset as long as the pair
// composes, then rewrites the superset itself and tries again. It
// returns op unchanged if the chain is already in that form.
func Root(op subset.Op) (subset.Op, error) {
	if op == nil {
		return nil, fmterr.Internalf(nil, nil, "cannot compose a nil operation")
	}
	for {
		composed, changed, err := Step(op)
		if err != nil {
			return nil, err
		}
		if changed {
			op = composed
			continue
		}
		sup := op.Superset()
		if sup == nil {
			return op, nil
		}
		rootedSup, err := Root(sup)
		if err != nil {
			return nil, err
		}
		if rootedSup == sup {
			return op, nil
		}
		if op, err = reattach(op, rootedSup); err != nil {
			return nil, err
		}
	}
}

// reattach returns op defined over a new superset. The new superset
// must define a subset of the same type as the current one.
func reattach(op, sup subset.Op) (subset.Op, error) {
	if opT, ok := op.(*subset.PointOp); ok {
		return subset.NewPoint(opT.Src, sup, opT.Indices)
	}
	tile, ok := sup.(subset.TileSet)
	if !ok {
		return nil, fmterr.Internalf(nil, op.Source(), "cannot define %T over %T: not a tile", op, sup)
	}
	switch opT := op.(type) {
	case *subset.TileOp:
		return subset.NewTile(opT.Src, tile, opT.Offsets, opT.Sizes, opT.Strides)
	case *subset.CollapseOp:
		return subset.NewCollapse(opT.Src, tile, opT.RemainingDims)
	case *subset.TransposeOp:
		return subset.NewTranspose(opT.Src, tile, opT.Permutation)
	}
	return nil, fmterr.Internalf(nil, op.Source(), "cannot change the superset of %T", op)
}

// gatherList returns the expressions of list at the given dimensions.
func gatherList(list idx.List, dims []int64) idx.List {
	r := make(idx.List, len(dims))
	for i, dim := range dims {
		r[i] = list[dim]
	}
	return r
}

// selectDims maps each dimension of at to the dimension it selects in
// the superset of from.
func selectDims(from, at []int64) []int64 {
	r := make([]int64, len(at))
	for i, dim := range at {
		r[i] = from[dim]
	}
	return r
}

// isIdentity reports whether dims keeps all the dimensions of a subset
// of rank len(dims) in their original order.
func isIdentity(dims []int64, rank int) bool {
	if len(dims) != rank {
		return false
	}
	for i, dim := range dims {
		if dim != int64(i) {
			return false
		}
	}
	return true
}

// narrowTile keeps the offsets, sizes, and strides of a tile at the
// given dimensions and defines the tile over inner, which applies the
// same selection to the superset of the tile.
func narrowTile(src ast.Node, sup *subset.TileOp, dims []int64, inner subset.TileSet) (subset.Op, error) {
	return subset.NewTile(src, inner,
		gatherList(sup.Offsets, dims),
		gatherList(sup.Sizes, dims),
		gatherList(sup.Strides, dims),
	)
}

// stepTile composes a tile of a tile. In each dimension, with O, S the
// offset and stride of the superset and o, z, s the offset, size, and
// stride of op, the composed tile is:
//
//	offset = O + o*S
//	stride = S * s
//	size   = z
//
// The size is unchanged: composing narrows where the tile starts and
// how it steps, not how many indices it takes.
func stepTile(op *subset.TileOp) (subset.Op, error) {
	sup, ok := op.Sup.(*subset.TileOp)
	if !ok {
		return nil, nil
	}
	offsets := make(idx.List, len(op.Offsets))
	strides := make(idx.List, len(op.Strides))
	for i := range offsets {
		offsets[i] = idx.Add(sup.Offsets[i], idx.Mul(op.Offsets[i], sup.Strides[i]))
		strides[i] = idx.Mul(sup.Strides[i], op.Strides[i])
	}
	return subset.NewTile(op.Src, sup.Sup, offsets, op.Sizes, strides)
}

// stepPoint composes a point with the operation defining its superset.
// A point of a tile with offsets o and strides s selects, in each
// dimension, index o+i*s of the superset of the tile. A point of a
// point adds its indices, and a point of a transpose indexes the
// dimensions of the superset of the transpose in their original order.
func stepPoint(op *subset.PointOp) (subset.Op, error) {
	switch sup := op.Sup.(type) {
	case *subset.TileOp:
		indices := make(idx.List, len(op.Indices))
		for i := range indices {
			indices[i] = idx.Add(sup.Offsets[i], idx.Mul(op.Indices[i], sup.Strides[i]))
		}
		return subset.NewPoint(op.Src, sup.Sup, indices)
	case *subset.PointOp:
		indices := make(idx.List, len(op.Indices))
		for i := range indices {
			indices[i] = idx.Add(sup.Indices[i], op.Indices[i])
		}
		return subset.NewPoint(op.Src, sup.Sup, indices)
	case *subset.TransposeOp:
		// Dimension i of the point indexes dimension Permutation[i]
		// of the superset of the transpose.
		indices := make(idx.List, len(op.Indices))
		for i, dim := range sup.Permutation {
			indices[dim] = op.Indices[i]
		}
		return subset.NewPoint(op.Src, sup.Sup, indices)
	}
	return nil, nil
}

// stepCollapse composes a collapse with the operation defining its
// superset. A collapse of a root space is a new root space with the
// remaining extents. A collapse of a tile keeps the tile geometry of
// the remaining dimensions and collapses the superset of the tile,
// which moves the collapse one operation closer to the root. Two
// dimension selections compose by indexing one with the other.
func stepCollapse(op *subset.CollapseOp) (subset.Op, error) {
	if isIdentity(op.RemainingDims, subset.Rank(op.Sup)) {
		return op.Sup, nil
	}
	switch sup := op.Sup.(type) {
	case *subset.SpaceOp:
		return subset.NewSpace(op.Src, gatherList(sup.Extents, op.RemainingDims))
	case *subset.TileOp:
		inner, err := subset.NewCollapse(op.Src, sup.Sup, op.RemainingDims)
		if err != nil {
			return nil, err
		}
		return narrowTile(op.Src, sup, op.RemainingDims, inner)
	case *subset.CollapseOp:
		return subset.NewCollapse(op.Src, sup.Sup, selectDims(sup.RemainingDims, op.RemainingDims))
	case *subset.TransposeOp:
		return subset.NewCollapse(op.Src, sup.Sup, selectDims(sup.Permutation, op.RemainingDims))
	}
	return nil, nil
}

// stepTranspose composes a transpose with the operation defining its
// superset. A transpose of a root space is a new root space with the
// reordered extents. A transpose of a tile reorders the tile geometry
// and transposes the superset of the tile, which moves the transpose
// one operation closer to the root. A transpose of a transpose
// composes the permutations, and a transpose of a collapse reorders
// the remaining dimensions of the collapse.
func stepTranspose(op *subset.TransposeOp) (subset.Op, error) {
	if isIdentity(op.Permutation, subset.Rank(op.Sup)) {
		return op.Sup, nil
	}
	switch sup := op.Sup.(type) {
	case *subset.SpaceOp:
		return subset.NewSpace(op.Src, gatherList(sup.Extents, op.Permutation))
	case *subset.TileOp:
		inner, err := subset.NewTranspose(op.Src, sup.Sup, op.Permutation)
		if err != nil {
			return nil, err
		}
		return narrowTile(op.Src, sup, op.Permutation, inner)
	case *subset.TransposeOp:
		return subset.NewTranspose(op.Src, sup.Sup, selectDims(sup.Permutation, op.Permutation))
	case *subset.CollapseOp:
		return subset.NewCollapse(op.Src, sup.Sup, selectDims(sup.RemainingDims, op.Permutation))
	}
	return nil, nil
}
