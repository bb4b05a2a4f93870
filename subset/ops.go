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
	"fmt"
	"go/ast"
	"strconv"

	"github.com/gx-org/tile/base/stringseq"
	"github.com/gx-org/tile/fmterr"
	"github.com/gx-org/tile/idx"
	"github.com/pkg/errors"
)

type (
	// SpaceOp introduces a root index space. Extents gives the number
	// of valid indices in each dimension.
	SpaceOp struct {
		Src     ast.Node
		Extents idx.List
		Typ     *TileType
	}

	// TileOp defines an axis-aligned region of its superset. In each
	// dimension, the region starts at Offsets, takes Sizes indices,
	// and steps over Strides indices of the superset between two of
	// its own indices.
	TileOp struct {
		Src     ast.Node
		Sup     TileSet
		Offsets idx.List
		Sizes   idx.List
		Strides idx.List
		Typ     *TileType
	}

	// PointOp selects a single coordinate of its superset.
	PointOp struct {
		Src     ast.Node
		Sup     Op
		Indices idx.List
		Typ     *PointType
	}

	// CollapseOp narrows its superset to some of its dimensions.
	// RemainingDims lists, in result order, the superset dimensions
	// the result keeps.
	CollapseOp struct {
		Src           ast.Node
		Sup           TileSet
		RemainingDims []int64
		Typ           *TileType
	}

	// TransposeOp reorders the dimensions of its superset.
	// Permutation maps each result dimension to the superset dimension
	// it reads.
	TransposeOp struct {
		Src         ast.Node
		Sup         TileSet
		Permutation []int64
		Typ         *TileType
	}
)

var (
	_ TileSet = (*SpaceOp)(nil)
	_ TileSet = (*TileOp)(nil)
	_ Op      = (*PointOp)(nil)
	_ TileSet = (*CollapseOp)(nil)
	_ TileSet = (*TransposeOp)(nil)
)

// gatherShape returns the extents of shape at the given dimensions.
func gatherShape(shape []int64, dims []int64) []int64 {
	r := make([]int64, len(dims))
	for i, dim := range dims {
		if dim < 0 || dim >= int64(len(shape)) {
			// Reported by the verifier.
			r[i] = idx.Dynamic
			continue
		}
		r[i] = shape[dim]
	}
	return r
}

// supShape returns the static extents of a superset.
// The verifier reports a missing superset.
func supShape(sup TileSet) []int64 {
	if sup == nil {
		return nil
	}
	return sup.TileType().Shape
}

// typeString returns the type of an operation for an error message.
func typeString(op Op) string {
	if op == nil {
		return "?"
	}
	return op.Type().String()
}

func position(src ast.Node, err error) error {
	if err == nil {
		return nil
	}
	return fmterr.Position(nil, src, err)
}

// NewSpace returns an operation introducing a root index space with the
// given extents. An extent is either a non-negative constant or an
// expression computed at runtime.
func NewSpace(src ast.Node, extents idx.List) (*SpaceOp, error) {
	op := &SpaceOp{
		Src:     src,
		Extents: extents,
		Typ:     &TileType{Shape: extents.Statics()},
	}
	if err := Verify(op); err != nil {
		return nil, position(src, errors.Wrap(err, "cannot define space"))
	}
	return op, nil
}

// NewTile returns an operation defining an axis-aligned region of sup.
// The three lists have one entry per dimension of sup. The region must
// fit in sup in every dimension where the verifier can check it at
// build time.
func NewTile(src ast.Node, sup TileSet, offsets, sizes, strides idx.List) (*TileOp, error) {
	op := &TileOp{
		Src:     src,
		Sup:     sup,
		Offsets: offsets,
		Sizes:   sizes,
		Strides: strides,
		Typ:     &TileType{Shape: sizes.Statics()},
	}
	if err := Verify(op); err != nil {
		return nil, position(src, errors.Wrapf(err, "cannot define tile of %s", typeString(sup)))
	}
	return op, nil
}

// NewPoint returns an operation selecting a single coordinate of sup,
// which defines either a tile or a point. A constant index must be
// within the extent of its dimension when that extent is known at
// build time.
func NewPoint(src ast.Node, sup Op, indices idx.List) (*PointOp, error) {
	op := &PointOp{
		Src:     src,
		Sup:     sup,
		Indices: indices,
		Typ:     &PointType{},
	}
	if err := Verify(op); err != nil {
		return nil, position(src, errors.Wrapf(err, "cannot define point of %s", typeString(sup)))
	}
	return op, nil
}

// NewCollapse returns an operation narrowing sup to the dimensions
// listed in remainingDims, in the given order. The dimensions must be
// distinct and within the rank of sup.
func NewCollapse(src ast.Node, sup TileSet, remainingDims []int64) (*CollapseOp, error) {
	op := &CollapseOp{
		Src:           src,
		Sup:           sup,
		RemainingDims: remainingDims,
		Typ:           &TileType{Shape: gatherShape(supShape(sup), remainingDims)},
	}
	if err := Verify(op); err != nil {
		return nil, position(src, errors.Wrapf(err, "cannot collapse %s", typeString(sup)))
	}
	return op, nil
}

// NewTranspose returns an operation reordering the dimensions of sup:
// dimension i of the result is dimension permutation[i] of sup. The
// permutation must be a bijection over the dimensions of sup.
func NewTranspose(src ast.Node, sup TileSet, permutation []int64) (*TransposeOp, error) {
	op := &TransposeOp{
		Src:         src,
		Sup:         sup,
		Permutation: permutation,
		Typ:         &TileType{Shape: gatherShape(supShape(sup), permutation)},
	}
	if err := Verify(op); err != nil {
		return nil, position(src, errors.Wrapf(err, "cannot transpose %s", typeString(sup)))
	}
	return op, nil
}

// dimSeq yields the decimal form of each dimension, with "?" for
// dimensions only known at runtime.
func dimSeq(dims []int64) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		for _, dim := range dims {
			s := "?"
			if dim != idx.Dynamic {
				s = strconv.FormatInt(dim, 10)
			}
			if !yield(s) {
				return
			}
		}
	}
}

func dimString(dims []int64) string {
	return "[" + stringseq.Join(dimSeq(dims), ",") + "]"
}

func (op *SpaceOp) node() {}

// Source returns the node in the source code the operation originates from.
func (op *SpaceOp) Source() ast.Node { return op.Src }

// Type of the subset the operation defines.
func (op *SpaceOp) Type() Type { return op.Typ }

// TileType returns the type of the tile.
func (op *SpaceOp) TileType() *TileType { return op.Typ }

// Superset returns nil: a space is a root.
func (op *SpaceOp) Superset() Op { return nil }

func (op *SpaceOp) String() string {
	return "space" + op.Extents.String()
}

func (op *TileOp) node() {}

// Source returns the node in the source code the operation originates from.
func (op *TileOp) Source() ast.Node { return op.Src }

// Type of the subset the operation defines.
func (op *TileOp) Type() Type { return op.Typ }

// TileType returns the type of the tile.
func (op *TileOp) TileType() *TileType { return op.Typ }

// Superset returns the operation defining the tiled subset.
func (op *TileOp) Superset() Op { return op.Sup }

func (op *TileOp) String() string {
	return fmt.Sprintf("tile%s%s%s of %s", op.Offsets, op.Sizes, op.Strides, op.Sup)
}

func (op *PointOp) node() {}

// Source returns the node in the source code the operation originates from.
func (op *PointOp) Source() ast.Node { return op.Src }

// Type of the subset the operation defines.
func (op *PointOp) Type() Type { return op.Typ }

// Superset returns the operation defining the subset the point belongs to.
func (op *PointOp) Superset() Op { return op.Sup }

func (op *PointOp) String() string {
	return fmt.Sprintf("point%s of %s", op.Indices, op.Sup)
}

func (op *CollapseOp) node() {}

// Source returns the node in the source code the operation originates from.
func (op *CollapseOp) Source() ast.Node { return op.Src }

// Type of the subset the operation defines.
func (op *CollapseOp) Type() Type { return op.Typ }

// TileType returns the type of the tile.
func (op *CollapseOp) TileType() *TileType { return op.Typ }

// Superset returns the operation defining the collapsed subset.
func (op *CollapseOp) Superset() Op { return op.Sup }

func (op *CollapseOp) String() string {
	return fmt.Sprintf("collapse%s of %s", dimString(op.RemainingDims), op.Sup)
}

func (op *TransposeOp) node() {}

// Source returns the node in the source code the operation originates from.
func (op *TransposeOp) Source() ast.Node { return op.Src }

// Type of the subset the operation defines.
func (op *TransposeOp) Type() Type { return op.Typ }

// TileType returns the type of the tile.
func (op *TransposeOp) TileType() *TileType { return op.Typ }

// Superset returns the operation defining the transposed subset.
func (op *TransposeOp) Superset() Op { return op.Sup }

func (op *TransposeOp) String() string {
	return fmt.Sprintf("transpose%s of %s", dimString(op.Permutation), op.Sup)
}
