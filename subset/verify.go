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

	"github.com/gx-org/tile/fmterr"
	"github.com/gx-org/tile/idx"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
)

var (
	// ErrRankMismatch reports an index list whose length does not
	// match the rank it applies to.
	ErrRankMismatch = errors.New("rank mismatch")

	// ErrIndexOutOfBounds reports a constant index outside the extent
	// of the dimension it indexes.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrTileOutOfBounds reports a tile reaching outside the extent of
	// a dimension of its superset.
	ErrTileOutOfBounds = errors.New("tile out of bounds")

	// ErrInvalidSize reports a negative constant size or extent.
	ErrInvalidSize = errors.New("invalid size")

	// ErrInvalidStride reports a constant stride smaller than one.
	ErrInvalidStride = errors.New("invalid stride")

	// ErrInvalidPermutation reports a permutation that is not a
	// bijection over the dimensions of its superset.
	ErrInvalidPermutation = errors.New("invalid permutation")

	// ErrInvalidDimensionSelection reports remaining dimensions with
	// duplicate or out-of-range entries.
	ErrInvalidDimensionSelection = errors.New("invalid dimension selection")
)

// Verify checks the structural consistency of an operation: the rank of
// its index lists, its bounds where they are known at build time, and
// its recorded type. The superset of the operation must itself verify.
//
// Constructors call Verify before returning a new operation. A rewrite
// assembling operations directly must call it on what it builds.
func Verify(op Op) error {
	switch opT := op.(type) {
	case *SpaceOp:
		return verifySpace(opT)
	case *TileOp:
		return verifyTile(opT)
	case *PointOp:
		return verifyPoint(opT)
	case *CollapseOp:
		return verifyCollapse(opT)
	case *TransposeOp:
		return verifyTranspose(opT)
	}
	return fmterr.Internalf(nil, nil, "cannot verify %T: not a subset operation", op)
}

// shapeOf returns the static extents of the subset defined by op. A
// point accepts a single coordinate in every dimension.
func shapeOf(op Op) []int64 {
	if tile, ok := op.(TileSet); ok {
		return tile.TileType().Shape
	}
	ones := make([]int64, Rank(op))
	for i := range ones {
		ones[i] = 1
	}
	return ones
}

func constAt(list idx.List, i int) (int64, bool) {
	val, ok := idx.ConstOf(list[i])
	if !ok || val == idx.Dynamic {
		return 0, false
	}
	return val, true
}

func checkList(name string, list idx.List, rank int) error {
	if len(list) != rank {
		return errors.Wrapf(ErrRankMismatch, "%d %s for rank %d", len(list), name, rank)
	}
	var errs error
	for i, x := range list {
		if x == nil {
			errs = multierr.Append(errs, errors.Wrapf(idx.ErrMalformedIndexList, "%s: dimension %d has no expression", name, i))
		}
	}
	return errs
}

func checkTileType(op Op, typ *TileType, shape []int64) error {
	if typ == nil {
		return fmterr.Internalf(nil, op.Source(), "%T has no type", op)
	}
	if !slices.Equal(typ.Shape, shape) {
		return fmterr.Internalf(nil, op.Source(), "%T has type %s but its attributes define %s", op, typ, &TileType{Shape: shape})
	}
	return nil
}

func verifySpace(op *SpaceOp) error {
	if err := checkList("extents", op.Extents, len(op.Extents)); err != nil {
		return err
	}
	var errs error
	for i, ext := range op.Extents.Statics() {
		if ext != idx.Dynamic && ext < 0 {
			errs = multierr.Append(errs, errors.Wrapf(ErrInvalidSize, "dimension %d: extent %d is negative", i, ext))
		}
	}
	if errs != nil {
		return errs
	}
	return checkTileType(op, op.Typ, op.Extents.Statics())
}

func verifyTile(op *TileOp) error {
	if op.Sup == nil {
		return fmterr.Internalf(nil, op.Src, "%T has no superset", op)
	}
	rank := Rank(op.Sup)
	var errs error
	errs = multierr.Append(errs, checkList("offsets", op.Offsets, rank))
	errs = multierr.Append(errs, checkList("sizes", op.Sizes, rank))
	errs = multierr.Append(errs, checkList("strides", op.Strides, rank))
	if errs != nil {
		return errs
	}
	for i, extent := range shapeOf(op.Sup) {
		offset, offsetOk := constAt(op.Offsets, i)
		size, sizeOk := constAt(op.Sizes, i)
		stride, strideOk := constAt(op.Strides, i)
		if sizeOk && size < 0 {
			errs = multierr.Append(errs, errors.Wrapf(ErrInvalidSize, "dimension %d: size %d is negative", i, size))
		}
		if strideOk && stride < 1 {
			errs = multierr.Append(errs, errors.Wrapf(ErrInvalidStride, "dimension %d: stride %d is smaller than one", i, stride))
		}
		if offsetOk && offset < 0 {
			errs = multierr.Append(errs, errors.Wrapf(ErrTileOutOfBounds, "dimension %d: offset %d is negative", i, offset))
		}
		if !offsetOk || !sizeOk || !strideOk || extent == idx.Dynamic {
			continue
		}
		if offset < 0 || size < 0 || stride < 1 {
			continue
		}
		// An empty tile fits anywhere.
		if size == 0 {
			continue
		}
		if last := offset + (size-1)*stride; last >= extent {
			errs = multierr.Append(errs, errors.Wrapf(ErrTileOutOfBounds, "dimension %d: offset %d with size %d and stride %d reaches index %d in a dimension of extent %d", i, offset, size, stride, last, extent))
		}
	}
	if errs != nil {
		return errs
	}
	return checkTileType(op, op.Typ, op.Sizes.Statics())
}

func verifyPoint(op *PointOp) error {
	if op.Sup == nil {
		return fmterr.Internalf(nil, op.Src, "%T has no superset", op)
	}
	if err := checkList("indices", op.Indices, Rank(op.Sup)); err != nil {
		return err
	}
	var errs error
	for i, extent := range shapeOf(op.Sup) {
		index, ok := constAt(op.Indices, i)
		if !ok {
			continue
		}
		if index < 0 {
			errs = multierr.Append(errs, errors.Wrapf(ErrIndexOutOfBounds, "dimension %d: index %d is negative", i, index))
			continue
		}
		if extent != idx.Dynamic && index >= extent {
			errs = multierr.Append(errs, errors.Wrapf(ErrIndexOutOfBounds, "dimension %d: index %d is not in [0, %d)", i, index, extent))
		}
	}
	if errs != nil {
		return errs
	}
	if op.Typ == nil {
		return fmterr.Internalf(nil, op.Src, "%T has no type", op)
	}
	return nil
}

// checkDims checks that all dims are within rank and returns the
// dimensions appearing more than once.
func checkDims(errSentinel error, dims []int64, rank int) error {
	var errs error
	seen := make(map[int64]bool)
	dups := make(map[int64]bool)
	for i, dim := range dims {
		if dim < 0 || dim >= int64(rank) {
			errs = multierr.Append(errs, errors.Wrapf(errSentinel, "dimension %d: %d is not in [0, %d)", i, dim, rank))
			continue
		}
		if seen[dim] {
			dups[dim] = true
		}
		seen[dim] = true
	}
	if len(dups) > 0 {
		dupDims := maps.Keys(dups)
		slices.Sort(dupDims)
		errs = multierr.Append(errs, errors.Wrapf(errSentinel, "dimensions %v appear more than once", dupDims))
	}
	return errs
}

func verifyCollapse(op *CollapseOp) error {
	if op.Sup == nil {
		return fmterr.Internalf(nil, op.Src, "%T has no superset", op)
	}
	if errs := checkDims(ErrInvalidDimensionSelection, op.RemainingDims, Rank(op.Sup)); errs != nil {
		return errs
	}
	return checkTileType(op, op.Typ, gatherShape(op.Sup.TileType().Shape, op.RemainingDims))
}

func verifyTranspose(op *TransposeOp) error {
	if op.Sup == nil {
		return fmterr.Internalf(nil, op.Src, "%T has no superset", op)
	}
	rank := Rank(op.Sup)
	if len(op.Permutation) != rank {
		return errors.Wrapf(ErrInvalidPermutation, "%d dimensions in a permutation of rank %d", len(op.Permutation), rank)
	}
	if errs := checkDims(ErrInvalidPermutation, op.Permutation, rank); errs != nil {
		return errs
	}
	return checkTileType(op, op.Typ, gatherShape(op.Sup.TileType().Shape, op.Permutation))
}
