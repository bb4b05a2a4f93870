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

// Package materialise converts subset operations into backend array
// shapes.
//
// A code generator allocating a buffer for the elements selected by a
// subset operation needs the full shape of that buffer at build time.
// Materialising is where dynamic sizes stop being acceptable: an
// operation can carry sizes computed at runtime through verification
// and composition, but it cannot become an array until every one of
// its dimensions has a static size.
package materialise

import (
	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
	"github.com/gx-org/tile/fmterr"
	"github.com/gx-org/tile/idx"
	"github.com/gx-org/tile/subset"
)

// Shape returns the shape of the array holding the elements selected
// by a subset operation. A point selects a single element and
// materialises as a scalar. A tile materialises with the axis lengths
// of its type, which must all be known at build time: an error names
// the first dimension whose size is computed at runtime.
func Shape(op subset.Op, dt dtype.DataType) (*shape.Shape, error) {
	switch opT := op.(type) {
	case *subset.PointOp:
		return &shape.Shape{DType: dt}, nil
	case subset.TileSet:
		dims := opT.TileType().Shape
		axes := make([]int, len(dims))
		for i, dim := range dims {
			if dim == idx.Dynamic {
				return nil, fmterr.Errorf(nil, op.Source(), "cannot materialise %s: the size of dimension %d is not known at build time", op, i)
			}
			axes[i] = int(dim)
		}
		return &shape.Shape{DType: dt, AxisLengths: axes}, nil
	}
	return nil, fmterr.Internalf(nil, op.Source(), "cannot materialise %T: not a subset operation", op)
}

// Shapes materialises a slice of operations into a slice of shapes.
func Shapes(ops []subset.Op, dt dtype.DataType) ([]*shape.Shape, error) {
	shapes := make([]*shape.Shape, len(ops))
	for i, op := range ops {
		var err error
		if shapes[i], err = Shape(op, dt); err != nil {
			return nil, err
		}
	}
	return shapes, nil
}
