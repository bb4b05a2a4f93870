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

package subset_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/tile/idx"
	"github.com/gx-org/tile/subset"
)

func buildSpace(t *testing.T, extents ...int64) *subset.SpaceOp {
	t.Helper()
	op, err := subset.NewSpace(nil, idx.Consts(extents...))
	if err != nil {
		t.Fatalf("cannot define space: %v", err)
	}
	return op
}

func buildTile(t *testing.T, sup subset.TileSet, offsets, sizes, strides idx.List) *subset.TileOp {
	t.Helper()
	op, err := subset.NewTile(nil, sup, offsets, sizes, strides)
	if err != nil {
		t.Fatalf("cannot define tile: %v", err)
	}
	return op
}

func TestTypeCompatibility(t *testing.T) {
	tests := []struct {
		x, y       subset.Type
		equal      bool
		assignable bool
	}{
		{
			x:          &subset.TileType{Shape: []int64{4, 8}},
			y:          &subset.TileType{Shape: []int64{4, 8}},
			equal:      true,
			assignable: true,
		},
		{
			x:          &subset.TileType{Shape: []int64{4, 8}},
			y:          &subset.TileType{Shape: []int64{4, idx.Dynamic}},
			equal:      false,
			assignable: true,
		},
		{
			x:          &subset.TileType{Shape: []int64{idx.Dynamic}},
			y:          &subset.TileType{Shape: []int64{7}},
			equal:      false,
			assignable: true,
		},
		{
			x:          &subset.TileType{Shape: []int64{4, 8}},
			y:          &subset.TileType{Shape: []int64{4}},
			equal:      false,
			assignable: false,
		},
		{
			x:          &subset.TileType{Shape: []int64{4, 8}},
			y:          &subset.TileType{Shape: []int64{4, 6}},
			equal:      false,
			assignable: false,
		},
		{
			x:          &subset.TileType{Shape: []int64{4}},
			y:          &subset.PointType{},
			equal:      false,
			assignable: false,
		},
		{
			x:          &subset.PointType{},
			y:          &subset.PointType{},
			equal:      true,
			assignable: true,
		},
	}
	for ti, test := range tests {
		if got := test.x.Equal(test.y); got != test.equal {
			t.Errorf("test %d: %s.Equal(%s)=%v but want %v", ti, test.x, test.y, got, test.equal)
		}
		if got := test.x.AssignableTo(test.y); got != test.assignable {
			t.Errorf("test %d: %s.AssignableTo(%s)=%v but want %v", ti, test.x, test.y, got, test.assignable)
		}
	}
}

func TestRank(t *testing.T) {
	space := buildSpace(t, 6, 8, 10)
	tile := buildTile(t, space, idx.Consts(0, 0, 0), idx.Consts(2, 4, 5), idx.Consts(1, 1, 1))
	if got := subset.Rank(tile); got != 3 {
		t.Errorf("got rank %d but want 3", got)
	}
	collapse, err := subset.NewCollapse(nil, tile, []int64{2, 0})
	if err != nil {
		t.Fatalf("cannot collapse tile: %v", err)
	}
	if got := subset.Rank(collapse); got != 2 {
		t.Errorf("got rank %d but want 2", got)
	}
	if got := collapse.Type().String(); got != "tile<5x2>" {
		t.Errorf("got type %s but want tile<5x2>", got)
	}
	transpose, err := subset.NewTranspose(nil, tile, []int64{1, 2, 0})
	if err != nil {
		t.Fatalf("cannot transpose tile: %v", err)
	}
	if got := subset.Rank(transpose); got != 3 {
		t.Errorf("got rank %d but want 3", got)
	}
	if got := transpose.Type().String(); got != "tile<4x5x2>" {
		t.Errorf("got type %s but want tile<4x5x2>", got)
	}
	point, err := subset.NewPoint(nil, tile, idx.Consts(1, 1, 1))
	if err != nil {
		t.Fatalf("cannot define point: %v", err)
	}
	if got := subset.Rank(point); got != 3 {
		t.Errorf("got rank %d but want 3", got)
	}
	if got := point.Type().String(); got != "point" {
		t.Errorf("got type %s but want point", got)
	}
}

func TestOpString(t *testing.T) {
	n := idx.NewParam("n")
	space := buildSpace(t, 8, 8)
	tile := buildTile(t, space, idx.Consts(2, 2), idx.Consts(4, 4), idx.Consts(1, 1))
	if got, want := tile.String(), "tile[2,2][4,4][1,1] of space[8,8]"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
	point, err := subset.NewPoint(nil, tile, idx.Consts(1, 3))
	if err != nil {
		t.Fatalf("cannot define point: %v", err)
	}
	if got, want := point.String(), "point[1,3] of tile[2,2][4,4][1,1] of space[8,8]"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
	dyn, err := subset.NewSpace(nil, idx.Exprs(idx.NewConst(8), n))
	if err != nil {
		t.Fatalf("cannot define space: %v", err)
	}
	if got, want := dyn.String(), "space[8,n]"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
	if got, want := dyn.Type().String(), "tile<8x?>"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
	collapse, err := subset.NewCollapse(nil, space, []int64{1})
	if err != nil {
		t.Fatalf("cannot collapse space: %v", err)
	}
	if got, want := collapse.String(), "collapse[1] of space[8,8]"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
	transpose, err := subset.NewTranspose(nil, space, []int64{1, 0})
	if err != nil {
		t.Fatalf("cannot transpose space: %v", err)
	}
	if got, want := transpose.String(), "transpose[1,0] of space[8,8]"; got != want {
		t.Errorf("got %s but want %s", got, want)
	}
}

func TestParams(t *testing.T) {
	n := idx.NewParam("n")
	i := idx.NewParam("i")
	space, err := subset.NewSpace(nil, idx.Exprs(idx.NewConst(8), n))
	if err != nil {
		t.Fatalf("cannot define space: %v", err)
	}
	tile, err := subset.NewTile(nil, space,
		idx.Exprs(i, idx.NewConst(0)),
		idx.Consts(2, 2),
		idx.Consts(1, 1),
	)
	if err != nil {
		t.Fatalf("cannot define tile: %v", err)
	}
	got := subset.Params(tile)
	want := []*idx.Param{i, n}
	if len(got) != len(want) {
		t.Fatalf("got %d parameters but want %d", len(got), len(want))
	}
	for pi, p := range got {
		if p != want[pi] {
			t.Errorf("parameter %d: got %s but want %s", pi, p, want[pi])
		}
	}
}

func TestDynamics(t *testing.T) {
	n := idx.NewParam("n")
	i := idx.NewParam("i")
	space := buildSpace(t, 8, 8)
	tile, err := subset.NewTile(nil, space,
		idx.Exprs(i, idx.NewConst(0)),
		idx.Exprs(idx.NewConst(2), n),
		idx.Consts(1, 1),
	)
	if err != nil {
		t.Fatalf("cannot define tile: %v", err)
	}
	got := subset.Dynamics(tile)
	want := []idx.Expr{i, n}
	if !cmp.Equal(got, want) {
		t.Errorf("got %v but want %v", got, want)
	}
	if got := subset.Dynamics(space); len(got) > 0 {
		t.Errorf("got %v but want no dynamic expression", got)
	}
}
