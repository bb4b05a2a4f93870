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

package idx_test

import (
	"testing"

	"github.com/gx-org/tile/idx"
)

func TestConstFold(t *testing.T) {
	i := idx.NewParam("i")
	tests := []struct {
		x    idx.Expr
		want string
	}{
		{x: idx.Add(idx.NewConst(2), idx.NewConst(3)), want: "5"},
		{x: idx.Sub(idx.NewConst(2), idx.NewConst(3)), want: "-1"},
		{x: idx.Mul(idx.NewConst(4), idx.NewConst(3)), want: "12"},
		{x: idx.Add(idx.NewConst(0), i), want: "i"},
		{x: idx.Add(i, idx.NewConst(0)), want: "i"},
		{x: idx.Sub(i, idx.NewConst(0)), want: "i"},
		{x: idx.Mul(idx.NewConst(1), i), want: "i"},
		{x: idx.Mul(i, idx.NewConst(1)), want: "i"},
		{x: idx.Mul(i, idx.NewConst(0)), want: "0"},
		{x: idx.Mul(idx.NewConst(0), i), want: "0"},
		{x: idx.Add(i, idx.NewConst(2)), want: "(i+2)"},
		{x: idx.Sub(idx.NewConst(2), i), want: "(2-i)"},
		{x: idx.Mul(idx.Add(i, idx.NewConst(2)), idx.NewConst(3)), want: "((i+2)*3)"},
	}
	for ti, test := range tests {
		got := test.x.String()
		if got != test.want {
			t.Errorf("test %d: got %s but want %s", ti, got, test.want)
		}
	}
}

func TestConstOf(t *testing.T) {
	if val, ok := idx.ConstOf(idx.NewConst(42)); !ok || val != 42 {
		t.Errorf("got %d,%v but want 42,true", val, ok)
	}
	if _, ok := idx.ConstOf(idx.NewParam("n")); ok {
		t.Errorf("a parameter cannot have a value at build time")
	}
	sum := idx.Add(idx.NewParam("n"), idx.NewConst(1))
	if _, ok := idx.ConstOf(sum); ok {
		t.Errorf("%s cannot have a value at build time", sum)
	}
}

func TestParams(t *testing.T) {
	i := idx.NewParam("i")
	j := idx.NewParam("j")
	x := idx.Add(idx.Mul(i, idx.NewConst(2)), j)
	y := idx.Sub(j, i)
	got := idx.Params(x, y, idx.NewConst(4))
	want := []*idx.Param{i, j}
	if len(got) != len(want) {
		t.Fatalf("got %d parameters but want %d", len(got), len(want))
	}
	for pi, p := range got {
		if p != want[pi] {
			t.Errorf("parameter %d: got %s but want %s", pi, p, want[pi])
		}
	}
}
