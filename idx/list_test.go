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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/tile/idx"
)

func TestEncodeDecode(t *testing.T) {
	n := idx.NewParam("n")
	m := idx.NewParam("m")
	tests := []struct {
		list idx.List
		want idx.Mixed
	}{
		{
			list: idx.Consts(2, 4, 8),
			want: idx.Mixed{Statics: []int64{2, 4, 8}},
		},
		{
			list: idx.Exprs(idx.NewConst(2), n, m),
			want: idx.Mixed{
				Statics:  []int64{2, idx.Dynamic, idx.Dynamic},
				Dynamics: idx.List{n, m},
			},
		},
		{
			list: idx.Exprs(n, idx.NewConst(0), idx.Add(m, idx.NewConst(1))),
			want: idx.Mixed{
				Statics:  []int64{idx.Dynamic, 0, idx.Dynamic},
				Dynamics: idx.List{n, idx.Add(m, idx.NewConst(1))},
			},
		},
	}
	for ti, test := range tests {
		got := test.list.Encode()
		if !cmp.Equal(got, test.want) {
			t.Errorf("test %d: got %v but want %v", ti, got, test.want)
			continue
		}
		back, err := got.Decode()
		if err != nil {
			t.Errorf("test %d: %v", ti, err)
			continue
		}
		if !cmp.Equal(back, test.list) {
			t.Errorf("test %d: got %v but want %v", ti, back, test.list)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	n := idx.NewParam("n")
	tests := []idx.Mixed{
		{Statics: []int64{idx.Dynamic, 4}},
		{Statics: []int64{2, 4}, Dynamics: idx.List{n}},
		{Statics: []int64{idx.Dynamic}, Dynamics: idx.List{n, n}},
		{Statics: []int64{idx.Dynamic, idx.Dynamic}, Dynamics: idx.List{n, nil}},
	}
	for ti, test := range tests {
		if _, err := test.Decode(); !errors.Is(err, idx.ErrMalformedIndexList) {
			t.Errorf("test %d: got error %v but want %v", ti, err, idx.ErrMalformedIndexList)
		}
	}
}

func TestStatics(t *testing.T) {
	n := idx.NewParam("n")
	got := idx.Exprs(idx.NewConst(2), n, idx.NewConst(6)).Statics()
	want := []int64{2, idx.Dynamic, 6}
	if !cmp.Equal(got, want) {
		t.Errorf("got %v but want %v", got, want)
	}
}

func TestAt(t *testing.T) {
	n := idx.NewParam("n")
	l := idx.Exprs(idx.NewConst(3), n, idx.NewConst(5))
	m := l.Encode()
	if got := m.DynamicCount(m.Rank()); got != 1 {
		t.Errorf("got %d dynamic dimensions but want 1", got)
	}
	for dim := range l {
		got := m.At(dim)
		if !cmp.Equal(got, l[dim]) {
			t.Errorf("dimension %d: got %s but want %s", dim, got, l[dim])
		}
	}
}
