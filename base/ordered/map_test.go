package ordered_test

import (
	"testing"

	"github.com/gx-org/tile/base/ordered"
)

type entry struct {
	k string
	v int
}

func TestMap(t *testing.T) {
	tests := []struct {
		entries []entry
		want    []entry
	}{
		{
			entries: []entry{
				{k: "x", v: 10},
				{k: "y", v: 20},
				{k: "z", v: 30},
			},
			want: []entry{
				{k: "x", v: 10},
				{k: "y", v: 20},
				{k: "z", v: 30},
			},
		},
		{
			entries: []entry{
				{k: "x", v: 10},
				{k: "y", v: 20},
				{k: "x", v: 30},
			},
			want: []entry{
				{k: "x", v: 30},
				{k: "y", v: 20},
			},
		},
		{
			entries: []entry{
				{k: "x", v: 1},
				{k: "x", v: 2},
				{k: "x", v: 3},
			},
			want: []entry{
				{k: "x", v: 3},
			},
		},
	}
	for ti, test := range tests {
		m := ordered.NewMap[string, int]()
		for _, entry := range test.entries {
			m.Store(entry.k, entry.v)
		}
		if m.Size() != len(test.want) {
			t.Errorf("test %d: map has %d entries but want %d", ti, m.Size(), len(test.want))
			continue
		}

		// Load each key.
		for _, want := range test.want {
			gotV, ok := m.Load(want.k)
			if !ok {
				t.Errorf("test %d: key %s not in the map", ti, want.k)
				continue
			}
			if gotV != want.v {
				t.Errorf("test %d: got %s->%d but want %s->%d", ti, want.k, gotV, want.k, want.v)
			}
		}

		// Iterate over all the values.
		i := 0
		for gotV := range m.Values() {
			wantK, wantV := test.want[i].k, test.want[i].v
			if gotV != wantV {
				t.Errorf("test %d entry %d: got .->%d but want %s->%d", ti, i, gotV, wantK, wantV)
			}
			i++
		}
	}
}
