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

package idx

import (
	"math"
	"slices"

	"github.com/gx-org/tile/base/stringseq"
	"github.com/pkg/errors"
)

// Dynamic marks, in the static part of an encoded index list, a
// dimension whose value is only known at runtime.
const Dynamic int64 = math.MinInt64

// ErrMalformedIndexList reports an encoded index list whose dynamic
// expressions do not pair with the dynamic entries of its static part.
var ErrMalformedIndexList = errors.New("malformed index list")

type (
	// List is a list of index expressions, one per dimension of the
	// operation using it.
	List []Expr

	// Mixed is a list in its encoded form.
	//
	// Statics has one entry per dimension, holding either the value of
	// that dimension or Dynamic. Dynamics has one expression per
	// Dynamic entry, in dimension order: the i-th expression computes
	// the dimension marked by the i-th Dynamic entry.
	Mixed struct {
		Statics  []int64
		Dynamics []Expr
	}
)

// Consts returns a list of constant index expressions.
func Consts(vals ...int64) List {
	l := make(List, len(vals))
	for i, val := range vals {
		l[i] = NewConst(val)
	}
	return l
}

// Exprs returns a list of index expressions.
func Exprs(xs ...Expr) List {
	return List(xs)
}

// Statics returns the values of the list known when the operation is
// built, with Dynamic for the others.
func (l List) Statics() []int64 {
	vals := make([]int64, len(l))
	for i, x := range l {
		val, ok := ConstOf(x)
		if !ok || val == Dynamic {
			vals[i] = Dynamic
			continue
		}
		vals[i] = val
	}
	return vals
}

// Encode returns the list in its encoded form. A constant equal to the
// Dynamic marker cannot be represented in the static array and is kept
// as a dynamic expression.
func (l List) Encode() Mixed {
	m := Mixed{Statics: make([]int64, len(l))}
	for i, x := range l {
		val, ok := ConstOf(x)
		if !ok || val == Dynamic {
			m.Statics[i] = Dynamic
			m.Dynamics = append(m.Dynamics, x)
			continue
		}
		m.Statics[i] = val
	}
	return m
}

func (l List) String() string {
	return "[" + stringseq.JoinStringer(slices.Values(l), ",") + "]"
}

// Rank returns the number of dimensions of the list.
func (m Mixed) Rank() int {
	return len(m.Statics)
}

// DynamicCount returns the number of dynamic dimensions before
// dimension dim.
func (m Mixed) DynamicCount(dim int) int {
	n := 0
	for _, val := range m.Statics[:dim] {
		if val == Dynamic {
			n++
		}
	}
	return n
}

// At returns the expression computing dimension dim.
// The list must be well formed.
func (m Mixed) At(dim int) Expr {
	val := m.Statics[dim]
	if val != Dynamic {
		return NewConst(val)
	}
	return m.Dynamics[m.DynamicCount(dim)]
}

// Decode pairs the static and dynamic parts of the list into a list of
// index expressions, one per dimension.
func (m Mixed) Decode() (List, error) {
	want := m.DynamicCount(m.Rank())
	if want != len(m.Dynamics) {
		return nil, errors.Wrapf(ErrMalformedIndexList, "%d dynamic expressions for %d dynamic dimensions", len(m.Dynamics), want)
	}
	l := make(List, len(m.Statics))
	next := 0
	for i, val := range m.Statics {
		if val != Dynamic {
			l[i] = NewConst(val)
			continue
		}
		x := m.Dynamics[next]
		next++
		if x == nil {
			return nil, errors.Wrapf(ErrMalformedIndexList, "no expression for dynamic dimension %d", i)
		}
		l[i] = x
	}
	return l, nil
}
