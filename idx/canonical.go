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
	"cmp"
	"go/token"
	"slices"

	"github.com/gx-org/tile/base/ordered"
)

type (
	// atom is an expression that cannot be folded further, that is a
	// parameter or an expression with an operator unknown to this
	// package. Atoms are compared by instance.
	atom struct {
		x   Expr
		ord int
	}

	// term is a product of atoms scaled by a constant coefficient.
	// Every expression built from Add, Sub, and Mul normalises to a
	// sum of terms.
	term struct {
		coeff   int64
		factors []atom
	}

	// ordinals numbers atoms in the order they are first seen so that
	// factors and terms sort the same way across expressions sharing
	// their parameters.
	ordinals struct {
		m *ordered.Map[Expr, int]
	}
)

func newOrdinals() *ordinals {
	return &ordinals{m: ordered.NewMap[Expr, int]()}
}

func (o *ordinals) of(x Expr) atom {
	ord, ok := o.m.Load(x)
	if !ok {
		ord = o.m.Size()
		o.m.Store(x, ord)
	}
	return atom{x: x, ord: ord}
}

func (o *ordinals) polyOf(x Expr) []term {
	switch xT := x.(type) {
	case *Const:
		if xT.Val == 0 {
			return nil
		}
		return []term{{coeff: xT.Val}}
	case *Param:
		return []term{{coeff: 1, factors: []atom{o.of(xT)}}}
	case *Binary:
		switch xT.Op {
		case token.ADD:
			return append(o.polyOf(xT.X), o.polyOf(xT.Y)...)
		case token.SUB:
			return append(o.polyOf(xT.X), scale(o.polyOf(xT.Y), -1)...)
		case token.MUL:
			return mulPoly(o.polyOf(xT.X), o.polyOf(xT.Y))
		}
	}
	return []term{{coeff: 1, factors: []atom{o.of(x)}}}
}

func scale(terms []term, by int64) []term {
	for i := range terms {
		terms[i].coeff *= by
	}
	return terms
}

func mulPoly(xs, ys []term) []term {
	var r []term
	for _, x := range xs {
		for _, y := range ys {
			factors := slices.Concat(x.factors, y.factors)
			slices.SortFunc(factors, compareAtoms)
			r = append(r, term{coeff: x.coeff * y.coeff, factors: factors})
		}
	}
	return r
}

func compareAtoms(x, y atom) int {
	return cmp.Compare(x.ord, y.ord)
}

func compareTerms(x, y term) int {
	if c := cmp.Compare(len(x.factors), len(y.factors)); c != 0 {
		return c
	}
	for i, xf := range x.factors {
		if c := compareAtoms(xf, y.factors[i]); c != 0 {
			return c
		}
	}
	return 0
}

func normalise(terms []term) []term {
	slices.SortFunc(terms, compareTerms)
	var r []term
	for _, t := range terms {
		if t.coeff == 0 {
			continue
		}
		if len(r) > 0 && compareTerms(r[len(r)-1], t) == 0 {
			r[len(r)-1].coeff += t.coeff
			continue
		}
		r = append(r, t)
	}
	// Merging like terms can cancel coefficients down to zero.
	return slices.DeleteFunc(r, func(t term) bool { return t.coeff == 0 })
}

func fromTerms(terms []term) Expr {
	if len(terms) == 0 {
		return NewConst(0)
	}
	var sum Expr
	for _, t := range terms {
		var prod Expr = NewConst(t.coeff)
		for _, f := range t.factors {
			prod = Mul(prod, f.x)
		}
		if sum == nil {
			sum = prod
			continue
		}
		sum = Add(sum, prod)
	}
	return sum
}

// Canonical returns an expression computing the same value as x, written
// as a sum of products with all constants folded. Operands are ordered by
// their first use in x, so two equivalent expressions do not always
// canonicalise to identical trees: use Equal to compare expressions.
func Canonical(x Expr) Expr {
	o := newOrdinals()
	return fromTerms(normalise(o.polyOf(x)))
}

// Equal reports whether two expressions always compute the same value,
// whichever values their parameters take.
func Equal(x, y Expr) bool {
	o := newOrdinals()
	xs := normalise(o.polyOf(x))
	ys := normalise(o.polyOf(y))
	if len(xs) != len(ys) {
		return false
	}
	for i, xt := range xs {
		if xt.coeff != ys[i].coeff {
			return false
		}
		if compareTerms(xt, ys[i]) != 0 {
			return false
		}
	}
	return true
}
