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

// Package idx declares index expressions.
//
// An index expression computes an offset, a size, a stride, or a point
// coordinate of a subset operation. Its value is either known when the
// operation is built (Const) or only when the program runs (Param).
// Expressions combining the two are built with Add, Sub, and Mul, which
// fold as much of the computation as their operands allow.
package idx

import (
	"fmt"
	"go/token"
	"strconv"
)

type (
	// Expr is an index expression.
	Expr interface {
		fmt.Stringer
		// expr ensures that only types defined in this package
		// implement the interface.
		expr()
	}

	// Const is an index value known when the operation is built.
	Const struct {
		Val int64
	}

	// Param is an index value computed at runtime, for example a loop
	// counter or a device identifier. Its name only appears in error
	// messages and printed operations. Two parameters are the same
	// value only if they are the same instance.
	Param struct {
		Name string
	}

	// Binary applies an arithmetic operator to two index expressions.
	// At least one operand depends on a parameter: binary expressions
	// over constants are folded by the constructors.
	Binary struct {
		Op   token.Token
		X, Y Expr
	}
)

var (
	_ Expr = (*Const)(nil)
	_ Expr = (*Param)(nil)
	_ Expr = (*Binary)(nil)
)

// NewConst returns a constant index expression.
func NewConst(val int64) *Const {
	return &Const{Val: val}
}

func (*Const) expr() {}

func (c *Const) String() string {
	return strconv.FormatInt(c.Val, 10)
}

// NewParam returns a new runtime index value.
func NewParam(name string) *Param {
	return &Param{Name: name}
}

func (*Param) expr() {}

func (p *Param) String() string {
	if p.Name == "" {
		return "?"
	}
	return p.Name
}

func (*Binary) expr() {}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s%s%s)", b.X.String(), b.Op.String(), b.Y.String())
}

// ConstOf returns the value of an expression if it is known
// when the operation is built.
func ConstOf(x Expr) (int64, bool) {
	c, ok := x.(*Const)
	if !ok {
		return 0, false
	}
	return c.Val, true
}

func fold(op token.Token, x, y int64) (int64, bool) {
	switch op {
	case token.ADD:
		return x + y, true
	case token.SUB:
		return x - y, true
	case token.MUL:
		return x * y, true
	}
	return 0, false
}

func newBinary(op token.Token, x, y Expr) Expr {
	xVal, xConst := ConstOf(x)
	yVal, yConst := ConstOf(y)
	if xConst && yConst {
		if val, ok := fold(op, xVal, yVal); ok {
			return NewConst(val)
		}
	}
	switch op {
	case token.ADD:
		if xConst && xVal == 0 {
			return y
		}
		if yConst && yVal == 0 {
			return x
		}
	case token.SUB:
		if yConst && yVal == 0 {
			return x
		}
	case token.MUL:
		if xConst {
			if xVal == 0 {
				return NewConst(0)
			}
			if xVal == 1 {
				return y
			}
		}
		if yConst {
			if yVal == 0 {
				return NewConst(0)
			}
			if yVal == 1 {
				return x
			}
		}
	}
	return &Binary{Op: op, X: x, Y: y}
}

// Add returns the sum of two index expressions.
func Add(x, y Expr) Expr {
	return newBinary(token.ADD, x, y)
}

// Sub returns the difference of two index expressions.
func Sub(x, y Expr) Expr {
	return newBinary(token.SUB, x, y)
}

// Mul returns the product of two index expressions.
func Mul(x, y Expr) Expr {
	return newBinary(token.MUL, x, y)
}
