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

// Package fmterr formats errors given a position in a source fileset.
//
// Subset operations are often built programmatically rather than parsed,
// so both the fileset and the source node may be nil, in which case the
// position prefix is omitted and the error is reported as is.
package fmterr

import (
	"fmt"
	"go/ast"
	"go/token"
	"io"

	"github.com/pkg/errors"
)

type (
	// ErrorWithPos is an error attached to a position in source code.
	ErrorWithPos interface {
		error
		FSet() *token.FileSet
		Src() ast.Node
		Err() error
	}

	errorWithPos struct {
		fset *token.FileSet
		src  ast.Node
		pos  token.Pos
		err  error
	}
)

// Position attaches source position information to an error.
// A nil source node is valid and leaves the error unchanged.
func Position(fset *token.FileSet, src ast.Node, err error) error {
	if src == nil {
		return err
	}
	return errorWithPos{
		fset: fset,
		src:  src,
		pos:  src.Pos(),
		err:  err,
	}
}

// Errorf returns a formatted error for the user located at a source node.
func Errorf(fset *token.FileSet, src ast.Node, format string, a ...any) error {
	return Position(fset, src, errors.Errorf(format, a...))
}

// Internal marks an error as internal, potentially adding additional information.
func Internal(err error) error {
	return fmt.Errorf("internal error. This is a bug. Please report it. Error:\n%+v", err)
}

// Internalf returns a formatted internal error located at a source node.
func Internalf(fset *token.FileSet, src ast.Node, format string, a ...any) error {
	return Internal(Errorf(fset, src, format, a...))
}

// PrefixWith returns a function to prefix errors with a formatted string.
func PrefixWith(s string, o ...any) func(err error) error {
	return func(err error) error {
		return fmt.Errorf("%s%w", fmt.Sprintf(s, o...), err)
	}
}

// Error returns a string description of the error.
func (err errorWithPos) Error() string {
	if err.fset == nil {
		return err.err.Error()
	}
	return PosString(err.fset, err.pos) + " " + err.err.Error()
}

// Unwrap the error.
func (err errorWithPos) Unwrap() error {
	return err.err
}

// Format writes the error into the state of the formatter.
func (err errorWithPos) Format(s fmt.State, verb rune) {
	format(err, s, verb)
}

func (err errorWithPos) FSet() *token.FileSet {
	return err.fset
}

func (err errorWithPos) Src() ast.Node {
	return err.src
}

func (err errorWithPos) Err() error {
	return err.err
}

func formatVerbose(err error, s fmt.State) {
	fmt.Fprintf(s, "%s", err.Error())
	var withSt interface {
		StackTrace() errors.StackTrace
	}
	if !errors.As(err, &withSt) {
		return
	}
	fmt.Fprintf(s, "\nError generated at:%+v\n", withSt.StackTrace())
}

func format(err error, s fmt.State, verb rune) {
	switch verb {
	case 'w':
		fallthrough
	case 'v':
		if s.Flag('+') {
			formatVerbose(err, s)
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, err.Error())
	case 'q':
		fmt.Fprintf(s, "%q", err.Error())
	}
}

// PosString returns a position as a string that can be used for an error.
func PosString(fset *token.FileSet, pos token.Pos) string {
	return fset.Position(pos).String() + ":"
}
