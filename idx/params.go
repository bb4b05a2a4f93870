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
	"slices"

	"github.com/gx-org/tile/base/ordered"
)

func params(done *ordered.Map[*Param, *Param], x Expr) {
	switch xT := x.(type) {
	case *Param:
		if xT == nil {
			return
		}
		done.Store(xT, xT)
	case *Binary:
		params(done, xT.X)
		params(done, xT.Y)
	}
}

// Params returns all the runtime parameters the expressions depend on,
// in first-use order and with no duplicate.
func Params(xs ...Expr) []*Param {
	done := ordered.NewMap[*Param, *Param]()
	for _, x := range xs {
		params(done, x)
	}
	return slices.Collect(done.Values())
}
