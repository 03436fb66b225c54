// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package bootstrap

import (
	"fmt"

	"github.com/jack-pearce/BOSS/expr"
)

// SerializationCorruptError wraps a wire-layer decode failure
// encountered while routing an expression through an engine.
type SerializationCorruptError struct {
	Err error
}

func (e *SerializationCorruptError) Error() string {
	return fmt.Sprintf("bootstrap: corrupt serialized result: %s", e.Err)
}

func (e *SerializationCorruptError) Unwrap() error { return e.Err }

// errorWhenEvaluatingExpression builds the
// ErrorWhenEvaluatingExpression(original, message) wrapper that an
// engine-raised error is converted into at the BootstrapEngine
// boundary, per the error handling design: engine failures are
// recoverable values, not propagated errors.
func errorWhenEvaluatingExpression(original expr.Expression, message string) expr.Expression {
	return expr.NewComplexExpression(expr.NewSymbol("ErrorWhenEvaluatingExpression"), original, expr.String(message))
}

func argumentTypeMismatch(expected expr.Kind, got expr.Expression) error {
	return &expr.ArgumentTypeMismatchError{Expected: expected, Got: got}
}
