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

package expr

// CloneReason is a closed enumeration of rationales that every
// deep copy of an Expression or ComplexExpression must carry. The
// reason is pure audit metadata: it never changes the outcome of a
// clone, but every cloning entry point in this package requires
// one as an argument so that a later investigation can answer "who
// asked for this copy, and why" by grepping for the reason instead
// of guessing from a stack trace. This caught real bugs during the
// original C++ port and is not optional scaffolding.
type CloneReason uint8

const (
	ForTesting CloneReason = iota
	ConversionToCustomExpression
	ConversionToCBossExpression
	ImplicitConversionWithGetArguments
	FunctionReturningLvalue
	FunctionTakingDefaultExpression
	EvaluateConstExpression
	ExpressionWrapping
	ExpressionSubstitution
	ExpressionAugmentation

	maxCloneReason
)

func (r CloneReason) String() string {
	switch r {
	case ForTesting:
		return "ForTesting"
	case ConversionToCustomExpression:
		return "ConversionToCustomExpression"
	case ConversionToCBossExpression:
		return "ConversionToCBossExpression"
	case ImplicitConversionWithGetArguments:
		return "ImplicitConversionWithGetArguments"
	case FunctionReturningLvalue:
		return "FunctionReturningLvalue"
	case FunctionTakingDefaultExpression:
		return "FunctionTakingDefaultExpression"
	case EvaluateConstExpression:
		return "EvaluateConstExpression"
	case ExpressionWrapping:
		return "ExpressionWrapping"
	case ExpressionSubstitution:
		return "ExpressionSubstitution"
	case ExpressionAugmentation:
		return "ExpressionAugmentation"
	default:
		return "CloneReason(invalid)"
	}
}

// Valid reports whether r is one of the defined clone reasons.
func (r CloneReason) Valid() bool { return r < maxCloneReason }

// Clone produces a deep copy of e, tagged with reason for audit
// purposes. Atoms and Symbols are copied trivially (they are
// value types); ComplexExpressions recurse through their three
// argument lanes, cloning each span with the same reason.
func Clone(e Expression, reason CloneReason) Expression {
	switch v := e.(type) {
	case *ComplexExpression:
		return v.Clone(reason)
	default:
		// atoms and Symbol are already value types: returning
		// them as-is is indistinguishable from copying them,
		// but we still route through Clone so every deep-copy
		// path in the program is auditable in one place.
		return e
	}
}
