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

// Package expr implements the BOSS expression data model: a
// heterogeneous tagged tree in which every node is either a
// primitive atom, a Symbol, or a ComplexExpression built from
// three argument storage lanes (static, dynamic, and span).
//
// An Expression is simultaneously program and data: callers build
// a tree with the constructors in this package and hand it to a
// coordinator (package bootstrap) for reduction. This package only
// concerns itself with the shape of the tree, equality, cloning
// discipline, and the unified argument view over the three lanes;
// it does not know how to evaluate anything.
package expr
