// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ecip-labs/levm/params"
)

// stackLimit is the maximum number of items the stack may hold at once.
const stackLimit = int(params.StackLimit)

// stack is the bounded LIFO word stack instructions operate on. Words are
// held by value as uint256.Int, matching the wire-level UInt256 the
// instruction set defines.
type stack struct {
	data []uint256.Int
}

func newstack() *stack {
	return &stack{data: make([]uint256.Int, 0, 16)}
}

func (st *stack) len() int { return len(st.data) }

func (st *stack) require(n int) error {
	if st.len() < n {
		return ErrStackUnderflow
	}
	return nil
}

func (st *stack) checkPush(pop, push int) error {
	if st.len()-pop+push > stackLimit {
		return ErrStackOverflow
	}
	return nil
}

func (st *stack) push(v *uint256.Int) {
	st.data = append(st.data, *v)
}

func (st *stack) pushInt64(n int64) {
	var v uint256.Int
	v.SetUint64(uint64(n))
	st.push(&v)
}

// pop removes and returns the top element.
func (st *stack) pop() (ret uint256.Int) {
	last := len(st.data) - 1
	ret = st.data[last]
	st.data = st.data[:last]
	return
}

// popN removes and returns the top n elements, topmost first.
func (st *stack) popN(n int) []uint256.Int {
	out := make([]uint256.Int, n)
	for i := 0; i < n; i++ {
		out[i] = st.pop()
	}
	return out
}

// peek returns the top element without removing it.
func (st *stack) peek() *uint256.Int {
	return &st.data[len(st.data)-1]
}

// back returns the n-th element from the top (0-indexed) without removing
// anything.
func (st *stack) back(n int) *uint256.Int {
	return &st.data[len(st.data)-n-1]
}

// dup duplicates the n-th element from the top (1-indexed) onto the top.
func (st *stack) dup(n int) {
	v := st.data[len(st.data)-n]
	st.push(&v)
}

// swap exchanges the top element with the n-th element from the top
// (1-indexed: swap(1) exchanges the top two elements; swap(0) would swap
// the top with itself, which callers never pass).
func (st *stack) swap(n int) {
	top := len(st.data) - 1
	st.data[top], st.data[top-n] = st.data[top-n], st.data[top]
}

func (st *stack) String() string {
	s := "["
	for i, v := range st.data {
		if i > 0 {
			s += ", "
		}
		s += v.Hex()
	}
	return s + "]"
}

func (st *stack) dump() []string {
	out := make([]string, len(st.data))
	for i, v := range st.data {
		out[i] = fmt.Sprintf("%d: %s", i, v.Hex())
	}
	return out
}
