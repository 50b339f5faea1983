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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

func TestStackPushPop(t *testing.T) {
	st := newstack()
	one, two := uint256.NewInt(1), uint256.NewInt(2)
	st.push(one)
	st.push(two)

	assert.Equal(t, 2, st.len())
	assert.Equal(t, *two, st.pop())
	assert.Equal(t, *one, st.pop())
	assert.Equal(t, 0, st.len())
}

func TestStackDupAndSwap(t *testing.T) {
	st := newstack()
	st.pushInt64(1)
	st.pushInt64(2)
	st.pushInt64(3)

	st.dup(1) // duplicate top (3)
	assert.Equal(t, 4, st.len())
	assert.Equal(t, uint64(3), st.peek().Uint64())

	st.swap(3) // swap top with 3rd from top
	got := st.popN(4)
	assert.Equal(t, []uint64{1, 3, 2, 3}, []uint64{got[0].Uint64(), got[1].Uint64(), got[2].Uint64(), got[3].Uint64()})
}

func TestStackRequireUnderflow(t *testing.T) {
	st := newstack()
	st.pushInt64(1)
	assert.NoError(t, st.require(1))
	assert.ErrorIs(t, st.require(2), ErrStackUnderflow)
}

func TestStackCheckPushOverflow(t *testing.T) {
	st := newstack()
	for i := 0; i < stackLimit; i++ {
		st.pushInt64(int64(i))
	}
	assert.NoError(t, st.checkPush(1, 1)) // pop 1 push 1: net zero, stays at limit
	assert.ErrorIs(t, st.checkPush(0, 1), ErrStackOverflow)
}

func TestStackBackIsZeroIndexedFromTop(t *testing.T) {
	st := newstack()
	st.pushInt64(10)
	st.pushInt64(20)
	st.pushInt64(30)

	assert.Equal(t, uint64(30), st.back(0).Uint64())
	assert.Equal(t, uint64(20), st.back(1).Uint64())
	assert.Equal(t, uint64(10), st.back(2).Uint64())
}

func TestStackDump(t *testing.T) {
	st := newstack()
	st.pushInt64(1)
	lines := st.dump()
	assert.Len(t, lines, 1)
}
