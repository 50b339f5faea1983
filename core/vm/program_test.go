// Copyright 2015 The go-ethereum Authors
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

	"github.com/stretchr/testify/assert"

	"github.com/ecip-labs/levm/common"
)

func TestProgramValidJumpDestExcludesPushImmediates(t *testing.T) {
	// PUSH1 0x5b (JUMPDEST byte as push data) JUMPDEST
	code := common.Hex2Bytes("605b5b")
	p := NewProgram(code)

	assert.False(t, p.ValidJumpDest(1), "byte 1 is a PUSH1 immediate, not a real JUMPDEST")
	assert.True(t, p.ValidJumpDest(2), "byte 2 is a genuine JUMPDEST")
}

func TestProgramAtPastEndIsStop(t *testing.T) {
	p := NewProgram(common.Hex2Bytes("00"))
	assert.Equal(t, STOP, p.At(0))
	assert.Equal(t, STOP, p.At(100))
}

func TestProgramCacheReturnsSameInstanceForSameCode(t *testing.T) {
	cache := NewProgramCache(8)
	code := common.Hex2Bytes("6001600101")

	p1 := cache.Get(code)
	p2 := cache.Get(code)
	assert.Same(t, p1, p2)
}

func TestProgramCacheDistinguishesCode(t *testing.T) {
	cache := NewProgramCache(8)
	a := cache.Get(common.Hex2Bytes("00"))
	b := cache.Get(common.Hex2Bytes("01"))
	assert.NotEqual(t, a.CodeHash, b.CodeHash)
}
