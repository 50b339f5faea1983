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

	"github.com/stretchr/testify/assert"
)

func TestMemorySetAndGet(t *testing.T) {
	m := newMemory()
	m.resize(64)
	m.set(0, 4, []byte{1, 2, 3, 4})

	assert.Equal(t, []byte{1, 2, 3, 4}, m.get(0, 4))
	assert.Equal(t, 64, m.len())
}

func TestMemoryGetZeroFillsBeyondHighWaterMark(t *testing.T) {
	m := newMemory()
	out := m.get(0, 32)
	assert.Equal(t, make([]byte, 32), out)
	// get() must not itself grow the backing store.
	assert.Equal(t, 0, m.len())
}

func TestMemorySetByte(t *testing.T) {
	m := newMemory()
	m.setByte(31, 0xff)
	assert.Equal(t, byte(0xff), m.get(0, 32)[31])
}

func TestMemoryGetPtrAliasesBackingStore(t *testing.T) {
	m := newMemory()
	m.resize(32)
	m.set(0, 4, []byte{9, 9, 9, 9})

	ptr := m.getPtr(0, 4)
	ptr[0] = 1
	assert.Equal(t, byte(1), m.store[0])
}

func TestMemoryWords(t *testing.T) {
	m := newMemory()
	m.resize(96)
	assert.Equal(t, uint64(3), m.words())
}
