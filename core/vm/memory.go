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

// memory is the lazily growing, word-rounded byte array instructions read
// and write through MLOAD/MSTORE/MSTORE8/*COPY/LOGn/CREATE/CALL. Growth
// never shrinks the backing store and always rounds up to a 32-byte word
// boundary, mirroring the real EVM's memory-cost accounting.
type memory struct {
	store []byte
}

func newMemory() *memory {
	return &memory{}
}

// resize grows the backing store to size bytes if it is currently smaller.
// size is assumed already word-rounded by the caller (ensureMem, set,
// setByte).
func (m *memory) resize(size uint64) {
	if uint64(len(m.store)) < size {
		grown := make([]byte, size)
		copy(grown, m.store)
		m.store = grown
	}
}

// set writes value into the memory at offset, zero/truncating to exactly
// size bytes, after ensuring the store is large enough.
func (m *memory) set(offset, size uint64, value []byte) {
	if size == 0 {
		return
	}
	if offset+size > uint64(len(m.store)) {
		m.resize(toWordSize(offset+size) * 32)
	}
	copy(m.store[offset:offset+size], value)
}

// setByte writes a single byte (MSTORE8).
func (m *memory) setByte(offset uint64, value byte) {
	if offset+1 > uint64(len(m.store)) {
		m.resize(toWordSize(offset+1) * 32)
	}
	m.store[offset] = value
}

// get returns a fresh copy of size bytes starting at offset, zero-filling
// any portion beyond the current high-water mark.
func (m *memory) get(offset, size int64) []byte {
	if size == 0 {
		return []byte{}
	}
	out := make([]byte, size)
	if offset < int64(len(m.store)) {
		copy(out, m.store[offset:])
	}
	return out
}

// getPtr returns a slice aliasing the backing store directly (used by
// RETURN, where the caller does not outlive the frame that produced it).
func (m *memory) getPtr(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	if int64(len(m.store)) < offset+size {
		return m.get(offset, size)
	}
	return m.store[offset : offset+size]
}

// len reports the current size of the backing store in bytes (always a
// multiple of 32).
func (m *memory) len() int { return len(m.store) }

// words reports the current size in 32-byte words.
func (m *memory) words() uint64 { return uint64(len(m.store)) / 32 }

func (m *memory) data() []byte { return m.store }
