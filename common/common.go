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

// Package common holds the small value types shared across the vm package:
// account addresses, hashes, and the byte-slice helpers the interpreter
// leans on when slicing calldata, code, and return data.
package common

import (
	"encoding/hex"
	"math/big"
)

const (
	AddressLength = 20
	HashLength    = 32
)

// Address is a 20-byte account identifier.
type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

func BigToAddress(n *big.Int) Address { return BytesToAddress(n.Bytes()) }

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

func (a Address) Big() *big.Int { return new(big.Int).SetBytes(a[:]) }

func (a Address) IsZero() bool { return a == Address{} }

// Hash is a 32-byte value, most often the result of Keccak256.
type Hash [HashLength]byte

func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

func BigToHash(n *big.Int) Hash { return BytesToHash(n.Bytes()) }

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Big() *big.Int { return new(big.Int).SetBytes(h[:]) }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

var EmptyHash = Hash{}

// LeftPadBytes zero-pads b on the left up to size bytes.
func LeftPadBytes(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

// RightPadBytes zero-pads b on the right up to size bytes.
func RightPadBytes(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out, b)
	return out
}

// BigMin returns the smaller of x and y, as one of the two pointers (never
// a fresh allocation), matching the classic go-ethereum helper's aliasing
// behavior so callers may rely on identity.
func BigMin(x, y *big.Int) *big.Int {
	if x.Cmp(y) > 0 {
		return y
	}
	return x
}

// BigMax returns the larger of x and y, as one of the two pointers.
func BigMax(x, y *big.Int) *big.Int {
	if x.Cmp(y) < 0 {
		return y
	}
	return x
}

func BigPow(a, b int64) *big.Int {
	r := big.NewInt(a)
	return r.Exp(r, big.NewInt(b), nil)
}

var (
	Big0 = big.NewInt(0)
	Big1 = big.NewInt(1)
	Big2 = big.NewInt(2)
	Big32 = big.NewInt(32)
)

// Hex2Bytes decodes a hex string (no 0x prefix required) into bytes,
// ignoring decode errors by returning whatever was parsed so far — matching
// the permissive test-fixture parsing style used throughout the vm tests.
func Hex2Bytes(s string) []byte {
	if len(s) >= 2 && (s[0:2] == "0x" || s[0:2] == "0X") {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}
