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

import "fmt"

// ErrStackUnderflow is returned when an opcode pops more items than the
// stack currently holds.
var ErrStackUnderflow = fmt.Errorf("stack underflow")

// ErrStackOverflow is returned when an opcode would push the stack past
// its 1024-item limit.
var ErrStackOverflow = fmt.Errorf("stack overflow")

// ErrOutOfGas is returned when an opcode's gas cost exceeds the gas
// remaining in the current frame.
var ErrOutOfGas = fmt.Errorf("out of gas")

// ErrCodeStoreOutOfGas is returned by CREATE when there isn't enough gas
// left to pay for storing the deployed code.
var ErrCodeStoreOutOfGas = fmt.Errorf("contract creation code storage out of gas")

// ErrMaxCodeSizeExceeded is returned by CREATE when the deployed code is
// larger than the configured maximum (EIP-170).
var ErrMaxCodeSizeExceeded = fmt.Errorf("max code size exceeded")

// ErrDepth is returned when CALL/CREATE would exceed the maximum call
// depth of 1024.
var ErrDepth = fmt.Errorf("max call depth exceeded")

// ErrInsufficientBalance is returned when CALL/CREATE is asked to move
// more value than the sender owns.
var ErrInsufficientBalance = fmt.Errorf("insufficient balance for transfer")

// InvalidOpCodeError names a byte in the code stream that decodes to no
// known instruction.
type InvalidOpCodeError byte

func (e InvalidOpCodeError) Error() string {
	return fmt.Sprintf("invalid opcode 0x%x", byte(e))
}

// InvalidJumpError names the program counter of a JUMP/JUMPI whose target
// is not a valid jump destination.
type InvalidJumpError uint64

func (e InvalidJumpError) Error() string {
	return fmt.Sprintf("invalid jump destination %d", uint64(e))
}
