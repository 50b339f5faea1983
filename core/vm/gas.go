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
	"math"
	"math/big"

	"github.com/holiman/uint256"
)

// toWordSize rounds a byte count up to the number of 32-byte words it
// occupies, the same rounding the teacher's gas.go performs before
// pricing SHA3/COPY/memory operations.
func toWordSize(size uint64) uint64 {
	return (size + 31) / 32
}

// memWordsForAccess computes, in full precision, how many 32-byte words an
// access to [offset, offset+size) requires — offset/size come straight off
// the stack and may be enormous, so the addition happens in big.Int rather
// than uint64 to avoid silently wrapping around and under-charging gas.
// ok is false when the requirement is so large it could never be paid for
// (the caller should treat this as an immediate OutOfGas).
func memWordsForAccess(offset, size *uint256.Int) (words uint64, ok bool) {
	if size.IsZero() {
		return 0, true
	}
	off := offset.ToBig()
	sz := size.ToBig()
	end := new(big.Int).Add(off, sz)
	if !end.IsUint64() || end.Uint64() > math.MaxUint64/64 {
		return 0, false
	}
	return toWordSize(end.Uint64()), true
}

// memGasCost prices growing memory from oldWords to cover newWords words,
// per the specification's cost(w) = Memory*w + w^2/QuadCoeffDiv.
func memGasCost(fees *FeeSchedule, oldWords, newWords uint64) uint64 {
	if newWords <= oldWords {
		return 0
	}
	return wordsCost(fees, newWords) - wordsCost(fees, oldWords)
}

func wordsCost(fees *FeeSchedule, words uint64) uint64 {
	linear := fees.Memory.Uint64() * words
	quad := (words * words) / fees.QuadCoeffDiv
	return linear + quad
}

// callGas implements EIP-150: the gas a CALL/CALLCODE/DELEGATECALL/CREATE
// forwards to its child is capped at all-but-1/64th of what remains after
// the parent pays its own preflight cost, never more than what the stack
// actually requested.
func callGas(cfg *EvmConfig, availableAfterOwnCost uint64, requested uint64) uint64 {
	capped := cfg.gasCapOf(availableAfterOwnCost)
	if capped < requested {
		return capped
	}
	return requested
}

// opReq describes an instruction's static preflight shape: how many
// items it pops, how many it pushes, and its constant gas cost (the
// var-gas component, if any, is computed separately by varGasFns).
type opReq struct {
	pop  int
	push int
	gas  *big.Int
}

// baseRequirements returns the per-opcode pop/push/constGas preflight
// table for the given fee schedule, the generalized form of the teacher's
// _baseCheck map (core/vm/gas.go).
func baseRequirements(fees *FeeSchedule) map[OpCode]opReq {
	req := map[OpCode]opReq{
		ADD: {2, 1, fees.VeryLow}, SUB: {2, 1, fees.VeryLow},
		LT: {2, 1, fees.VeryLow}, GT: {2, 1, fees.VeryLow},
		SLT: {2, 1, fees.VeryLow}, SGT: {2, 1, fees.VeryLow},
		EQ: {2, 1, fees.VeryLow}, ISZERO: {1, 1, fees.VeryLow},
		AND: {2, 1, fees.VeryLow}, OR: {2, 1, fees.VeryLow},
		XOR: {2, 1, fees.VeryLow}, NOT: {1, 1, fees.VeryLow},
		BYTE: {2, 1, fees.VeryLow},
		CALLDATALOAD: {1, 1, fees.VeryLow},
		CALLDATACOPY:  {3, 0, fees.VeryLow},
		CODECOPY:      {3, 0, fees.VeryLow},
		MLOAD:   {1, 1, fees.VeryLow},
		MSTORE:  {2, 0, fees.VeryLow},
		MSTORE8: {2, 0, fees.VeryLow},
		MUL: {2, 1, fees.Low}, DIV: {2, 1, fees.Low}, SDIV: {2, 1, fees.Low},
		MOD: {2, 1, fees.Low}, SMOD: {2, 1, fees.Low},
		SIGNEXTEND: {2, 1, fees.Low},
		ADDMOD: {3, 1, fees.Mid}, MULMOD: {3, 1, fees.Mid},
		JUMP:  {1, 0, fees.Mid},
		EXP:   {2, 1, fees.Exp},
		JUMPI: {2, 0, fees.High},
		ADDRESS: {0, 1, fees.Base}, ORIGIN: {0, 1, fees.Base},
		CALLER: {0, 1, fees.Base}, CALLVALUE: {0, 1, fees.Base},
		CODESIZE: {0, 1, fees.Base}, GASPRICE: {0, 1, fees.Base},
		COINBASE: {0, 1, fees.Base}, TIMESTAMP: {0, 1, fees.Base},
		NUMBER: {0, 1, fees.Base}, CALLDATASIZE: {0, 1, fees.Base},
		DIFFICULTY: {0, 1, fees.Base}, GASLIMIT: {0, 1, fees.Base},
		POP: {1, 0, fees.Base}, PC: {0, 1, fees.Base},
		MSIZE: {0, 1, fees.Base}, GAS: {0, 1, fees.Base},
		BLOCKHASH: {1, 1, fees.Ext},
		BALANCE:     {1, 1, fees.Balance},
		EXTCODESIZE: {1, 1, fees.ExtcodeSize},
		EXTCODECOPY: {4, 0, fees.ExtcodeCopy},
		SLOAD:       {1, 1, fees.SLoad},
		SSTORE:      {2, 0, fees.Zero},
		SHA3:        {2, 1, fees.Sha3},
		CREATE:      {3, 1, fees.Create},
		CALL:         {7, 1, fees.Zero},
		CALLCODE:     {7, 1, fees.Zero},
		DELEGATECALL: {6, 1, fees.Zero},
		SELFDESTRUCT: {1, 0, fees.Selfdestruct},
		JUMPDEST:     {0, 0, fees.Jumpdest},
		RETURN:       {2, 0, fees.Zero},
		STOP:         {0, 0, fees.Zero},
		INVALID:      {0, 0, fees.Zero},
	}
	for i := OpCode(PUSH1); i <= PUSH32; i++ {
		req[i] = opReq{0, 1, fees.VeryLow}
	}
	for i := OpCode(DUP1); i <= DUP16; i++ {
		n := i.DupDepth()
		req[i] = opReq{n, n + 1, fees.VeryLow}
	}
	for i := OpCode(SWAP1); i <= SWAP16; i++ {
		n := i.SwapDepth()
		req[i] = opReq{n + 1, n + 1, fees.VeryLow}
	}
	req[LOG0] = opReq{2, 0, fees.Log}
	for n := 1; n <= 4; n++ {
		req[LOG0+OpCode(n)] = opReq{2 + n, 0, fees.Log}
	}
	return req
}
