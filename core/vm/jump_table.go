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

// jumpPtr is one dispatch-table entry: everything the driver needs to
// run an opcode without a type switch on the opcode's "family"
// (arithmetic vs push vs call vs log, ...) — the tagged-variant design,
// generalizing the teacher's jumpPtr{fn, valid, jumps, halts, ...} by
// folding the preflight shape (pop/push/constGas) and the variable-gas
// computation into the same entry instead of leaving them in a parallel
// _baseCheck map and a giant calculateGasAndSize switch.
type jumpPtr struct {
	execute execFn
	varGas  varGasFn

	pop      int
	push     int
	constGas uint64

	// jumps is set for JUMP/JUMPI: on success they set PC themselves, and
	// the driver must not additionally increment it.
	jumps bool

	// valid is false for the ~125 unassigned bytes in [0,256); the driver
	// treats those as InvalidOpCode.
	valid bool
}

type vmJumpTable [256]jumpPtr

// newJumpTable builds the dispatch table for fork. Homestead adds
// DELEGATECALL on top of the Frontier instruction set; later forks would
// layer on REVERT/STATICCALL/RETURNDATA* the same way (left for a future
// fork config — this specification's instruction set stops at
// Homestead).
func newJumpTable(fork Fork, fees *FeeSchedule) vmJumpTable {
	req := baseRequirements(fees)
	jt := vmJumpTable{}

	set := func(op OpCode, fn execFn, vg varGasFn, jumps bool) {
		r := req[op]
		jt[op] = jumpPtr{execute: fn, varGas: vg, pop: r.pop, push: r.push, constGas: r.gas.Uint64(), jumps: jumps, valid: true}
	}

	set(STOP, opStop, noVarGas, false)
	set(ADD, opAdd, noVarGas, false)
	set(MUL, opMul, noVarGas, false)
	set(SUB, opSub, noVarGas, false)
	set(DIV, opDiv, noVarGas, false)
	set(SDIV, opSdiv, noVarGas, false)
	set(MOD, opMod, noVarGas, false)
	set(SMOD, opSmod, noVarGas, false)
	set(ADDMOD, opAddmod, noVarGas, false)
	set(MULMOD, opMulmod, noVarGas, false)
	set(EXP, opExp, varGasExp, false)
	set(SIGNEXTEND, opSignExtend, noVarGas, false)

	set(LT, opLt, noVarGas, false)
	set(GT, opGt, noVarGas, false)
	set(SLT, opSlt, noVarGas, false)
	set(SGT, opSgt, noVarGas, false)
	set(EQ, opEq, noVarGas, false)
	set(ISZERO, opIszero, noVarGas, false)
	set(AND, opAnd, noVarGas, false)
	set(OR, opOr, noVarGas, false)
	set(XOR, opXor, noVarGas, false)
	set(NOT, opNot, noVarGas, false)
	set(BYTE, opByte, noVarGas, false)

	set(SHA3, opSha3, varGasSha3, false)

	set(ADDRESS, opAddress, noVarGas, false)
	set(BALANCE, opBalance, noVarGas, false)
	set(ORIGIN, opOrigin, noVarGas, false)
	set(CALLER, opCaller, noVarGas, false)
	set(CALLVALUE, opCallValue, noVarGas, false)
	set(CALLDATALOAD, opCalldataLoad, noVarGas, false)
	set(CALLDATASIZE, opCalldataSize, noVarGas, false)
	set(CALLDATACOPY, opCalldataCopy, varGasCopy(fees.VeryLow.Uint64()), false)
	set(CODESIZE, opCodeSize, noVarGas, false)
	set(CODECOPY, opCodeCopy, varGasCopy(fees.VeryLow.Uint64()), false)
	set(GASPRICE, opGasprice, noVarGas, false)
	set(EXTCODESIZE, opExtCodeSize, noVarGas, false)
	set(EXTCODECOPY, opExtCodeCopy, varGasExtCodeCopy, false)

	set(BLOCKHASH, opBlockhash, noVarGas, false)
	set(COINBASE, opCoinbase, noVarGas, false)
	set(TIMESTAMP, opTimestamp, noVarGas, false)
	set(NUMBER, opNumber, noVarGas, false)
	set(DIFFICULTY, opDifficulty, noVarGas, false)
	set(GASLIMIT, opGasLimit, noVarGas, false)

	set(POP, opPop, noVarGas, false)
	set(MLOAD, opMload, varGasMem32, false)
	set(MSTORE, opMstore, varGasMem32, false)
	set(MSTORE8, opMstore8, varGasMem1, false)
	set(SLOAD, opSload, noVarGas, false)
	set(SSTORE, opSstore, varGasSstore, false)
	set(JUMP, opJump, noVarGas, true)
	set(JUMPI, opJumpi, noVarGas, true)
	set(PC, opPc, noVarGas, false)
	set(MSIZE, opMsize, noVarGas, false)
	set(GAS, opGas, noVarGas, false)
	set(JUMPDEST, opJumpdest, noVarGas, false)

	for i := 0; i < 32; i++ {
		set(PUSH1+OpCode(i), makePush(i+1), noVarGas, false)
	}
	for i := 0; i < 16; i++ {
		set(DUP1+OpCode(i), opDup, noVarGas, false)
		set(SWAP1+OpCode(i), opSwap, noVarGas, false)
	}
	for i := 0; i < 5; i++ {
		set(LOG0+OpCode(i), makeLog(i), varGasLog(i), false)
	}

	set(CREATE, opCreate, varGasCreate, false)
	set(CALL, opCall, varGasCallLike(true), false)
	set(CALLCODE, opCallCode, varGasCallLike(true), false)
	set(RETURN, opReturn, varGasReturn, false)
	set(SELFDESTRUCT, opSelfDestruct, varGasSelfDestruct, false)

	if fork >= Homestead {
		set(DELEGATECALL, opDelegateCall, varGasCallLike(false), false)
	}

	set(INVALID, opInvalid, noVarGas, false)

	return jt
}

