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

	"github.com/ecip-labs/levm/common"
	"github.com/ecip-labs/levm/crypto"
)

// execFn carries out an instruction's semantic body. It runs only after
// the preflight (stack + gas) has already passed and the cost already
// deducted.
type execFn func(evm *EVM, state *ProgramState, op OpCode)

// varGasFn computes an instruction's variable gas component from the state
// immediately before execution (it may peek the stack but must not pop).
// Two implementations also write state: varGasSstore credits the clear
// refund to GasRefund, and varGasCallLike overwrites the stack's gas
// operand with the capped amount.
type varGasFn func(evm *EVM, state *ProgramState, op OpCode) (uint64, error)

func noVarGas(*EVM, *ProgramState, OpCode) (uint64, error) { return 0, nil }

func addrToU256(a common.Address) uint256.Int {
	var u uint256.Int
	u.SetBytes(a.Bytes())
	return u
}

func u256ToAddress(u *uint256.Int) common.Address {
	b := u.Bytes32()
	return common.BytesToAddress(b[12:])
}

func u256ToHash(u *uint256.Int) common.Hash {
	return common.Hash(u.Bytes32())
}

func hashToU256(h common.Hash) uint256.Int {
	var u uint256.Int
	u.SetBytes(h.Bytes())
	return u
}

func bigToU256(b *big.Int) uint256.Int {
	var u uint256.Int
	u.SetFromBig(b)
	return u
}

func boolU256(b bool) uint256.Int {
	var u uint256.Int
	if b {
		u.SetOne()
	}
	return u
}

// slice returns data[start:start+size], right-padded with zeros to size,
// overflow-safe for arbitrarily large start/size (specification §5.3's
// padded slice helper, shared by CALLDATALOAD/CALLDATACOPY/CODECOPY/
// EXTCODECOPY/RETURNDATACOPY).
func slice(data []byte, start, size uint64) []byte {
	dlen := uint64(len(data))
	if start > dlen {
		start = dlen
	}
	end := start + size
	if end > dlen {
		end = dlen
	}
	return common.RightPadBytes(data[start:end], int(size))
}

func sliceU256(data []byte, start *uint256.Int, size uint64) []byte {
	if start.GtUint64(uint64(len(data))) {
		return slice(data, uint64(len(data)), size)
	}
	return slice(data, start.Uint64(), size)
}

// --- arithmetic -------------------------------------------------------

func opAdd(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	x.Add(&x, &y)
	s.Stack.push(&x)
}

func opSub(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	x.Sub(&x, &y)
	s.Stack.push(&x)
}

func opMul(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	x.Mul(&x, &y)
	s.Stack.push(&x)
}

func opDiv(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	x.Div(&x, &y) // uint256.Div already returns 0 for y == 0
	s.Stack.push(&x)
}

func opSdiv(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	x.SDiv(&x, &y)
	s.Stack.push(&x)
}

func opMod(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	x.Mod(&x, &y)
	s.Stack.push(&x)
}

func opSmod(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	x.SMod(&x, &y)
	s.Stack.push(&x)
}

func opAddmod(evm *EVM, s *ProgramState, op OpCode) {
	x, y, z := s.Stack.pop(), s.Stack.pop(), s.Stack.pop()
	x.AddMod(&x, &y, &z)
	s.Stack.push(&x)
}

func opMulmod(evm *EVM, s *ProgramState, op OpCode) {
	x, y, z := s.Stack.pop(), s.Stack.pop(), s.Stack.pop()
	x.MulMod(&x, &y, &z)
	s.Stack.push(&x)
}

func opExp(evm *EVM, s *ProgramState, op OpCode) {
	base, exponent := s.Stack.pop(), s.Stack.pop()
	base.Exp(&base, &exponent)
	s.Stack.push(&base)
}

func varGasExp(evm *EVM, s *ProgramState, op OpCode) (uint64, error) {
	exponent := s.Stack.back(1)
	byteLen := uint64(32 - leadingZeroBytes(exponent))
	return byteLen * evm.config.Fees.ExpByte.Uint64(), nil
}

func leadingZeroBytes(u *uint256.Int) int {
	b := u.Bytes32()
	n := 0
	for n < 32 && b[n] == 0 {
		n++
	}
	return n
}

func opSignExtend(evm *EVM, s *ProgramState, op OpCode) {
	back, num := s.Stack.pop(), s.Stack.pop()
	if back.LtUint64(31) {
		num.ExtendSign(&num, &back)
	}
	s.Stack.push(&num)
}

func opNot(evm *EVM, s *ProgramState, op OpCode) {
	x := s.Stack.pop()
	x.Not(&x)
	s.Stack.push(&x)
}

// --- comparison / bitwise ---------------------------------------------

func opLt(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	r := boolU256(x.Lt(&y))
	s.Stack.push(&r)
}

func opGt(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	r := boolU256(x.Gt(&y))
	s.Stack.push(&r)
}

func opSlt(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	r := boolU256(x.Slt(&y))
	s.Stack.push(&r)
}

func opSgt(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	r := boolU256(x.Sgt(&y))
	s.Stack.push(&r)
}

func opEq(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	r := boolU256(x.Eq(&y))
	s.Stack.push(&r)
}

func opIszero(evm *EVM, s *ProgramState, op OpCode) {
	x := s.Stack.pop()
	r := boolU256(x.IsZero())
	s.Stack.push(&r)
}

func opAnd(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	x.And(&x, &y)
	s.Stack.push(&x)
}

func opOr(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	x.Or(&x, &y)
	s.Stack.push(&x)
}

func opXor(evm *EVM, s *ProgramState, op OpCode) {
	x, y := s.Stack.pop(), s.Stack.pop()
	x.Xor(&x, &y)
	s.Stack.push(&x)
}

func opByte(evm *EVM, s *ProgramState, op OpCode) {
	i, x := s.Stack.pop(), s.Stack.pop()
	x.Byte(&i)
	s.Stack.push(&x)
}

// --- SHA3 ---------------------------------------------------------------

func opSha3(evm *EVM, s *ProgramState, op OpCode) {
	offset, size := s.Stack.pop(), s.Stack.pop()
	data := s.Memory.get(int64(offset.Uint64()), int64(size.Uint64()))
	hash := crypto.Keccak256(data)
	var u uint256.Int
	u.SetBytes(hash)
	s.Stack.push(&u)
}

func varGasSha3(evm *EVM, s *ProgramState, op OpCode) (uint64, error) {
	offset, size := s.Stack.back(0), s.Stack.back(1)
	words, ok := memWordsForAccess(offset, size)
	if !ok {
		return 0, ErrOutOfGas
	}
	memCost := memGasCost(evm.config.Fees, s.Memory.words(), words)
	wordGas := toWordSize(size.Uint64()) * evm.config.Fees.Sha3Word.Uint64()
	return wordGas + memCost, nil
}

// ensureMem grows memory to the size an instruction's preflight already
// charged for the access [offset, offset+size). A zero-size access does
// not grow memory.
func ensureMem(s *ProgramState, offset, size uint64) {
	if size == 0 {
		return
	}
	s.Memory.resize(toWordSize(offset+size) * 32)
}

// --- environment ---------------------------------------------------------

func opAddress(evm *EVM, s *ProgramState, op OpCode) {
	u := addrToU256(s.Env.OwnerAddr)
	s.Stack.push(&u)
}

func opBalance(evm *EVM, s *ProgramState, op OpCode) {
	addr := s.Stack.pop()
	bal := s.World.GetBalance(u256ToAddress(&addr))
	u := bigToU256(bal)
	s.Stack.push(&u)
}

func opOrigin(evm *EVM, s *ProgramState, op OpCode) {
	u := addrToU256(s.Env.OriginAddr)
	s.Stack.push(&u)
}

func opCaller(evm *EVM, s *ProgramState, op OpCode) {
	u := addrToU256(s.Env.CallerAddr)
	s.Stack.push(&u)
}

func opCallValue(evm *EVM, s *ProgramState, op OpCode) {
	u := bigToU256(s.Env.Value)
	s.Stack.push(&u)
}

func opCalldataLoad(evm *EVM, s *ProgramState, op OpCode) {
	offset := s.Stack.pop()
	data := sliceU256(s.InputData, &offset, 32)
	var u uint256.Int
	u.SetBytes(data)
	s.Stack.push(&u)
}

func opCalldataSize(evm *EVM, s *ProgramState, op OpCode) {
	var u uint256.Int
	u.SetUint64(uint64(len(s.InputData)))
	s.Stack.push(&u)
}

func opCalldataCopy(evm *EVM, s *ProgramState, op OpCode) {
	memOff, dataOff, size := s.Stack.pop(), s.Stack.pop(), s.Stack.pop()
	ensureMem(s, memOff.Uint64(), size.Uint64())
	s.Memory.set(memOff.Uint64(), size.Uint64(), sliceU256(s.InputData, &dataOff, size.Uint64()))
}

func varGasCopy(wordFee uint64) varGasFn {
	return func(evm *EVM, s *ProgramState, op OpCode) (uint64, error) {
		memOff, size := s.Stack.back(0), s.Stack.back(2)
		words, ok := memWordsForAccess(memOff, size)
		if !ok {
			return 0, ErrOutOfGas
		}
		cost := memGasCost(evm.config.Fees, s.Memory.words(), words)
		return cost + toWordSize(size.Uint64())*wordFee, nil
	}
}

func opCodeSize(evm *EVM, s *ProgramState, op OpCode) {
	var u uint256.Int
	u.SetUint64(uint64(s.Env.Program.Len()))
	s.Stack.push(&u)
}

func opCodeCopy(evm *EVM, s *ProgramState, op OpCode) {
	memOff, codeOff, size := s.Stack.pop(), s.Stack.pop(), s.Stack.pop()
	ensureMem(s, memOff.Uint64(), size.Uint64())
	s.Memory.set(memOff.Uint64(), size.Uint64(), sliceU256(s.Env.Program.Code, &codeOff, size.Uint64()))
}

func opExtCodeSize(evm *EVM, s *ProgramState, op OpCode) {
	addr := s.Stack.pop()
	var u uint256.Int
	u.SetUint64(uint64(len(s.World.GetCode(u256ToAddress(&addr)))))
	s.Stack.push(&u)
}

func opExtCodeCopy(evm *EVM, s *ProgramState, op OpCode) {
	addr, memOff, codeOff, size := s.Stack.pop(), s.Stack.pop(), s.Stack.pop(), s.Stack.pop()
	code := s.World.GetCode(u256ToAddress(&addr))
	ensureMem(s, memOff.Uint64(), size.Uint64())
	s.Memory.set(memOff.Uint64(), size.Uint64(), sliceU256(code, &codeOff, size.Uint64()))
}

func varGasExtCodeCopy(evm *EVM, s *ProgramState, op OpCode) (uint64, error) {
	memOff, size := s.Stack.back(1), s.Stack.back(3)
	words, ok := memWordsForAccess(memOff, size)
	if !ok {
		return 0, ErrOutOfGas
	}
	cost := memGasCost(evm.config.Fees, s.Memory.words(), words)
	return cost + toWordSize(size.Uint64())*evm.config.Fees.Copy.Uint64(), nil
}

func opGasprice(evm *EVM, s *ProgramState, op OpCode) {
	u := bigToU256(s.Env.GasPrice)
	s.Stack.push(&u)
}

func opBlockhash(evm *EVM, s *ProgramState, op OpCode) {
	num := s.Stack.pop()
	current := s.World.BlockNumber().Uint64()
	n := num.Uint64()
	if num.IsUint64() && n+256 >= current && n < current {
		u := hashToU256(s.World.GetBlockHash(n))
		s.Stack.push(&u)
	} else {
		var zero uint256.Int
		s.Stack.push(&zero)
	}
}

func opCoinbase(evm *EVM, s *ProgramState, op OpCode) {
	u := addrToU256(s.World.Coinbase())
	s.Stack.push(&u)
}

func opTimestamp(evm *EVM, s *ProgramState, op OpCode) {
	u := bigToU256(s.World.Timestamp())
	s.Stack.push(&u)
}

func opNumber(evm *EVM, s *ProgramState, op OpCode) {
	u := bigToU256(s.World.BlockNumber())
	s.Stack.push(&u)
}

func opDifficulty(evm *EVM, s *ProgramState, op OpCode) {
	u := bigToU256(s.World.Difficulty())
	s.Stack.push(&u)
}

func opGasLimit(evm *EVM, s *ProgramState, op OpCode) {
	u := bigToU256(s.World.GasLimit())
	s.Stack.push(&u)
}

// --- stack / memory / storage --------------------------------------------

func opPop(evm *EVM, s *ProgramState, op OpCode) { s.Stack.pop() }

func opMload(evm *EVM, s *ProgramState, op OpCode) {
	offset := s.Stack.pop()
	ensureMem(s, offset.Uint64(), 32)
	var u uint256.Int
	u.SetBytes(s.Memory.get(int64(offset.Uint64()), 32))
	s.Stack.push(&u)
}

func varGasMem32(evm *EVM, s *ProgramState, op OpCode) (uint64, error) {
	offset := s.Stack.back(0)
	var sz uint256.Int
	sz.SetUint64(32)
	words, ok := memWordsForAccess(offset, &sz)
	if !ok {
		return 0, ErrOutOfGas
	}
	return memGasCost(evm.config.Fees, s.Memory.words(), words), nil
}

func opMstore(evm *EVM, s *ProgramState, op OpCode) {
	offset, val := s.Stack.pop(), s.Stack.pop()
	ensureMem(s, offset.Uint64(), 32)
	b := val.Bytes32()
	s.Memory.set(offset.Uint64(), 32, b[:])
}

func opMstore8(evm *EVM, s *ProgramState, op OpCode) {
	offset, val := s.Stack.pop(), s.Stack.pop()
	ensureMem(s, offset.Uint64(), 1)
	s.Memory.setByte(offset.Uint64(), byte(val.Uint64()))
}

func varGasMem1(evm *EVM, s *ProgramState, op OpCode) (uint64, error) {
	offset := s.Stack.back(0)
	var sz uint256.Int
	sz.SetUint64(1)
	words, ok := memWordsForAccess(offset, &sz)
	if !ok {
		return 0, ErrOutOfGas
	}
	return memGasCost(evm.config.Fees, s.Memory.words(), words), nil
}

func opSload(evm *EVM, s *ProgramState, op OpCode) {
	key := s.Stack.pop()
	val := s.Storage.Load(s.Env.OwnerAddr, u256ToHash(&key))
	u := hashToU256(val)
	s.Stack.push(&u)
}

func opSstore(evm *EVM, s *ProgramState, op OpCode) {
	key, val := s.Stack.pop(), s.Stack.pop()
	s.Storage.Store(s.Env.OwnerAddr, u256ToHash(&key), u256ToHash(&val))
}

func varGasSstore(evm *EVM, s *ProgramState, op OpCode) (uint64, error) {
	key, val := s.Stack.back(0), s.Stack.back(1)
	old := s.Storage.Load(s.Env.OwnerAddr, u256ToHash(key))
	newIsZero := val.IsZero()
	oldIsZero := old == common.EmptyHash

	switch {
	case oldIsZero && !newIsZero:
		return evm.config.Fees.Sset.Uint64(), nil
	case !oldIsZero && newIsZero:
		s.GasRefund += evm.config.Fees.RSclear.Uint64()
		return evm.config.Fees.Sreset.Uint64(), nil
	default:
		return evm.config.Fees.Sreset.Uint64(), nil
	}
}

// --- control flow ---------------------------------------------------------

func opJump(evm *EVM, s *ProgramState, op OpCode) {
	dest := s.Stack.pop()
	if !dest.IsUint64() || !s.Env.Program.ValidJumpDest(dest.Uint64()) {
		s.fail(InvalidJumpError(dest.Uint64()))
		return
	}
	s.PC = dest.Uint64()
}

func opJumpi(evm *EVM, s *ProgramState, op OpCode) {
	dest, cond := s.Stack.pop(), s.Stack.pop()
	if cond.IsZero() {
		s.PC++
		return
	}
	if !dest.IsUint64() || !s.Env.Program.ValidJumpDest(dest.Uint64()) {
		s.fail(InvalidJumpError(dest.Uint64()))
		return
	}
	s.PC = dest.Uint64()
}

func opJumpdest(evm *EVM, s *ProgramState, op OpCode) {}

func opPc(evm *EVM, s *ProgramState, op OpCode) {
	var u uint256.Int
	u.SetUint64(s.PC)
	s.Stack.push(&u)
}

func opMsize(evm *EVM, s *ProgramState, op OpCode) {
	var u uint256.Int
	u.SetUint64(uint64(s.Memory.len()))
	s.Stack.push(&u)
}

func opGas(evm *EVM, s *ProgramState, op OpCode) {
	var u uint256.Int
	u.SetUint64(s.Gas)
	s.Stack.push(&u)
}

func opStop(evm *EVM, s *ProgramState, op OpCode) { s.stop(nil) }

func opReturn(evm *EVM, s *ProgramState, op OpCode) {
	offset, size := s.Stack.pop(), s.Stack.pop()
	ret := s.Memory.getPtr(int64(offset.Uint64()), int64(size.Uint64()))
	s.stop(ret)
}

func varGasReturn(evm *EVM, s *ProgramState, op OpCode) (uint64, error) {
	offset, size := s.Stack.back(0), s.Stack.back(1)
	words, ok := memWordsForAccess(offset, size)
	if !ok {
		return 0, ErrOutOfGas
	}
	return memGasCost(evm.config.Fees, s.Memory.words(), words), nil
}

func opInvalid(evm *EVM, s *ProgramState, op OpCode) {
	s.fail(InvalidOpCodeError(op))
}

// --- push / dup / swap / log -----------------------------------------------

func makePush(size int) execFn {
	return func(evm *EVM, s *ProgramState, op OpCode) {
		var off uint256.Int
		off.SetUint64(s.PC + 1)
		data := sliceU256(s.Env.Program.Code, &off, uint64(size))
		var u uint256.Int
		u.SetBytes(data)
		s.Stack.push(&u)
		s.PC += uint64(size)
	}
}

func opDup(evm *EVM, s *ProgramState, op OpCode) {
	s.Stack.dup(op.DupDepth())
}

func opSwap(evm *EVM, s *ProgramState, op OpCode) {
	s.Stack.swap(op.SwapDepth())
}

func makeLog(n int) execFn {
	return func(evm *EVM, s *ProgramState, op OpCode) {
		offset, size := s.Stack.pop(), s.Stack.pop()
		topics := make([]common.Hash, n)
		for i := 0; i < n; i++ {
			t := s.Stack.pop()
			topics[i] = u256ToHash(&t)
		}
		data := s.Memory.get(int64(offset.Uint64()), int64(size.Uint64()))
		s.Logs = append(s.Logs, TxLogEntry{
			Address:     s.Env.OwnerAddr,
			Topics:      topics,
			Data:        data,
			BlockNumber: s.World.BlockNumber().Uint64(),
		})
	}
}

func varGasLog(n int) varGasFn {
	return func(evm *EVM, s *ProgramState, op OpCode) (uint64, error) {
		offset, size := s.Stack.back(0), s.Stack.back(1)
		words, ok := memWordsForAccess(offset, size)
		if !ok {
			return 0, ErrOutOfGas
		}
		memCost := memGasCost(evm.config.Fees, s.Memory.words(), words)
		fees := evm.config.Fees
		return memCost + fees.LogData.Uint64()*size.Uint64() + fees.LogTopic.Uint64()*uint64(n), nil
	}
}

// --- CREATE / CALL family --------------------------------------------------

func opCreate(evm *EVM, s *ProgramState, op OpCode) {
	endowment, offset, size := s.Stack.pop(), s.Stack.pop(), s.Stack.pop()
	input := s.Memory.get(int64(offset.Uint64()), int64(size.Uint64()))

	addr, err := evm.create(s, endowment.ToBig(), input)
	if err != nil && err != ErrCodeStoreOutOfGas {
		var zero uint256.Int
		s.Stack.push(&zero)
		return
	}
	u := addrToU256(addr)
	s.Stack.push(&u)
}

func varGasCreate(evm *EVM, s *ProgramState, op OpCode) (uint64, error) {
	offset, size := s.Stack.back(1), s.Stack.back(2)
	words, ok := memWordsForAccess(offset, size)
	if !ok {
		return 0, ErrOutOfGas
	}
	return memGasCost(evm.config.Fees, s.Memory.words(), words), nil
}

func opCall(evm *EVM, s *ProgramState, op OpCode) {
	callLike(evm, s, kindCall)
}

func opCallCode(evm *EVM, s *ProgramState, op OpCode) {
	callLike(evm, s, kindCallCode)
}

func opDelegateCall(evm *EVM, s *ProgramState, op OpCode) {
	callLike(evm, s, kindDelegateCall)
}

func callLike(evm *EVM, s *ProgramState, kind callKind) {
	// varGasCallLike already rewrote this stack slot in place with the
	// EIP-150-capped amount, the same trick the teacher's vm.go plays on
	// stack.data[stack.len()-1] before opCall ever runs.
	gasCap := s.Stack.pop().Uint64()
	addr := s.Stack.pop()
	var value uint256.Int
	if kind != kindDelegateCall {
		value = s.Stack.pop()
	}
	inOffset, inSize := s.Stack.pop(), s.Stack.pop()
	outOffset, outSize := s.Stack.pop(), s.Stack.pop()

	to := u256ToAddress(&addr)
	args := s.Memory.get(int64(inOffset.Uint64()), int64(inSize.Uint64()))

	gasGiven := gasCap
	if kind == kindCall && !value.IsZero() {
		gasGiven += evm.config.Fees.CallStipend.Uint64()
	}

	ret, err := evm.runCall(s, kind, gasGiven, to, value.ToBig(), args)

	if err != nil {
		var zero uint256.Int
		s.Stack.push(&zero)
	} else {
		var one uint256.Int
		one.SetOne()
		s.Stack.push(&one)
	}
	ensureMem(s, outOffset.Uint64(), outSize.Uint64())
	if err == nil {
		// A failing call leaves the out-region merely expanded, not
		// zeroed: its previous contents are untouched.
		s.Memory.set(outOffset.Uint64(), outSize.Uint64(), slice(ret, 0, outSize.Uint64()))
	}
}

func varGasCallLike(hasValue bool) varGasFn {
	return func(evm *EVM, s *ProgramState, op OpCode) (uint64, error) {
		fees := evm.config.Fees
		var inOff, inSize, outOff, outSize, valueIdx *uint256.Int
		if hasValue {
			inOff, inSize = s.Stack.back(3), s.Stack.back(4)
			outOff, outSize = s.Stack.back(5), s.Stack.back(6)
			valueIdx = s.Stack.back(2)
		} else {
			inOff, inSize = s.Stack.back(2), s.Stack.back(3)
			outOff, outSize = s.Stack.back(4), s.Stack.back(5)
		}
		inWords, ok := memWordsForAccess(inOff, inSize)
		if !ok {
			return 0, ErrOutOfGas
		}
		outWords, ok := memWordsForAccess(outOff, outSize)
		if !ok {
			return 0, ErrOutOfGas
		}
		words := inWords
		if outWords > words {
			words = outWords
		}
		memCost := memGasCost(fees, s.Memory.words(), words)

		gExtra := fees.Calls.Uint64()
		if hasValue && !valueIdx.IsZero() {
			gExtra += fees.CallValue.Uint64()
			if evm.config.Fork >= Homestead && evm.config.Fees.NewAccount != nil {
				to := u256ToAddress(s.Stack.back(1))
				if chargeNewAccount(evm, s, to) {
					gExtra += evm.config.Fees.NewAccount.Uint64()
				}
			}
		}

		// EIP-150: the gas forwarded to the child is capped at all-but-
		// 1/64th of what remains after this instruction's own memory/extra
		// cost, never more than what the stack actually requested. The
		// stack's gas operand is rewritten in place with the capped value
		// so callLike picks it up instead of the raw, uncapped request.
		gasSlot := s.Stack.back(0)
		requested := uint64(math.MaxUint64)
		if gasSlot.IsUint64() {
			requested = gasSlot.Uint64()
		}
		var available uint64
		if memCost+gExtra < s.Gas {
			available = s.Gas - (memCost + gExtra)
		}
		if !evm.config.SubGasCapDivisor && requested > available {
			// Without the EIP-150 cap the full request is charged, so a
			// request beyond what remains is out of gas.
			return 0, ErrOutOfGas
		}
		gCap := callGas(evm.config, available, requested)
		gasSlot.SetUint64(gCap)

		return memCost + gExtra + gCap, nil
	}
}

// chargeNewAccount reports whether a CALL that moves value into to should
// pay the new-account fee: pre-EIP-161 forks charge when the account
// doesn't exist at all; EIP-161 forks charge only when it's dead (no
// code, zero nonce, zero balance).
func chargeNewAccount(evm *EVM, s *ProgramState, to common.Address) bool {
	if evm.config.NoEmptyAccounts {
		return s.World.IsAccountDead(to)
	}
	return !s.World.AccountExists(to)
}

func opSelfDestruct(evm *EVM, s *ProgramState, op OpCode) {
	beneficiary := s.Stack.pop()
	evm.selfDestruct(s, u256ToAddress(&beneficiary))
	s.stop(nil)
}

func varGasSelfDestruct(evm *EVM, s *ProgramState, op OpCode) (uint64, error) {
	if !evm.config.ChargeSelfDestructForNewAccount || evm.config.Fees.NewAccount == nil {
		return 0, nil
	}
	beneficiary := u256ToAddress(s.Stack.back(0))
	owner := s.Env.OwnerAddr
	resurrects := false
	if evm.config.NoEmptyAccounts {
		resurrects = s.World.GetBalance(owner).Sign() > 0 && s.World.IsAccountDead(beneficiary)
	} else {
		resurrects = !s.World.AccountExists(beneficiary)
	}
	if resurrects {
		return evm.config.Fees.NewAccount.Uint64(), nil
	}
	return 0, nil
}
