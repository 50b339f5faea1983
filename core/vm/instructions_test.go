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
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/ecip-labs/levm/common"
	"github.com/ecip-labs/levm/crypto"
)

// newTestState builds a minimal ProgramState good enough for exercising a
// single instruction function directly, bypassing the Run loop's preflight.
func newTestState(t *testing.T) (*EVM, *ProgramState) {
	t.Helper()
	world := NewMemWorld(common.Big1, common.Address{}, big.NewInt(0), big.NewInt(0), big.NewInt(0))
	owner := common.BytesToAddress([]byte("owner"))
	world.CreateAccount(owner, big.NewInt(1000))

	cfg := HomesteadConfig()
	s := newProgramState(&ProgramContext{
		OwnerAddr: owner,
		Value:     big.NewInt(0),
		GasPrice:  big.NewInt(0),
		Gas:       100000,
		Program:   NewProgram(nil),
		World:     world,
		Config:    cfg,
	})
	return New(cfg), s
}

// twoOperandOpTests is the classic a-op-b=c table style (hex operands,
// most-significant-byte-first) the teacher's own instruction tests use.
func twoOperandOpTests(t *testing.T, fn execFn, cases [][3]string) {
	t.Helper()
	for _, c := range cases {
		evm, s := newTestState(t)
		x := new(uint256.Int).SetBytes(common.Hex2Bytes(c[0]))
		y := new(uint256.Int).SetBytes(common.Hex2Bytes(c[1]))
		s.Stack.push(y)
		s.Stack.push(x)
		fn(evm, s, 0)
		want := new(uint256.Int).SetBytes(common.Hex2Bytes(c[2]))
		assert.Equal(t, want.Hex(), s.Stack.pop().Hex(), "case %v", c)
	}
}

func TestOpAdd(t *testing.T) {
	twoOperandOpTests(t, opAdd, [][3]string{
		{"02", "03", "05"},
		{"00", "00", "00"},
	})
}

func TestOpSub(t *testing.T) {
	twoOperandOpTests(t, opSub, [][3]string{
		{"05", "03", "02"},
	})
}

func TestOpMul(t *testing.T) {
	twoOperandOpTests(t, opMul, [][3]string{
		{"04", "05", "14"},
	})
}

func TestOpDivByZeroIsZero(t *testing.T) {
	twoOperandOpTests(t, opDiv, [][3]string{
		{"0a", "00", "00"},
	})
}

func TestOpAnd(t *testing.T) {
	twoOperandOpTests(t, opAnd, [][3]string{
		{"0f", "ff", "0f"},
	})
}

func TestOpLt(t *testing.T) {
	evm, s := newTestState(t)
	y := uint256.NewInt(5)
	x := uint256.NewInt(3)
	s.Stack.push(y)
	s.Stack.push(x)
	opLt(evm, s, 0)
	assert.Equal(t, uint64(1), s.Stack.pop().Uint64())
}

func TestOpMstoreMload(t *testing.T) {
	evm, s := newTestState(t)
	offset := uint256.NewInt(0)
	val := uint256.NewInt(42)
	s.Stack.push(val)
	s.Stack.push(offset)
	opMstore(evm, s, 0)

	off2 := uint256.NewInt(0)
	s.Stack.push(off2)
	opMload(evm, s, 0)
	assert.Equal(t, uint64(42), s.Stack.pop().Uint64())
}

func TestOpSstoreSloadRoundtrip(t *testing.T) {
	evm, s := newTestState(t)
	key := uint256.NewInt(7)
	val := uint256.NewInt(99)
	s.Stack.push(val)
	s.Stack.push(key)
	opSstore(evm, s, 0)

	key2 := uint256.NewInt(7)
	s.Stack.push(key2)
	opSload(evm, s, 0)
	assert.Equal(t, uint64(99), s.Stack.pop().Uint64())
}

func TestVarGasSstoreChargesSetOnFreshSlot(t *testing.T) {
	evm, s := newTestState(t)
	key := uint256.NewInt(1)
	val := uint256.NewInt(1)
	s.Stack.push(val)
	s.Stack.push(key)
	gas, err := varGasSstore(evm, s, SSTORE)
	assert.NoError(t, err)
	assert.Equal(t, evm.config.Fees.Sset.Uint64(), gas)
}

func TestVarGasSstoreRefundsOnClear(t *testing.T) {
	evm, s := newTestState(t)
	// seed a non-zero value directly through storage
	s.Storage.Store(s.Env.OwnerAddr, u256ToHash(uint256.NewInt(1)), u256ToHash(uint256.NewInt(1)))

	key := uint256.NewInt(1)
	val := uint256.NewInt(0)
	s.Stack.push(val)
	s.Stack.push(key)
	gas, err := varGasSstore(evm, s, SSTORE)
	assert.NoError(t, err)
	assert.Equal(t, evm.config.Fees.Sreset.Uint64(), gas)
	assert.Equal(t, evm.config.Fees.RSclear.Uint64(), s.GasRefund)
}

func TestOpJumpRejectsInvalidDestination(t *testing.T) {
	evm, s := newTestState(t)
	s.Env.Program = NewProgram(common.Hex2Bytes("00"))
	dest := uint256.NewInt(5)
	s.Stack.push(dest)
	opJump(evm, s, 0)
	var invalid InvalidJumpError
	assert.ErrorAs(t, s.Err, &invalid)
}

func TestCallLikeFailureLeavesOutRegionUntouched(t *testing.T) {
	evm, s := newTestState(t)
	s.Memory.resize(32)
	s.Memory.set(0, 4, []byte{0xaa, 0xaa, 0xaa, 0xaa})

	outSize := uint256.NewInt(4)
	outOffset := uint256.NewInt(0)
	inSize := uint256.NewInt(0)
	inOffset := uint256.NewInt(0)
	value := uint256.NewInt(2000) // exceeds newTestState's 1000-wei owner balance
	addr := uint256.NewInt(0)
	gas := uint256.NewInt(1000)

	s.Stack.push(outSize)
	s.Stack.push(outOffset)
	s.Stack.push(inSize)
	s.Stack.push(inOffset)
	s.Stack.push(value)
	s.Stack.push(addr)
	s.Stack.push(gas)

	callLike(evm, s, kindCall)

	assert.Equal(t, uint64(0), s.Stack.pop().Uint64(), "failed CALL must push 0")
	assert.Equal(t, []byte{0xaa, 0xaa, 0xaa, 0xaa}, s.Memory.get(0, 4), "failed CALL must not clobber the out-region")
}

func TestOpSha3MatchesCryptoKeccak256(t *testing.T) {
	evm, s := newTestState(t)
	s.Memory.resize(32)
	size := uint256.NewInt(32)
	offset := uint256.NewInt(0)
	s.Stack.push(size)
	s.Stack.push(offset)
	opSha3(evm, s, 0)

	want := new(uint256.Int).SetBytes(crypto.Keccak256(make([]byte, 32)))
	assert.Equal(t, want.Hex(), s.Stack.pop().Hex())
}
