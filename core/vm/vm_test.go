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

	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecip-labs/levm/common"
)

// runCode is the end-to-end harness every scenario below shares: a fresh
// MemWorld, a sender with ample balance, and a single frame running code
// to completion.
func runCode(t *testing.T, code []byte, gas uint64) *ProgramResult {
	t.Helper()
	world := NewMemWorld(common.Big1, common.Address{}, big.NewInt(0), big.NewInt(131072), big.NewInt(0))
	owner := common.BytesToAddress([]byte("owner"))
	world.CreateAccount(owner, common.BigPow(10, 18))

	cfg := HomesteadConfig()
	engine := New(cfg)

	result := engine.Run(&ProgramContext{
		OwnerAddr:  owner,
		CallerAddr: owner,
		OriginAddr: owner,
		Value:      big.NewInt(0),
		GasPrice:   big.NewInt(0),
		Gas:        gas,
		Program:    NewProgram(code),
		World:      world,
		Config:     cfg,
	})
	if result.Err != nil {
		t.Logf("result: %s", spew.Sdump(result))
	}
	return result
}

// Scenario 1: PUSH1 0x03 PUSH1 0x05 ADD STOP — gas 10_000; final stack top
// = 8; gasRemaining = 10_000 - (3+3+3) = 9_991.
func TestScenarioAddStop(t *testing.T) {
	code := common.Hex2Bytes("6003600501" + "00") // PUSH1 3 PUSH1 5 ADD STOP
	result := runCode(t, code, 10000)

	require.NoError(t, result.Err)
	assert.Equal(t, uint64(9991), result.GasRemaining)
}

// Scenario 2: PUSH1 0x00 PUSH1 0x00 MSTORE MSIZE STOP — MSIZE = 32. MSIZE's
// pushed value is surfaced by storing it back to memory and RETURNing it,
// since the scenario's own code halts with STOP rather than RETURN.
func TestScenarioMsizeAfterMstore(t *testing.T) {
	// PUSH1 0 PUSH1 0 MSTORE MSIZE PUSH1 0x20 MSTORE PUSH1 0x20 PUSH1 0x20 RETURN
	code := common.Hex2Bytes("60006000525960205260206020f3")
	result := runCode(t, code, 100000)

	require.NoError(t, result.Err)
	require.Len(t, result.ReturnData, 32)
	got := new(uint256.Int).SetBytes(result.ReturnData)
	assert.Equal(t, uint64(32), got.Uint64())
}

// Scenario 3: PUSH1 0x01 PUSH1 0x00 MSTORE8 PUSH1 0x00 MLOAD STOP — top =
// 0x0100...00 (big-endian byte 0 = 1). This test replaces the MLOAD with a
// RETURN of the same 32-byte memory word.
func TestScenarioMstore8ThenMload(t *testing.T) {
	// PUSH1 1 PUSH1 0 MSTORE8 PUSH1 0x20 PUSH1 0 RETURN
	code := common.Hex2Bytes("600160005360206000f3")
	result := runCode(t, code, 100000)

	require.NoError(t, result.Err)
	require.Len(t, result.ReturnData, 32)
	assert.Equal(t, byte(1), result.ReturnData[0])
	for _, b := range result.ReturnData[1:] {
		assert.Equal(t, byte(0), b)
	}
}

// Scenario 4: a valid jump to pc=4 executes cleanly. The JUMPDEST must sit
// at pc=4 for that, so the code is PUSH1 0x04 JUMP STOP JUMPDEST.
func TestScenarioValidJump(t *testing.T) {
	// PUSH1 4 JUMP STOP JUMPDEST: pc4 is the JUMPDEST, pc3 (STOP) is
	// skipped over by the jump.
	code := common.Hex2Bytes("600456005b")
	result := runCode(t, code, 10000)
	assert.NoError(t, result.Err)
}

// Scenario 5: PUSH1 0x03 JUMP STOP JUMPDEST — fails with InvalidJump(3);
// pc=3 byte is 0x00 (STOP), not a JUMPDEST.
func TestScenarioInvalidJump(t *testing.T) {
	// PUSH1 3 JUMP STOP JUMPDEST: pc3 is STOP, not a JUMPDEST.
	code := common.Hex2Bytes("600356005b")
	result := runCode(t, code, 10000)

	require.Error(t, result.Err)
	var invalid InvalidJumpError
	assert.ErrorAs(t, result.Err, &invalid)
	assert.Equal(t, uint64(3), uint64(invalid))
	assert.Equal(t, uint64(0), result.GasRemaining)
}

// pushImm encodes a PUSHn instruction carrying v, left-padded to n bytes.
func pushImm(n int, v []byte) []byte {
	return append([]byte{byte(PUSH1) + byte(n-1)}, common.LeftPadBytes(v, n)...)
}

// Scenario 6: CALL with endowment > ownBalance fails without ending the
// caller's frame; this test checks that the frame completes without error
// and that neither balance moved.
func TestScenarioCallInsufficientBalance(t *testing.T) {
	world := NewMemWorld(common.Big1, common.Address{}, big.NewInt(0), big.NewInt(0), big.NewInt(0))
	owner := common.BytesToAddress([]byte("owner"))
	world.CreateAccount(owner, big.NewInt(10))
	target := common.BytesToAddress([]byte("target"))
	world.CreateAccount(target, big.NewInt(0))

	cfg := HomesteadConfig()
	engine := New(cfg)

	// PUSH1 0 (outSize) PUSH1 0 (outOffset) PUSH1 0 (inSize) PUSH1 0
	// (inOffset) PUSH32 <value-too-large> PUSH20 <target> PUSH2 0xffff
	// (gas) CALL STOP
	var code []byte
	code = append(code, pushImm(1, []byte{0})...)                       // outSize
	code = append(code, pushImm(1, []byte{0})...)                       // outOffset
	code = append(code, pushImm(1, []byte{0})...)                       // inSize
	code = append(code, pushImm(1, []byte{0})...)                       // inOffset
	code = append(code, pushImm(32, common.BigPow(10, 20).Bytes())...)  // value > balance
	code = append(code, pushImm(20, target.Bytes())...)
	code = append(code, pushImm(2, []byte{0xff, 0xff})...)
	code = append(code, byte(CALL))
	code = append(code, byte(STOP))

	result := engine.Run(&ProgramContext{
		OwnerAddr:  owner,
		CallerAddr: owner,
		OriginAddr: owner,
		Value:      big.NewInt(0),
		GasPrice:   big.NewInt(0),
		Gas:        1000000,
		Program:    NewProgram(code),
		World:      world,
		Config:     cfg,
	})

	require.NoError(t, result.Err)
	assert.Zero(t, world.GetBalance(owner).Cmp(big.NewInt(10)), "failed CALL must not move balances")
	assert.Zero(t, world.GetBalance(target).Cmp(big.NewInt(0)), "failed CALL must not move balances")
}

// TestEip150CapsForwardedCallGas drives CALL end-to-end with an
// oversized gas request (PUSH8 0xffffffffffffffff) and a callee that
// reports its own starting gas back to the caller via GAS+RETURN. Under
// HomesteadConfig (SubGasCapDivisor: true) the callee must observe only
// all-but-1/64th of the caller's available gas, never the literal stack
// request.
func TestEip150CapsForwardedCallGas(t *testing.T) {
	world := NewMemWorld(common.Big1, common.Address{}, big.NewInt(0), big.NewInt(0), big.NewInt(0))
	owner := common.BytesToAddress([]byte("owner"))
	world.CreateAccount(owner, big.NewInt(0))
	target := common.BytesToAddress([]byte("target"))
	world.CreateAccount(target, big.NewInt(0))
	// GAS PUSH1 0 MSTORE PUSH1 0x20 PUSH1 0 RETURN
	world.SaveCode(target, common.Hex2Bytes("5a60005260206000f3"))

	cfg := HomesteadConfig()
	engine := New(cfg)

	var code []byte
	code = append(code, pushImm(1, []byte{0x20})...)                   // outSize
	code = append(code, pushImm(1, []byte{0})...)                      // outOffset
	code = append(code, pushImm(1, []byte{0})...)                      // inSize
	code = append(code, pushImm(1, []byte{0})...)                      // inOffset
	code = append(code, pushImm(1, []byte{0})...)                      // value
	code = append(code, pushImm(20, target.Bytes())...)                // addr
	code = append(code, pushImm(8, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})...) // gas
	code = append(code, byte(CALL))
	code = append(code, pushImm(1, []byte{0x20})...) // size
	code = append(code, pushImm(1, []byte{0})...)    // offset
	code = append(code, byte(RETURN))

	const startGas = 1_000_000
	result := engine.Run(&ProgramContext{
		OwnerAddr:  owner,
		CallerAddr: owner,
		OriginAddr: owner,
		Value:      big.NewInt(0),
		GasPrice:   big.NewInt(0),
		Gas:        startGas,
		Program:    NewProgram(code),
		World:      world,
		Config:     cfg,
	})

	require.NoError(t, result.Err)
	require.Len(t, result.ReturnData, 32)
	childGas := new(uint256.Int).SetBytes(result.ReturnData).Uint64()

	assert.Less(t, childGas, uint64(startGas), "child must never see the raw oversized request")
	assert.Less(t, childGas, uint64(startGas)-uint64(startGas)/64, "child budget must be capped below all-but-1/64th of the caller's gas")
}

func TestScenarioStopHaltsWithNoReturnData(t *testing.T) {
	result := runCode(t, common.Hex2Bytes("00"), 10000)
	assert.NoError(t, result.Err)
	assert.Empty(t, result.ReturnData)
}

func TestOutOfGasZeroesRemainingGas(t *testing.T) {
	result := runCode(t, common.Hex2Bytes("6003600501"), 5) // pays the first PUSH1 (3) but not the second
	require.Error(t, result.Err)
	assert.Equal(t, uint64(0), result.GasRemaining)
}
