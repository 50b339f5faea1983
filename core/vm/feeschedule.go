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

	"github.com/ecip-labs/levm/params"
)

// FeeSchedule names every gas constant the instruction set consumes. It
// generalizes the teacher's scattered GasXStep/GasTable package vars into
// one value so a fork's price list can be swapped wholesale.
type FeeSchedule struct {
	Zero      *big.Int
	Base      *big.Int
	VeryLow   *big.Int
	Low       *big.Int
	Mid       *big.Int
	High      *big.Int
	Ext       *big.Int

	ExtcodeSize *big.Int
	ExtcodeCopy *big.Int
	Balance     *big.Int
	SLoad       *big.Int
	Calls       *big.Int
	Selfdestruct *big.Int
	ExpByte     *big.Int

	// NewAccount is charged when CALL/SELFDESTRUCT cause an account to be
	// created. Nil under gas tables that never charge it (pure Frontier).
	NewAccount *big.Int

	Sset   *big.Int
	Sreset *big.Int
	RSclear *big.Int
	RSelfdestruct *big.Int

	Create       *big.Int
	CodeDeposit  *big.Int
	Call         *big.Int
	CallValue    *big.Int
	CallStipend  *big.Int

	Exp     *big.Int
	Memory  *big.Int
	Copy    *big.Int
	Blockhash *big.Int

	Log       *big.Int
	LogData   *big.Int
	LogTopic  *big.Int

	Sha3     *big.Int
	Sha3Word *big.Int

	Jumpdest *big.Int

	QuadCoeffDiv uint64
}

// FrontierFeeSchedule is the original 2015 Frontier price list.
func FrontierFeeSchedule() *FeeSchedule {
	return &FeeSchedule{
		Zero:    big.NewInt(0),
		Base:    big.NewInt(2),
		VeryLow: big.NewInt(3),
		Low:     big.NewInt(5),
		Mid:     big.NewInt(8),
		High:    big.NewInt(10),
		Ext:     big.NewInt(20),

		ExtcodeSize: big.NewInt(20),
		ExtcodeCopy: big.NewInt(20),
		Balance:     big.NewInt(20),
		SLoad:       big.NewInt(50),
		Calls:       big.NewInt(40),
		Selfdestruct: big.NewInt(0),
		ExpByte:     big.NewInt(10),

		NewAccount: nil,

		Sset:    big.NewInt(20000),
		Sreset:  big.NewInt(5000),
		RSclear: big.NewInt(15000),
		RSelfdestruct: big.NewInt(24000),

		Create:      big.NewInt(32000),
		CodeDeposit: big.NewInt(200),
		Call:        big.NewInt(40),
		CallValue:   big.NewInt(9000),
		CallStipend: big.NewInt(2300),

		Exp:       big.NewInt(10),
		Memory:    new(big.Int).SetUint64(params.MemoryGas),
		Copy:      big.NewInt(3),
		Blockhash: big.NewInt(20),

		Log:      big.NewInt(375),
		LogData:  big.NewInt(8),
		LogTopic: big.NewInt(375),

		Sha3:     big.NewInt(30),
		Sha3Word: big.NewInt(6),

		Jumpdest: big.NewInt(1),

		QuadCoeffDiv: params.QuadCoeffDiv,
	}
}

// HomesteadFeeSchedule is Frontier with EIP-150's "CreateBySuicide" gas
// table applied: EXTCODESIZE/EXTCODECOPY/BALANCE/SLOAD/CALL*/SELFDESTRUCT
// all became dearer, and a bare SELFDESTRUCT to a previously-nonexistent
// account charges NewAccount on top.
func HomesteadFeeSchedule() *FeeSchedule {
	fs := FrontierFeeSchedule()
	fs.ExtcodeSize = big.NewInt(700)
	fs.ExtcodeCopy = big.NewInt(700)
	fs.Balance = big.NewInt(400)
	fs.SLoad = big.NewInt(200)
	fs.Calls = big.NewInt(700)
	fs.Selfdestruct = big.NewInt(5000)
	fs.NewAccount = big.NewInt(25000)
	return fs
}
