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

// World and Storage are the external collaborators the interpreter
// consumes but never implements for production use — account/trie
// persistence, networking, and block assembly live outside this package,
// the way the teacher's Environment/Database interfaces (core/vm's
// former environment.go) kept the EVM itself free of state-backend
// concerns.
package vm

import (
	"math/big"

	"github.com/ecip-labs/levm/common"
)

// Storage is the per-account persistent key/value mapping SLOAD/SSTORE
// address. A cold key reads as the zero hash.
type Storage interface {
	Load(addr common.Address, key common.Hash) common.Hash
	Store(addr common.Address, key, value common.Hash)
}

// World is every account-level fact the instruction set needs that isn't
// carried in the current frame's env: balances, code, nonces, the
// address-derivation and account-creation rules used by CREATE, and block
// metadata accessors used by BLOCKHASH/COINBASE/etc.
//
// All methods are total: an address with no account behaves as balance 0,
// empty code, nonce 0.
type World interface {
	GetBalance(addr common.Address) *big.Int
	GetCode(addr common.Address) []byte
	GetCodeHash(addr common.Address) common.Hash
	GetNonce(addr common.Address) uint64
	SetNonce(addr common.Address, nonce uint64)

	GetBlockHash(number uint64) common.Hash
	BlockNumber() *big.Int
	Coinbase() common.Address
	Timestamp() *big.Int
	Difficulty() *big.Int
	GasLimit() *big.Int

	AccountExists(addr common.Address) bool
	IsAccountDead(addr common.Address) bool
	NonEmptyCodeOrNonceAccount(addr common.Address) bool

	Transfer(from, to common.Address, amount *big.Int) error
	RemoveAllEther(addr common.Address)
	InitialiseAccount(addr common.Address)

	// CreateAddressWithOpCode derives the address CREATE assigns to a new
	// contract from its creator, consuming the creator's nonce the way
	// classic CREATE (sender, nonce) address derivation does, and returns
	// the derived address.
	CreateAddressWithOpCode(creator common.Address) common.Address

	SaveCode(addr common.Address, code []byte)

	Storage(addr common.Address) Storage

	// CombineTouchedAccounts merges another world's touched-account
	// bookkeeping into this one, used when a successful child CALL/CREATE
	// commits back into its parent's world view.
	CombineTouchedAccounts(other World)
}

// TxLogEntry is one LOGn emission.
type TxLogEntry struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
	BlockNumber uint64
}

// InternalTxKind distinguishes the operation an InternalTx traces.
type InternalTxKind byte

const (
	InternalCall InternalTxKind = iota
	InternalCallCode
	InternalDelegateCall
	InternalCreate
)

func (k InternalTxKind) String() string {
	switch k {
	case InternalCall:
		return "call"
	case InternalCallCode:
		return "callcode"
	case InternalDelegateCall:
		return "delegatecall"
	case InternalCreate:
		return "create"
	default:
		return "unknown"
	}
}

// InternalTx traces one CALL/CALLCODE/DELEGATECALL/CREATE performed by the
// currently executing frame.
type InternalTx struct {
	Kind  InternalTxKind
	From  common.Address
	To    common.Address
	Gas   uint64
	Input []byte
	Value *big.Int
}
