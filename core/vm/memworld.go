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

import (
	"math/big"

	"github.com/ecip-labs/levm/common"
	"github.com/ecip-labs/levm/crypto"
)

// memAccount is one account's state inside a MemWorld, grounded in the
// teacher's in-memory StateObject fields it actually needs (balance,
// nonce, code) without the trie/snapshot machinery that backs the real
// state database.
type memAccount struct {
	balance *big.Int
	nonce   uint64
	code    []byte
	codeHash common.Hash
	storage map[common.Hash]common.Hash
}

func newMemAccount() *memAccount {
	return &memAccount{balance: new(big.Int), storage: make(map[common.Hash]common.Hash)}
}

// memStorage is the Storage view of one account's slot map.
type memStorage struct {
	acct *memAccount
}

func (s memStorage) Load(addr common.Address, key common.Hash) common.Hash {
	return s.acct.storage[key]
}

func (s memStorage) Store(addr common.Address, key, value common.Hash) {
	s.acct.storage[key] = value
}

// MemWorld is a flat in-memory World, the reference backend cmd/evm and
// this package's own tests run bytecode against — analogous to the
// teacher's core/state StateDB but stripped to the bookkeeping the
// instruction set actually touches, with no trie, no snapshots, no
// persistence.
type MemWorld struct {
	accounts map[common.Address]*memAccount

	blockNumber *big.Int
	coinbase    common.Address
	timestamp   *big.Int
	difficulty  *big.Int
	gasLimit    *big.Int
	blockHashes map[uint64]common.Hash
}

// NewMemWorld builds an empty world with the given block-context values;
// individual accounts are created lazily on first touch.
func NewMemWorld(blockNumber *big.Int, coinbase common.Address, timestamp, difficulty, gasLimit *big.Int) *MemWorld {
	return &MemWorld{
		accounts:    make(map[common.Address]*memAccount),
		blockNumber: blockNumber,
		coinbase:    coinbase,
		timestamp:   timestamp,
		difficulty:  difficulty,
		gasLimit:    gasLimit,
		blockHashes: make(map[uint64]common.Hash),
	}
}

func (w *MemWorld) account(addr common.Address) *memAccount {
	a, ok := w.accounts[addr]
	if !ok {
		a = newMemAccount()
		w.accounts[addr] = a
	}
	return a
}

// SetBlockHash records the hash a BLOCKHASH lookup should return for
// number, for tests that need a deterministic chain of ancestors.
func (w *MemWorld) SetBlockHash(number uint64, hash common.Hash) {
	w.blockHashes[number] = hash
}

// CreateAccount gives addr the starting balance amount, for test and CLI
// setup before Run is invoked.
func (w *MemWorld) CreateAccount(addr common.Address, balance *big.Int) {
	a := w.account(addr)
	a.balance = new(big.Int).Set(balance)
}

func (w *MemWorld) GetBalance(addr common.Address) *big.Int {
	return new(big.Int).Set(w.account(addr).balance)
}

func (w *MemWorld) GetCode(addr common.Address) []byte {
	return w.account(addr).code
}

func (w *MemWorld) GetCodeHash(addr common.Address) common.Hash {
	a := w.account(addr)
	if len(a.code) == 0 {
		return common.Hash{}
	}
	return a.codeHash
}

func (w *MemWorld) GetNonce(addr common.Address) uint64 {
	return w.account(addr).nonce
}

func (w *MemWorld) SetNonce(addr common.Address, nonce uint64) {
	w.account(addr).nonce = nonce
}

func (w *MemWorld) GetBlockHash(number uint64) common.Hash {
	return w.blockHashes[number]
}

func (w *MemWorld) BlockNumber() *big.Int { return w.blockNumber }
func (w *MemWorld) Coinbase() common.Address { return w.coinbase }
func (w *MemWorld) Timestamp() *big.Int { return w.timestamp }
func (w *MemWorld) Difficulty() *big.Int { return w.difficulty }
func (w *MemWorld) GasLimit() *big.Int { return w.gasLimit }

func (w *MemWorld) AccountExists(addr common.Address) bool {
	_, ok := w.accounts[addr]
	return ok
}

func (w *MemWorld) IsAccountDead(addr common.Address) bool {
	a, ok := w.accounts[addr]
	if !ok {
		return true
	}
	return a.balance.Sign() == 0 && a.nonce == 0 && len(a.code) == 0
}

func (w *MemWorld) NonEmptyCodeOrNonceAccount(addr common.Address) bool {
	a, ok := w.accounts[addr]
	if !ok {
		return false
	}
	return len(a.code) != 0 || a.nonce != 0
}

func (w *MemWorld) Transfer(from, to common.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		w.account(to)
		return nil
	}
	src := w.account(from)
	if src.balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	dst := w.account(to)
	src.balance = new(big.Int).Sub(src.balance, amount)
	dst.balance = new(big.Int).Add(dst.balance, amount)
	return nil
}

func (w *MemWorld) RemoveAllEther(addr common.Address) {
	w.account(addr).balance = new(big.Int)
}

func (w *MemWorld) InitialiseAccount(addr common.Address) {
	w.account(addr)
}

// CreateAddressWithOpCode derives a CREATE address from creator's current
// nonce, then increments it, the classic keccak256(rlp(sender, nonce))[12:]
// scheme simplified to keccak256(sender || nonce-big-endian) since this
// package never carries an RLP encoder.
func (w *MemWorld) CreateAddressWithOpCode(creator common.Address) common.Address {
	a := w.account(creator)
	nonce := a.nonce
	a.nonce++

	buf := make([]byte, len(creator)+8)
	copy(buf, creator[:])
	nb := new(big.Int).SetUint64(nonce).Bytes()
	copy(buf[len(buf)-len(nb):], nb)

	hash := crypto.Keccak256(buf)
	var addr common.Address
	copy(addr[:], hash[12:])
	return addr
}

func (w *MemWorld) SaveCode(addr common.Address, code []byte) {
	a := w.account(addr)
	a.code = code
	a.codeHash = crypto.Keccak256Hash(code)
}

func (w *MemWorld) Storage(addr common.Address) Storage {
	return memStorage{acct: w.account(addr)}
}

// CombineTouchedAccounts is a no-op: every account lives in the same flat
// map shared by parent and child frames, so a child's writes are already
// visible to its parent without any merge step.
func (w *MemWorld) CombineTouchedAccounts(other World) {}
