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
	lru "github.com/hashicorp/golang-lru"

	"github.com/ecip-labs/levm/common"
	"github.com/ecip-labs/levm/crypto"
)

// Program is immutable bytecode plus its precomputed set of valid jump
// destinations — the generalization of the teacher's per-contract
// jumpdests cache (contract.jumpdests.has(codehash, code, to) in
// core/vm/vm.go) into a standalone value any frame can share.
type Program struct {
	Code        []byte
	CodeHash    common.Hash
	destinations map[uint64]struct{}
}

// analyse walks code once, recording every JUMPDEST byte that is not
// itself inside a PUSHn immediate.
func analyse(code []byte) map[uint64]struct{} {
	dests := make(map[uint64]struct{})
	for pc := uint64(0); pc < uint64(len(code)); pc++ {
		op := OpCode(code[pc])
		if op == JUMPDEST {
			dests[pc] = struct{}{}
		} else if op.IsPush() {
			pc += uint64(op.PushSize())
		}
	}
	return dests
}

// NewProgram analyses code directly, with no cache. Use ProgramCache for
// the memoized form CREATE/CALL path through.
func NewProgram(code []byte) *Program {
	return &Program{
		Code:         code,
		CodeHash:     crypto.Keccak256Hash(code),
		destinations: analyse(code),
	}
}

// ValidJumpDest reports whether dest names a JUMPDEST byte outside any
// PUSH immediate. Per the specification, a destination that does not fit
// in a uint64, or that was rounded/truncated getting there, is never
// valid — callers must pass the exact popped value's Uint64 only after
// confirming it fits.
func (p *Program) ValidJumpDest(dest uint64) bool {
	_, ok := p.destinations[dest]
	return ok
}

func (p *Program) Len() int { return len(p.Code) }

// At returns the opcode at pc, or STOP if pc runs off the end of code
// (the EVM convention: code is conceptually padded with implicit STOPs).
func (p *Program) At(pc uint64) OpCode {
	if pc >= uint64(len(p.Code)) {
		return STOP
	}
	return OpCode(p.Code[pc])
}

// ProgramCache memoizes Program analysis by code hash, so repeated calls
// into the same contract (recursive CALL, or many external calls across a
// block) don't re-walk the bytecode every time. Grounded in the pack's
// modern interpreter (other_examples' core/vm/interpreter.go) which keeps
// exactly this kind of analysis cache via hashicorp/golang-lru.
type ProgramCache struct {
	cache *lru.Cache
}

// NewProgramCache builds a cache holding up to size analysed programs.
func NewProgramCache(size int) *ProgramCache {
	c, err := lru.New(size)
	if err != nil {
		// Only returns an error for size <= 0; callers pass a constant.
		panic(err)
	}
	return &ProgramCache{cache: c}
}

// Get returns the Program for code, analysing and caching it on miss.
func (pc *ProgramCache) Get(code []byte) *Program {
	hash := crypto.Keccak256Hash(code)
	if v, ok := pc.cache.Get(hash); ok {
		return v.(*Program)
	}
	p := &Program{Code: code, CodeHash: hash, destinations: analyse(code)}
	pc.cache.Add(hash, p)
	return p
}
