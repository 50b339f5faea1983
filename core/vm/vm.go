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
	"time"

	set "gopkg.in/fatih/set.v0"
	"github.com/rcrowley/go-metrics"

	"github.com/ecip-labs/levm/common"
	"github.com/ecip-labs/levm/logger"
	"github.com/ecip-labs/levm/logger/glog"
)

var (
	instructionsExecuted = metrics.NewRegisteredCounter("vm/instructions", metrics.DefaultRegistry)
	outOfGasCount         = metrics.NewRegisteredCounter("vm/outofgas", metrics.DefaultRegistry)
)

// ExecEnv is the read-only environment of one executing frame: who is
// calling whom with what value and input, over which program, at what
// call depth, against which block.
type ExecEnv struct {
	OwnerAddr  common.Address
	CallerAddr common.Address
	OriginAddr common.Address
	Value      *big.Int
	GasPrice   *big.Int
	InputData  []byte
	Program    *Program
	CallDepth  int
}

// ProgramState is the full mutable state of one in-progress frame. It is
// created by the driver from a ProgramContext and mutated only through the
// instruction functions; once Halted or Err is set no further instruction
// runs against it.
type ProgramState struct {
	Stack  *stack
	Memory *memory
	PC     uint64
	Gas    uint64

	GasRefund uint64

	Storage Storage
	World   World

	InputData  []byte
	ReturnData []byte

	Env *ExecEnv

	Logs              []TxLogEntry
	InternalTxs       []InternalTx
	AddressesToDelete *set.Set

	Halted bool
	Err    error

	Config       *EvmConfig
	ProgramCache *ProgramCache
}

func newProgramState(ctx *ProgramContext) *ProgramState {
	return &ProgramState{
		Stack:  newstack(),
		Memory: newMemory(),
		PC:     0,
		Gas:    ctx.Gas,

		Storage: ctx.World.Storage(ctx.OwnerAddr),
		World:   ctx.World,

		InputData: ctx.InputData,

		Env: &ExecEnv{
			OwnerAddr:  ctx.OwnerAddr,
			CallerAddr: ctx.CallerAddr,
			OriginAddr: ctx.OriginAddr,
			Value:      ctx.Value,
			GasPrice:   ctx.GasPrice,
			InputData:  ctx.InputData,
			Program:    ctx.Program,
			CallDepth:  ctx.CallDepth,
		},

		AddressesToDelete: set.New(),

		Config:       ctx.Config,
		ProgramCache: ctx.ProgramCache,
	}
}

// spendGas deducts amount from the remaining gas. It must only be called
// after the preflight has already confirmed amount <= state.Gas.
func (s *ProgramState) spendGas(amount uint64) {
	s.Gas -= amount
}

// fail transitions the state into a terminal error and zeroes remaining
// gas. Every terminal error (OutOfGas, InvalidJump, InvalidOpCode,
// StackUnderflow, StackOverflow) consumes all gas — there is no
// partial-gas terminal error in this instruction set.
func (s *ProgramState) fail(err error) {
	s.Err = err
	s.Gas = 0
	s.Halted = true
	if err == ErrOutOfGas {
		outOfGasCount.Inc(1)
	}
}

func (s *ProgramState) stop(ret []byte) {
	s.ReturnData = ret
	s.Halted = true
}

// ProgramContext is everything needed to start a fresh frame: who is
// calling whom, with what gas/value/input, over which code, against which
// world.
type ProgramContext struct {
	OwnerAddr  common.Address
	CallerAddr common.Address
	OriginAddr common.Address

	Value    *big.Int
	GasPrice *big.Int
	Gas      uint64

	InputData []byte
	Program   *Program

	CallDepth int

	World  World
	Config *EvmConfig

	ProgramCache *ProgramCache
}

// ProgramResult is what running a ProgramContext to completion produces:
// the frame's return data, its unspent gas and accrued refund, the world
// it mutated, and every log/internal-tx/self-destruct it recorded. Err is
// set iff the frame ended on one of the taxonomy terminal errors rather
// than STOP/RETURN/falling off the end of code.
type ProgramResult struct {
	ReturnData []byte

	GasRemaining uint64
	GasRefund    uint64

	World World

	AddressesToDelete []common.Address
	Logs              []TxLogEntry
	InternalTxs       []InternalTx

	Err error
}

func newProgramResult(s *ProgramState) *ProgramResult {
	addrs := make([]common.Address, 0, s.AddressesToDelete.Size())
	s.AddressesToDelete.Each(func(item interface{}) bool {
		addrs = append(addrs, item.(common.Address))
		return true
	})
	return &ProgramResult{
		ReturnData:        s.ReturnData,
		GasRemaining:      s.Gas,
		GasRefund:         s.GasRefund,
		World:             s.World,
		AddressesToDelete: addrs,
		Logs:              s.Logs,
		InternalTxs:       s.InternalTxs,
		Err:               s.Err,
	}
}

// EVM runs Program bytecode against a World. It is single-threaded,
// synchronous, and deterministic: given an identical ProgramContext and
// World contents, Run always produces a bit-identical ProgramResult.
type EVM struct {
	jumpTable vmJumpTable
	config    *EvmConfig
}

// New builds an EVM whose instruction set and gas table are fixed by cfg
// for its whole lifetime (mirrors the teacher's own EVM{jumpTable,
// gasTable} held fixed per block in core/vm/vm.go, generalized from a
// block-number lookup to an explicit config value).
func New(cfg *EvmConfig) *EVM {
	return &EVM{
		jumpTable: newJumpTable(cfg.Fork, cfg.Fees),
		config:    cfg,
	}
}

// Run executes ctx.Program from PC 0 until it halts, errors, or runs off
// the end of code (implicit STOP).
func (evm *EVM) Run(ctx *ProgramContext) *ProgramResult {
	state := newProgramState(ctx)

	if glog.V(logger.Debug) {
		tstart := time.Now()
		codehash := ctx.Program.CodeHash
		glog.V(logger.Debug).Infof("running program %x depth=%d gas=%d\n", codehash[:4], ctx.CallDepth, ctx.Gas)
		defer func() {
			glog.V(logger.Debug).Infof("program %x done in %v, gas remaining %d\n", codehash[:4], time.Since(tstart), state.Gas)
		}()
	}

	// Preflight, in the order the specification's three-stage check
	// demands: stack underflow, then stack overflow, then gas.
	for !state.Halted && state.Err == nil {
		op := ctx.Program.At(state.PC)
		instr := evm.jumpTable[op]
		if !instr.valid {
			state.fail(InvalidOpCodeError(op))
			break
		}

		if err := state.Stack.require(instr.pop); err != nil {
			state.fail(err)
			break
		}
		if err := state.Stack.checkPush(instr.pop, instr.push); err != nil {
			state.fail(err)
			break
		}

		varGas, err := instr.varGas(evm, state, op)
		if err != nil {
			state.fail(err)
			break
		}
		cost := instr.constGas + varGas
		if cost > state.Gas {
			state.fail(ErrOutOfGas)
			break
		}
		state.spendGas(cost)

		instructionsExecuted.Inc(1)
		instr.execute(evm, state, op)
		if !instr.jumps && !state.Halted && state.Err == nil {
			state.PC++
		}
	}

	return newProgramResult(state)
}

// create implements CREATE's frame-setup, child execution, and
// success/failure accounting (specification §5.7). It is called from
// opCreate after the preflight/var-gas charge for the opcode itself has
// already been deducted from state.Gas.
func (evm *EVM) create(state *ProgramState, endowment *big.Int, initCode []byte) (common.Address, error) {
	var zero common.Address

	if state.Env.CallDepth >= evm.config.MaxCallDepth {
		return zero, ErrDepth
	}
	if state.World.GetBalance(state.Env.OwnerAddr).Cmp(endowment) < 0 {
		return zero, ErrInsufficientBalance
	}

	newAddr := state.World.CreateAddressWithOpCode(state.Env.OwnerAddr)

	// EIP-684: creating into an address that already has code or a
	// non-zero nonce is always rejected, regardless of fork, by replacing
	// the init code with a single guaranteed-abort byte.
	if state.World.NonEmptyCodeOrNonceAccount(newAddr) {
		initCode = []byte{byte(INVALID)}
	}

	if err := state.World.Transfer(state.Env.OwnerAddr, newAddr, endowment); err != nil {
		return zero, err
	}
	state.World.InitialiseAccount(newAddr)

	startGas := callGas(evm.config, state.Gas, state.Gas)

	childCtx := &ProgramContext{
		OwnerAddr:    newAddr,
		CallerAddr:   state.Env.OwnerAddr,
		OriginAddr:   state.Env.OriginAddr,
		Value:        endowment,
		GasPrice:     state.Env.GasPrice,
		Gas:          startGas,
		InputData:    nil,
		Program:      evm.program(state, initCode),
		CallDepth:    state.Env.CallDepth + 1,
		World:        state.World,
		Config:       evm.config,
		ProgramCache: state.ProgramCache,
	}

	result := evm.Run(childCtx)

	gasUsed := startGas - result.GasRemaining
	depositCost := evm.config.Fees.CodeDeposit.Uint64() * uint64(len(result.ReturnData))
	totalGas := gasUsed + depositCost

	oversize := evm.config.MaxCodeSize != 0 && len(result.ReturnData) > evm.config.MaxCodeSize
	depositFailure := totalGas > startGas

	switch {
	case oversize:
		state.spendGasUpTo(startGas)
		return zero, ErrMaxCodeSizeExceeded

	case result.Err != nil || (depositFailure && evm.config.ExceptionalFailedCodeDeposit):
		// Hard failure: nonce stays incremented (CreateAddressWithOpCode
		// already consumed it) but nothing else from the child commits.
		state.spendGasUpTo(startGas)
		return zero, ErrCodeStoreOutOfGas

	case depositFailure:
		// Frontier's soft failure: keep the child's side effects, charge
		// only what it actually used, deposit no code.
		evm.mergeChild(state, result)
		state.spendGasUpTo(gasUsed)
		return newAddr, nil

	default:
		evm.mergeChild(state, result)
		state.World.SaveCode(newAddr, result.ReturnData)
		state.spendGasUpTo(totalGas)
		state.InternalTxs = append(state.InternalTxs, InternalTx{
			Kind: InternalCreate, From: state.Env.OwnerAddr, To: newAddr,
			Gas: startGas, Input: initCode, Value: endowment,
		})
		return newAddr, nil
	}
}

// callKind distinguishes the three CALL-family variants' owner/caller/
// transfer semantics (specification §5.8's table).
type callKind byte

const (
	kindCall callKind = iota
	kindCallCode
	kindDelegateCall
)

func (evm *EVM) runCall(state *ProgramState, kind callKind, gasRequested uint64, to common.Address, value *big.Int, input []byte) ([]byte, error) {
	// The preflight already charged the forwarded gas; a call that never
	// starts gets it back, and a call that runs gets back what it left.
	if state.Env.CallDepth >= evm.config.MaxCallDepth {
		state.Gas += gasRequested
		return nil, ErrDepth
	}
	if kind == kindCall && state.World.GetBalance(state.Env.OwnerAddr).Cmp(value) < 0 {
		state.Gas += gasRequested
		return nil, ErrInsufficientBalance
	}

	if kind == kindCall {
		if err := state.World.Transfer(state.Env.OwnerAddr, to, value); err != nil {
			state.Gas += gasRequested
			return nil, err
		}
	}

	owner := to
	caller := state.Env.OwnerAddr
	origin := state.Env.OriginAddr
	effectiveValue := value
	if kind == kindCallCode {
		owner = state.Env.OwnerAddr
	}
	if kind == kindDelegateCall {
		owner = state.Env.OwnerAddr
		caller = state.Env.CallerAddr
		effectiveValue = state.Env.Value
	}

	code := state.World.GetCode(to)
	childCtx := &ProgramContext{
		OwnerAddr:    owner,
		CallerAddr:   caller,
		OriginAddr:   origin,
		Value:        effectiveValue,
		GasPrice:     state.Env.GasPrice,
		Gas:          gasRequested,
		InputData:    input,
		Program:      evm.program(state, code),
		CallDepth:    state.Env.CallDepth + 1,
		World:        state.World,
		Config:       evm.config,
		ProgramCache: state.ProgramCache,
	}

	result := evm.Run(childCtx)
	if result.Err == nil {
		evm.mergeChild(state, result)
		var kindTx InternalTxKind
		switch kind {
		case kindCall:
			kindTx = InternalCall
		case kindCallCode:
			kindTx = InternalCallCode
		case kindDelegateCall:
			kindTx = InternalDelegateCall
		}
		state.InternalTxs = append(state.InternalTxs, InternalTx{
			Kind: kindTx, From: caller, To: to, Gas: gasRequested, Input: input, Value: effectiveValue,
		})
	}
	state.Gas += result.GasRemaining
	return result.ReturnData, result.Err
}

// selfDestruct implements SELFDESTRUCT (specification §5.9): pay out the
// owner's balance to the named beneficiary and mark owner for removal at
// the transaction boundary.
func (evm *EVM) selfDestruct(state *ProgramState, beneficiary common.Address) {
	owner := state.Env.OwnerAddr
	if !state.AddressesToDelete.Has(owner) {
		state.GasRefund += evm.config.Fees.RSelfdestruct.Uint64()
	}
	balance := state.World.GetBalance(owner)
	if owner != beneficiary {
		state.World.Transfer(owner, beneficiary, balance)
	} else {
		state.World.RemoveAllEther(owner)
	}
	state.AddressesToDelete.Add(owner)
}

// program resolves code through the shared analysis cache when one is
// configured, else analyses it directly.
func (evm *EVM) program(state *ProgramState, code []byte) *Program {
	if state.ProgramCache != nil {
		return state.ProgramCache.Get(code)
	}
	return NewProgram(code)
}

// mergeChild folds a successfully-run child frame's refund, logs, and
// self-destruct set back into the parent, per specification §5.7/§5.8
// "always merge gasRefund, logs, addressesToDelete on non-hard-failure".
func (evm *EVM) mergeChild(state *ProgramState, result *ProgramResult) {
	state.GasRefund += result.GasRefund
	state.Logs = append(state.Logs, result.Logs...)
	state.InternalTxs = append(state.InternalTxs, result.InternalTxs...)
	for _, a := range result.AddressesToDelete {
		state.AddressesToDelete.Add(a)
	}
	state.World.CombineTouchedAccounts(result.World)
}

// spendGasUpTo deducts amount from state.Gas, saturating at zero rather
// than underflowing a uint64 if amount was computed slightly too large
// due to a caller passing startGas instead of a strictly-smaller used
// figure (e.g. the hard-failure CREATE path, which consumes all of
// startGas even if the child returned some of it unused).
func (s *ProgramState) spendGasUpTo(amount uint64) {
	if amount >= s.Gas {
		s.Gas = 0
		return
	}
	s.Gas -= amount
}
