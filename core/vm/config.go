// Copyright 2017 (c) ETCDEV Team
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

// Fork names a protocol upgrade that changes instruction-set or gas-table
// behavior. It generalizes the teacher's block-number-keyed RuleSet
// lookups (IsHomestead(blockNumber), IsAtlantis(blockNumber)) into an
// explicit, directly-settable value — the VM here is handed a config, not
// a chain to consult.
type Fork byte

const (
	Frontier Fork = iota
	Homestead
)

// EvmConfig bundles every knob the instruction set and gas calculation
// consult. The zero value is not usable; use FrontierConfig,
// HomesteadConfig or SpuriousDragonConfig.
type EvmConfig struct {
	Fork Fork
	Fees *FeeSchedule

	// MaxCodeSize bounds the size of code CREATE may deposit. Zero means
	// unbounded (pre-EIP-170 Frontier/Homestead behavior).
	MaxCodeSize int

	// SubGasCapDivisor enables the EIP-150 "all but 1/64th" cap on gas
	// forwarded to CALL/CALLCODE/DELEGATECALL/CREATE children. Frontier
	// forwarded the full requested amount; Homestead (by EIP-150) caps it.
	SubGasCapDivisor bool

	// ExceptionalFailedCodeDeposit makes CREATE fail entirely (discarding
	// the child's world changes) when gas runs out paying for code
	// deposit, rather than the Frontier "soft failure" that keeps the
	// child's side effects and simply returns no code.
	ExceptionalFailedCodeDeposit bool

	// NoEmptyAccounts enables EIP-161: dead accounts (no code, zero nonce,
	// zero balance) do not count as "existing" for CALL's new-account
	// charge or SELFDESTRUCT's new-account charge.
	NoEmptyAccounts bool

	// ChargeSelfDestructForNewAccount enables EIP-150's rule that
	// SELFDESTRUCT pays the new-account fee when it resurrects a
	// nonexistent/dead beneficiary.
	ChargeSelfDestructForNewAccount bool

	// MaxCallDepth bounds CALL/CREATE recursion. The specification fixes
	// this at 1024; exposed here only so tests can shrink it.
	MaxCallDepth int
}

// FrontierConfig is the original 2015 ruleset: no gas cap on forwarded
// calls, no code-size limit, soft CREATE failure, empty accounts treated
// as existing.
func FrontierConfig() *EvmConfig {
	return &EvmConfig{
		Fork:                            Frontier,
		Fees:                            FrontierFeeSchedule(),
		MaxCodeSize:                     0,
		SubGasCapDivisor:                false,
		ExceptionalFailedCodeDeposit:    false,
		NoEmptyAccounts:                 false,
		ChargeSelfDestructForNewAccount: false,
		MaxCallDepth:                    1024,
	}
}

// HomesteadConfig layers EIP-150 (gas cap + dearer gas table) and
// Homestead's exceptional CREATE failure on top of Frontier. EIP-158/161
// (NoEmptyAccounts) and EIP-170 (MaxCodeSize) are later Spurious Dragon
// changes; set them explicitly via SpuriousDragonConfig.
func HomesteadConfig() *EvmConfig {
	return &EvmConfig{
		Fork:                            Homestead,
		Fees:                            HomesteadFeeSchedule(),
		MaxCodeSize:                     0,
		SubGasCapDivisor:                true,
		ExceptionalFailedCodeDeposit:    true,
		NoEmptyAccounts:                 false,
		ChargeSelfDestructForNewAccount: true,
		MaxCallDepth:                    1024,
	}
}

// SpuriousDragonConfig layers EIP-158/161 (empty-account pruning),
// EIP-170 (24576-byte max code size), and EIP-684 (create collision,
// enforced unconditionally by CREATE regardless of fork — see
// EVM.create in vm.go) on top of Homestead.
func SpuriousDragonConfig() *EvmConfig {
	cfg := HomesteadConfig()
	cfg.MaxCodeSize = 24576
	cfg.NoEmptyAccounts = true
	return cfg
}

// gasCapOf applies the EIP-150 "all but 1/64th" rule when enabled, else
// returns allGas unchanged.
func (c *EvmConfig) gasCapOf(allGas uint64) uint64 {
	if !c.SubGasCapDivisor {
		return allGas
	}
	return allGas - allGas/64
}
