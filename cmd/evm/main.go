// Copyright 2014 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

// evm runs a single piece of EVM bytecode against a fresh in-memory world
// and reports the outcome.
package main

import (
	"fmt"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
	"gopkg.in/urfave/cli.v1"

	"github.com/ecip-labs/levm/common"
	"github.com/ecip-labs/levm/core/vm"
	"github.com/ecip-labs/levm/logger"
	"github.com/ecip-labs/levm/logger/glog"
)

// Version is the application revision identifier. It can be set with the
// linker as in: go build -ldflags "-X main.Version="`git describe --tags`
var Version = "unknown"

var (
	CodeFlag = cli.StringFlag{
		Name:  "code",
		Usage: "EVM code",
	}
	GasFlag = cli.StringFlag{
		Name:  "gas",
		Usage: "gas limit for the evm",
		Value: "10000000000",
	}
	PriceFlag = cli.StringFlag{
		Name:  "price",
		Usage: "gas price set for the evm",
		Value: "0",
	}
	ValueFlag = cli.StringFlag{
		Name:  "value",
		Usage: "value set for the evm",
		Value: "0",
	}
	DumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "dumps the state of the touched accounts after the run",
	}
	InputFlag = cli.StringFlag{
		Name:  "input",
		Usage: "input for the EVM",
	}
	SysStatFlag = cli.BoolFlag{
		Name:  "sysstat",
		Usage: "display system stats",
	}
	VerbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "sets the verbosity level",
	}
	CreateFlag = cli.BoolFlag{
		Name:  "create",
		Usage: "indicates the action should be create rather than call",
	}
	ForkFlag = cli.StringFlag{
		Name:  "fork",
		Usage: "ruleset to run under: frontier, homestead, or spurious",
		Value: "homestead",
	}
)

var app *cli.App

func init() {
	app = cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Version = Version
	app.Usage = "the evm command line interface"
	app.Action = run
	app.Flags = []cli.Flag{
		CreateFlag,
		VerbosityFlag,
		SysStatFlag,
		CodeFlag,
		GasFlag,
		PriceFlag,
		ValueFlag,
		DumpFlag,
		InputFlag,
		ForkFlag,
	}
}

func configForFork(name string) *vm.EvmConfig {
	switch name {
	case "frontier":
		return vm.FrontierConfig()
	case "spurious":
		return vm.SpuriousDragonConfig()
	default:
		return vm.HomesteadConfig()
	}
}

func run(ctx *cli.Context) error {
	glog.SetToStderr(true)
	glog.SetV(ctx.GlobalInt(VerbosityFlag.Name))

	valueFlag, ok := new(big.Int).SetString(ctx.GlobalString(ValueFlag.Name), 0)
	if !ok {
		log.Fatalf("malformed %s flag value %q", ValueFlag.Name, ctx.GlobalString(ValueFlag.Name))
	}
	gasFlag, ok := new(big.Int).SetString(ctx.GlobalString(GasFlag.Name), 0)
	if !ok {
		log.Fatalf("malformed %s flag value %q", GasFlag.Name, ctx.GlobalString(GasFlag.Name))
	}
	priceFlag, ok := new(big.Int).SetString(ctx.GlobalString(PriceFlag.Name), 0)
	if !ok {
		log.Fatalf("malformed %s flag value %q", PriceFlag.Name, ctx.GlobalString(PriceFlag.Name))
	}

	sender := common.BytesToAddress([]byte("sender"))
	t := uint64(time.Now().Unix())

	world := vm.NewMemWorld(
		common.Big1,
		common.BytesToAddress([]byte("coinbase")),
		new(big.Int).SetUint64(t),
		big.NewInt(131072),
		gasFlag,
	)
	world.CreateAccount(sender, common.BigPow(10, 30))

	cfg := configForFork(ctx.GlobalString(ForkFlag.Name))
	engine := vm.New(cfg)

	progCtx := &vm.ProgramContext{
		OwnerAddr:  sender,
		CallerAddr: sender,
		OriginAddr: sender,
		Value:      valueFlag,
		GasPrice:   priceFlag,
		Gas:        gasFlag.Uint64(),
		World:      world,
		Config:     cfg,
	}

	tstart := time.Now()

	var result *vm.ProgramResult
	if ctx.GlobalBool(CreateFlag.Name) {
		code := append(common.Hex2Bytes(ctx.GlobalString(CodeFlag.Name)), common.Hex2Bytes(ctx.GlobalString(InputFlag.Name))...)
		progCtx.Program = vm.NewProgram(code)
		progCtx.InputData = nil
		result = engine.Run(progCtx)
	} else {
		receiver := common.BytesToAddress([]byte("receiver"))
		code := common.Hex2Bytes(ctx.GlobalString(CodeFlag.Name))
		world.SaveCode(receiver, code)
		progCtx.OwnerAddr = receiver
		progCtx.Program = vm.NewProgram(code)
		progCtx.InputData = common.Hex2Bytes(ctx.GlobalString(InputFlag.Name))
		result = engine.Run(progCtx)
	}
	vmdone := time.Since(tstart)

	if ctx.GlobalBool(DumpFlag.Name) {
		fmt.Println(color.CyanString("touched accounts:"))
		for _, addr := range append([]common.Address{sender}, result.AddressesToDelete...) {
			fmt.Printf("  %s balance=%s\n", addr.Hex(), world.GetBalance(addr))
		}
	}

	if ctx.GlobalBool(SysStatFlag.Name) {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		fmt.Printf("vm took %v\n", vmdone)
		fmt.Printf(`alloc:      %d
tot alloc:  %d
no. malloc: %d
heap alloc: %d
heap objs:  %d
num gc:     %d
`, mem.Alloc, mem.TotalAlloc, mem.Mallocs, mem.HeapAlloc, mem.HeapObjects, mem.NumGC)
	}

	if glog.V(logger.Debug) {
		glog.V(logger.Debug).Infof("logs emitted: %d, internal txs: %d, refund: %d\n", len(result.Logs), len(result.InternalTxs), result.GasRefund)
	}

	fmt.Printf("OUT: 0x%x\n", result.ReturnData)
	if result.Err != nil {
		fmt.Println(color.RedString("ERROR: %v", result.Err))
	} else {
		fmt.Println(color.GreenString("OK"))
	}
	fmt.Printf("GAS USED: %d\n", gasFlag.Uint64()-result.GasRemaining)
	fmt.Printf("GAS REMAINING: %d\n", result.GasRemaining)
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
