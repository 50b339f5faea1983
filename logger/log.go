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

// Package logger defines the verbosity levels consumed by glog.V(...) calls
// throughout the vm package. It intentionally does not own a log sink; glog
// itself writes to stderr, this package only names the thresholds.
package logger

// Untyped so they convert implicitly to glog.Level at call sites like
// glog.V(logger.Debug).
const (
	Silence = iota
	Error
	Warn
	Info
	Debug
	Detail
)

const (
	reset   = "\x1b[39m"
	green   = "\x1b[32m"
	blue    = "\x1b[36m"
	yellow  = "\x1b[33m"
	red     = "\x1b[31m"
	magenta = "\x1b[35m"
)

func ColorGreen(s string) string   { return green + s + reset }
func ColorRed(s string) string     { return red + s + reset }
func ColorBlue(s string) string    { return blue + s + reset }
func ColorYellow(s string) string  { return yellow + s + reset }
func ColorMagenta(s string) string { return magenta + s + reset }
