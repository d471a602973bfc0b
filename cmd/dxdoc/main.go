/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Command dxdoc checks, inspects and converts JSON documents with the
// dxdoc parser.
//
// Usage:
//
//	dxdoc check [FILE|-]...
//	dxdoc stats [--json] [FILE|-]
//	dxdoc convert --to json|yaml [--from json|yaml] [--pretty] [FILE|-]
//	dxdoc version [--json]
//
// Global flags --log-level, --buckets and --capacity apply to every
// subcommand.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "dxdoc: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	ll := &slog.LevelVar{}
	ll.Set(slog.LevelInfo)
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	return newRootCmd(ll).Execute()
}
