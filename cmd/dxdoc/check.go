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

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newCheckCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check [FILE|-]...",
		Short: "Parse each input and report whether it is valid JSON",
		Long: `Parse each input as a single JSON value and print "ok" or the
error, including the byte offset of the first syntax error. Reads stdin when
no input is given. Fails when any input fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{stdinName}
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, name := range args {
				doc, err := o.load(cmd, name, formatJSON)
				if err == nil {
					err = doc.Validate()
					doc.Release()
				}
				if err != nil {
					failed++
					slog.Debug("check failed", "input", name, "error", err)
					fmt.Fprintf(out, "%s: %v\n", name, err)
					continue
				}
				fmt.Fprintf(out, "%s: ok\n", name)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d inputs failed", failed, len(args))
			}
			return nil
		},
	}
}
