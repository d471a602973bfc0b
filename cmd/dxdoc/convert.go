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
	"bytes"
	"encoding/json"
	"fmt"

	"dirpx.dev/dxdoc/dxcore/model"
	"github.com/spf13/cobra"
)

func newConvertCmd(o *options) *cobra.Command {
	var (
		to, from string
		pretty   bool
	)
	cmd := &cobra.Command{
		Use:   "convert --to json|yaml [--from json|yaml] [FILE|-]",
		Short: "Convert a document between JSON and YAML",
		Long: `Decode one document and print it in the requested format. JSON output
is compact with sorted object keys unless --pretty is set. The input format
defaults to the file extension, or JSON for stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := stdinName
			if len(args) == 1 {
				name = args[0]
			}
			if from == "" {
				from = formatOf(name)
			}
			if to != formatJSON && to != formatYAML {
				return fmt.Errorf("invalid --to %q: want json or yaml", to)
			}

			doc, err := o.load(cmd, name, from)
			if err != nil {
				return err
			}
			defer doc.Release()

			out := cmd.OutOrStdout()
			if to == formatYAML {
				data, err := model.ToYAML(doc)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			data, err := doc.MarshalJSON()
			if err != nil {
				return err
			}
			if pretty {
				var buf bytes.Buffer
				if err := json.Indent(&buf, data, "", "  "); err != nil {
					return err
				}
				data = buf.Bytes()
			}
			_, err = fmt.Fprintf(out, "%s\n", data)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&to, "to", "", "Output format (json, yaml)")
	f.StringVar(&from, "from", "", "Input format (json, yaml); defaults to the file extension")
	f.BoolVar(&pretty, "pretty", false, "Indent JSON output")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
