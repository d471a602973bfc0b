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
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dirpx.dev/dxdoc/dxcore/jsondoc"
	"dirpx.dev/dxdoc/dxcore/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const stdinName = "-"

// options holds the global flags shared by every subcommand.
type options struct {
	logLevel string
	buckets  int
	capacity int
	level    *slog.LevelVar
}

func newRootCmd(ll *slog.LevelVar) *cobra.Command {
	o := &options{level: ll}
	root := &cobra.Command{
		Use:           "dxdoc",
		Short:         "Check, inspect and convert JSON documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.apply()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	f.IntVar(&o.buckets, "buckets", jsondoc.DefaultObjectBuckets, "Bucket count of every parsed object")
	f.IntVar(&o.capacity, "capacity", jsondoc.DefaultArrayCapacity, "Initial capacity of every parsed array")

	root.AddCommand(newCheckCmd(o), newStatsCmd(o), newConvertCmd(o), newVersionCmd())
	return root
}

func (o *options) apply() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(o.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: want debug, info, warn or error", o.logLevel)
	}
	if o.level != nil {
		o.level.Set(lvl)
	}
	if o.buckets < 1 {
		return fmt.Errorf("invalid --buckets %d: must be at least 1", o.buckets)
	}
	if o.capacity < 1 {
		return fmt.Errorf("invalid --capacity %d: must be at least 1", o.capacity)
	}
	return nil
}

func (o *options) parseOptions() jsondoc.ParseOptions {
	return jsondoc.ParseOptions{
		ArrayCapacity: o.capacity,
		ObjectBuckets: o.buckets,
		Logger:        slog.Default(),
	}
}

// readInput returns the bytes of a named file, or of the command's stdin
// when name is "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == stdinName {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Input formats understood by load.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// formatOf guesses the format of a named input from its extension.
func formatOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

// load reads and decodes one input. The caller owns the returned document.
func (o *options) load(cmd *cobra.Command, name, format string) (*jsondoc.Document, error) {
	data, err := readInput(cmd, name)
	if err != nil {
		return nil, err
	}
	log := slog.With("input", name, "format", format, "bytes", len(data))

	switch format {
	case formatJSON:
		doc, err := jsondoc.ParseWithOptions(data, o.parseOptions())
		if err != nil {
			return nil, err
		}
		log.Debug("loaded", "doc", model.SafeString(doc, false))
		return doc, nil
	case formatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
		if node.Kind == 0 {
			return nil, fmt.Errorf("decode YAML: empty input")
		}
		doc, err := jsondoc.FromYAMLNode(&node, o.parseOptions())
		if err != nil {
			return nil, err
		}
		log.Debug("loaded", "doc", model.SafeString(doc, false))
		return doc, nil
	default:
		return nil, fmt.Errorf("unknown format %q: want json or yaml", format)
	}
}
