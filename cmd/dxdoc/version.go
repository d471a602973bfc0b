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
	"encoding/json"
	"fmt"
	"strings"

	bsemver "github.com/blang/semver/v4"
	"github.com/spf13/cobra"
)

// version is overridden at build time with
// -ldflags "-X main.version=v1.2.3".
var version = "v0.1.0-dev"

// buildInfo is the machine-readable form printed by "version --json".
type buildInfo struct {
	Version    string `json:"version"`
	Major      uint64 `json:"major"`
	Minor      uint64 `json:"minor"`
	Patch      uint64 `json:"patch"`
	Prerelease string `json:"prerelease,omitempty"`
}

// parseBuildInfo accepts an optional leading "v".
func parseBuildInfo(s string) (buildInfo, error) {
	v, err := bsemver.Parse(strings.TrimPrefix(s, "v"))
	if err != nil {
		return buildInfo{}, fmt.Errorf("invalid build version %q: %w", s, err)
	}
	pre := make([]string, len(v.Pre))
	for i, p := range v.Pre {
		pre[i] = p.String()
	}
	return buildInfo{
		Version:    v.String(),
		Major:      v.Major,
		Minor:      v.Minor,
		Patch:      v.Patch,
		Prerelease: strings.Join(pre, "."),
	}, nil
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the dxdoc version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := parseBuildInfo(version)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			_, err = fmt.Fprintf(out, "dxdoc %s\n", info.Version)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the version components as JSON")
	return cmd
}
