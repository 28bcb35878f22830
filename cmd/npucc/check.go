// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ajroetker/npucc/internal/legality"
)

func newCheckCmd() *cobra.Command {
	var listRules bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run only the legality checker and print accepted/rejected ops",
		RunE: func(cmd *cobra.Command, args []string) error {
			checker := legality.NewChecker(slog.Default())

			if listRules {
				for _, r := range checker.Rules() {
					fmt.Printf("%s\t%s\n", r.Name, r.Doc)
				}
				return nil
			}

			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if cfg.GraphPath == "" {
				return fmt.Errorf("check: --graph is required")
			}
			sg, err := loadGraph(cfg.GraphPath)
			if err != nil {
				return err
			}
			g := legality.NewGraph(sg)
			for _, op := range sg.AllOps() {
				res := checker.Check(op, g)
				status := "accepted"
				if !res.Supported {
					status = "rejected: " + res.Rule
					if res.Diagnostic != "" {
						status += " (" + res.Diagnostic + ")"
					}
				}
				fmt.Printf("%s\t%s\t%s\n", op.Name, op.Kind, status)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listRules, "list-rules", false, "Print the full enumerable diagnostic catalogue instead of checking a graph")
	return cmd
}
