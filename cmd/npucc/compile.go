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
	"os"

	"github.com/spf13/cobra"

	"github.com/ajroetker/npucc/internal/config"
	"github.com/ajroetker/npucc/internal/legality"
	"github.com/ajroetker/npucc/internal/lut"
	"github.com/ajroetker/npucc/internal/npuir"
	"github.com/ajroetker/npucc/internal/packer"
	"github.com/ajroetker/npucc/pkg/npuapi"
)

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "Run legality checking, pass packing and LUT allocation over a graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			return runCompile(cfg)
		},
	}
}

func runCompile(cfg config.Config) error {
	if cfg.GraphPath == "" {
		return fmt.Errorf("compile: --graph is required")
	}
	sg, err := loadGraph(cfg.GraphPath)
	if err != nil {
		return err
	}

	geo, err := config.ResolveGeometry(cfg)
	if err != nil {
		return err
	}

	checkGraph(sg)

	passes := packGraph(sg)

	cmds := buildCommandStream(sg, passes)
	cmds = lut.Rewrite(sg, cmds, geo)

	payload, err := emitStub(cmds)
	if err != nil {
		return err
	}

	if cfg.OutputPath != "" {
		if err := os.WriteFile(cfg.OutputPath, payload, 0o644); err != nil {
			return fmt.Errorf("compile: write output: %w", err)
		}
	}
	slog.Info("compile finished", "passes", len(passes), "commands", len(cmds), "output_bytes", len(payload))
	return nil
}

// checkGraph runs the legality checker over every op in declaration order,
// marking unsupported ops ineligible for NPU placement so the packer's
// wildcard fallback row routes them to CPU; the checker's rejections also
// produce the diagnostics spec.md §4.5 calls for.
func checkGraph(sg *npuir.Subgraph) []legality.Result {
	checker := legality.NewChecker(slog.Default())
	g := legality.NewGraph(sg)
	var results []legality.Result
	for _, op := range sg.AllOps() {
		res := checker.Check(op, g)
		if !res.Supported {
			op.RunOnNPU = false
		}
		results = append(results, res)
	}
	return results
}

func packGraph(sg *npuir.Subgraph) []*npuir.Pass {
	pk := packer.NewPacker(sg, slog.Default())
	return pk.Pack()
}

// buildCommandStream derives a minimal high-level command stream from the
// packed passes: a DMACommand for every LUT-purposed intermediate a pass
// absorbed, followed by the pass's own NPU-stripe command. This is the
// core's emission stub (spec.md §4.5's out-of-scope execution boundary) —
// a real register-command-stream generator operates on the richer
// NpuOperation list pkg/npuapi's types describe, not on this list.
func buildCommandStream(sg *npuir.Subgraph, passes []*npuir.Pass) []lut.Command {
	var cmds []lut.Command
	for _, p := range passes {
		for _, tid := range p.Intermediates {
			t := sg.Tensor(tid)
			if t == nil || t.Purpose != npuir.PurposeLUT {
				continue
			}
			cmds = append(cmds, lut.DMACommand{
				OutputTensor:  tid,
				OutputPurpose: t.Purpose,
				EquivalenceID: sg.Intern(t.Name),
				Size:          lut.SlotSize,
			})
		}
		if p.Placement != npuir.PlacementNpu {
			continue
		}
		usesLUT := false
		if primary := sg.Op(p.PrimaryOp); primary != nil {
			usesLUT = primary.Activation != nil && primary.Activation.Kind == npuir.ActivationTableLookup
		}
		cmds = append(cmds, lut.StripeCommand{PrimaryOp: p.PrimaryOp, UsesLUT: usesLUT})
	}
	return cmds
}

// emitStub turns the rewritten command stream into a driver payload via
// the stub collaborators; a real build wires a RegisterStreamGenerator and
// DriverPackager obtained from the host toolchain instead.
func emitStub(cmds []lut.Command) ([]byte, error) {
	gen := npuapi.NewStubStreamGenerator()
	ops := make([]any, len(cmds))
	for i, c := range cmds {
		ops[i] = c
	}
	words, err := npuapi.GenerateRegisterCommandStream(gen, ops, npuapi.AcceleratorUnknown)
	if err != nil {
		return nil, fmt.Errorf("compile: %w (collaborator not wired; this is expected without a real Ethos-U toolchain)", err)
	}
	packager := npuapi.NewStubDriverPackager()
	payload, err := npuapi.CreateDriverPayload(packager, words, npuapi.AcceleratorUnknown)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return payload, nil
}
