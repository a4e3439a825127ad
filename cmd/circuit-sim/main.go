// Command circuit-sim is a small CLI front end over the simulator core,
// exercising DC operating-point and transient analysis on circuits built in
// Go (the built-in circuits are in examples.go). Grounded on toy-spice/cmd/main.go's
// flag/log/fmt-based result printing, restructured around cobra
// subcommands (dc/tran) per SPEC_FULL.md's CLI section, the same library
// the wider example pack reaches for (github.com/spf13/cobra).
package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jfalvarez1/circuit-toy-sub001/pkg/simulation"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/topology"
	"github.com/jfalvarez1/circuit-toy-sub001/pkg/util"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "circuit-sim",
		Short: "Interactive electronic-circuit simulator core, driven from example builders",
	}
	root.AddCommand(dcCmd(), tranCmd())
	return root
}

func dcCmd() *cobra.Command {
	var example string
	cmd := &cobra.Command{
		Use:   "dc",
		Short: "Run DC operating-point analysis on a built-in example circuit",
		RunE: func(cmd *cobra.Command, args []string) error {
			build, ok := builtinExamples[example]
			if !ok {
				return fmt.Errorf("unknown example %q (known: %v)", example, exampleNames())
			}
			c, probes := build()
			sim := simulation.New(c)
			sol, err := sim.DCAnalysis()
			if err != nil {
				return err
			}
			if w := sim.GetError(); w != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			printVoltages(cmd, probes, sol.VoltageAt)
			return nil
		},
	}
	cmd.Flags().StringVar(&example, "example", "voltage-divider", "built-in example circuit to run")
	return cmd
}

func tranCmd() *cobra.Command {
	var example string
	var steps int
	var dt float64
	var adaptive bool
	cmd := &cobra.Command{
		Use:   "tran",
		Short: "Run transient analysis on a built-in example circuit",
		RunE: func(cmd *cobra.Command, args []string) error {
			build, ok := builtinExamples[example]
			if !ok {
				return fmt.Errorf("unknown example %q (known: %v)", example, exampleNames())
			}
			c, probes := build()
			sim := simulation.New(c)
			sim.SetAdaptive(adaptive)
			sim.SetTimeStep(dt)
			if _, err := sim.DCAnalysis(); err != nil {
				return err
			}
			for i := 0; i < steps; i++ {
				var err error
				if adaptive {
					err = sim.AutoTimeStep()
				} else {
					err = sim.Step(dt)
				}
				if err != nil {
					return err
				}
			}
			if w := sim.GetError(); w != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "final time: %s\n", util.FormatValueFactor(sim.Time(), "s"))
			printVoltages(cmd, probes, sim.NodeVoltage)
			return nil
		},
	}
	cmd.Flags().StringVar(&example, "example", "rc-lowpass", "built-in example circuit to run")
	cmd.Flags().IntVar(&steps, "steps", 100, "number of transient steps to advance")
	cmd.Flags().Float64Var(&dt, "dt", 1e-6, "fixed or initial timestep, seconds")
	cmd.Flags().BoolVar(&adaptive, "adaptive", true, "use adaptive timestep control")
	return cmd
}

func printVoltages(cmd *cobra.Command, probes map[string]topology.NodeID, voltageAt func(topology.NodeID) float64) {
	for name, id := range probes {
		fmt.Fprintf(cmd.OutOrStdout(), "V(%s) = %s\n", name, util.FormatValueFactor(voltageAt(id), "V"))
	}
}

func exampleNames() []string {
	names := make([]string, 0, len(builtinExamples))
	for k := range builtinExamples {
		names = append(names, k)
	}
	return names
}
