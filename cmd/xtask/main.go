// Command xtask drives the repository's development tasks.
//
// Usage:
//
//	xtask validate <target>      # ir, dot, spv, msl, glsl, hlsl
//	xtask clean                  # remove compiled shader artifacts
//	xtask bench [--clean]        # run benchmarks, store the report
//	xtask all                    # gofmt, go vet, go test
//
// Validation targets other than ir shell out to the matching external
// toolchain (Graphviz, spirv-tools, the Metal compiler, glslang and
// dxc/fxc), so those must be installed and on PATH.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gogpu/shaderir/xtask"
)

const xtaskVersion = "0.1.0-dev"

var (
	log     = logrus.New()
	verbose bool

	hlslCompiler = xtask.HlslDXC
	benchClean   bool
)

var rootCmd = &cobra.Command{
	Use:           "xtask",
	Short:         "Development task runner for the shader IR repository",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate snapshot outputs with the external shader toolchains",
}

var validateIRCmd = &cobra.Command{
	Use:   "ir",
	Short: "Run handle validation over the built-in module corpus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.ValidateIR(cmd.Context())
	},
}

var validateDotCmd = &cobra.Command{
	Use:   "dot",
	Short: "Check the rendered graphs with Graphviz",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.ValidateDot(cmd.Context())
	},
}

var validateSpirvCmd = &cobra.Command{
	Use:   "spv",
	Short: "Assemble and validate the SPIR-V snapshots with spirv-tools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.ValidateSpirv(cmd.Context())
	},
}

var validateMetalCmd = &cobra.Command{
	Use:   "msl",
	Short: "Compile the MSL snapshots with the Metal compiler",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.ValidateMetal(cmd.Context())
	},
}

var validateGlslCmd = &cobra.Command{
	Use:   "glsl",
	Short: "Compile the GLSL snapshots with glslangValidator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.ValidateGlsl(cmd.Context())
	},
}

var validateHlslCmd = &cobra.Command{
	Use:   "hlsl",
	Short: "Compile the HLSL snapshots per their TOML sidecars",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.ValidateHlsl(cmd.Context(), hlslCompiler)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove compiled shader artifacts from the repository root",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.Clean()
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the benchmark suite and store its report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.Bench(cmd.Context(), benchClean)
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run formatting, vet and tests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := newRunner()
		if err != nil {
			return err
		}
		return r.All(cmd.Context())
	},
}

func newRunner() (*xtask.Runner, error) {
	opts, err := xtask.OptionsFromEnv()
	if err != nil {
		return nil, err
	}
	return xtask.New(opts, log), nil
}

// compilerFlag exposes an HlslCompiler as a command line flag.
type compilerFlag struct {
	c *xtask.HlslCompiler
}

func (f compilerFlag) String() string { return f.c.String() }

func (f compilerFlag) Set(value string) error {
	c, err := xtask.ParseHlslCompiler(value)
	if err != nil {
		return err
	}
	*f.c = c
	return nil
}

func (f compilerFlag) Type() string { return "compiler" }

// hlslFlagSet returns the flags of the validate hlsl subcommand.
func hlslFlagSet(compiler *xtask.HlslCompiler) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.Var(compilerFlag{compiler}, "compiler", "HLSL compiler to validate with (dxc or fxc)")
	return flags
}

func main() {
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	rootCmd.Version = xtaskVersion
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	validateHlslCmd.Flags().AddFlagSet(hlslFlagSet(&hlslCompiler))
	benchCmd.Flags().BoolVar(&benchClean, "clean", false, "remove stored benchmark reports instead of running")

	validateCmd.AddCommand(
		validateIRCmd,
		validateDotCmd,
		validateSpirvCmd,
		validateMetalCmd,
		validateGlslCmd,
		validateHlslCmd,
	)
	rootCmd.AddCommand(validateCmd, cleanCmd, benchCmd, allCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
