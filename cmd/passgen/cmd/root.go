// Package cmd implements the passgen command line.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/passgen/passgen-go/internal/config"
	"github.com/passgen/passgen-go/internal/generator"
	"github.com/passgen/passgen-go/internal/model"
	"github.com/passgen/passgen-go/internal/service"
)

type cmdFlags struct {
	Length    int
	Symbols   bool
	NoSymbols bool
	Count     int
	Seed      uint64
	Crypto    bool
	Verbose   bool
}

// flagSet takes its length and symbols defaults from the environment
// (DEFAULT_LENGTH, DEFAULT_INCLUDE_SYMBOLS), as the API server does.
func (f *cmdFlags) flagSet(gen config.Generator) *pflag.FlagSet {
	fs := pflag.NewFlagSet("passgen", pflag.ContinueOnError)
	fs.IntVarP(&f.Length, "length", "l", gen.DefaultLength, fmt.Sprintf("Password length (0-%d)", gen.MaxLength))
	fs.BoolVar(&f.Symbols, "symbols", gen.DefaultIncludeSymbols, "Include the symbols !@#$%^&*()_+")
	fs.BoolVarP(&f.NoSymbols, "no-symbols", "n", false, "Use letters and digits only")
	fs.IntVarP(&f.Count, "count", "c", 1, fmt.Sprintf("Number of passwords to generate (1-%d)", service.MaxBatch))
	fs.Uint64Var(&f.Seed, "seed", 0, "Seed for reproducible output")
	fs.BoolVar(&f.Crypto, "crypto", false, "Draw characters from crypto/rand")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Log generation settings to stderr")
	return fs
}

// NewCommand builds the root passgen command.
func NewCommand() *cobra.Command {
	var f cmdFlags
	gen := config.LoadGenerator()

	command := &cobra.Command{
		Use:           "passgen",
		Short:         "Generate random passwords",
		Long:          "Generate random passwords from letters, digits and optionally the symbols !@#$%^&*()_+",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, &f, gen)
		},
	}
	command.Flags().AddFlagSet(f.flagSet(gen))
	command.MarkFlagsMutuallyExclusive("seed", "crypto")
	command.MarkFlagsMutuallyExclusive("symbols", "no-symbols")

	return command
}

func run(c *cobra.Command, f *cmdFlags, gen config.Generator) error {
	if f.NoSymbols {
		f.Symbols = false
	}

	src := generator.GlobalSource()
	switch {
	case c.Flags().Changed("seed"):
		src = generator.NewSeededSource(f.Seed)
	case f.Crypto:
		src = generator.NewCryptoSource()
	}

	if f.Verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(c.ErrOrStderr(), nil)))
		slog.Info("generating", "length", f.Length, "symbols", f.Symbols, "count", f.Count,
			"seeded", c.Flags().Changed("seed"), "crypto", f.Crypto)
	}

	svc := service.NewGeneratorService(generator.New(src), service.GeneratorSettings{
		DefaultLength:  gen.DefaultLength,
		MaxLength:      gen.MaxLength,
		DefaultSymbols: gen.DefaultIncludeSymbols,
	})
	resp, err := svc.GenerateBatch(model.GenerateRequest{
		Length:  &f.Length,
		Symbols: &f.Symbols,
		Count:   &f.Count,
	})
	if err != nil {
		return err
	}

	for _, p := range resp.Passwords {
		fmt.Fprintln(c.OutOrStdout(), p)
	}
	return nil
}

// Run executes the command and exits non-zero on failure.
func Run() {
	if err := NewCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
