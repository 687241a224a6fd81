package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aurorascript/aurora/internal/config"
	"github.com/aurorascript/aurora/pkg/aurora/aurora"
	"github.com/aurorascript/aurora/pkg/aurora/repl"
)

// version is set at compile time via -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "aurora [file]",
		Short: "AuroraLang interpreter",
		Long:  "aurora evaluates an AuroraLang source file, or starts an interactive REPL when given no file.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(os.Getenv)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return repl.RunWithConfig(cmd.OutOrStdout(), version, cfg)
			}
			return runFile(cmd, args[0], cfg)
		},
	}
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the interpreter version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

func runFile(cmd *cobra.Command, path string, cfg *config.Config) error {
	opts := []aurora.Option{aurora.WithStdout(cmd.OutOrStdout())}
	if cfg != nil && cfg.ModuleRoot != "" {
		opts = append(opts, aurora.WithModuleRoot(cfg.ModuleRoot))
	}
	it := aurora.New(opts...)
	result := it.RunFile(path)
	if result.Err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), result.Error())
		return result.Err
	}
	return nil
}
