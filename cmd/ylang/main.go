// ylang CLI - inspect and drive a ylang runtime from the shell
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/shawwn/ylang/config"
	"github.com/shawwn/ylang/lisp"
	"github.com/shawwn/ylang/reader"
	"github.com/shawwn/ylang/runtime"
	"github.com/shawwn/ylang/server"
	"github.com/shawwn/ylang/symbol"
)

var (
	configPath string
	imagePath  string
	verbose    int
)

var rootCmd = &cobra.Command{
	Use:   "ylang",
	Short: "Symbol table and builtin runtime",
	Long: `ylang hosts a symbol table (obarray) and its core builtins.
Configuration is read from ylang.toml in the current directory or the
nearest parent, or from the file named by --config.`,
	SilenceUsage: true,
}

var callCmd = &cobra.Command{
	Use:   "call NAME [ARGS...]",
	Short: "Call a builtin with printed-form arguments",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		vals := make([]lisp.Value, 0, len(args)-1)
		for _, a := range args[1:] {
			v, err := reader.Read(rt.Table(), a)
			if err != nil {
				return err
			}
			vals = append(vals, v)
		}
		result, err := rt.Call(args[0], vals...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), lisp.Sprint(result))
		return nil
	},
}

var atomsCmd = &cobra.Command{
	Use:   "atoms",
	Short: "List interned symbols in obarray order",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		rt.Table().MapAtoms(func(s *symbol.Symbol) {
			fmt.Fprintf(out, "%6d  %s\n", s.ID(), s)
		})
		return nil
	},
}

var subrsCmd = &cobra.Command{
	Use:   "subrs",
	Short: "List registered builtins and their arity",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		for _, subr := range rt.Registry().Subrs() {
			fmt.Fprintln(cmd.OutOrStdout(), subr.Signature())
		}
		return nil
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		return runREPL(rt, "y> ")
	},
}

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Start the language server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		return server.NewLSP(rt).Run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to ylang.toml (default: search upward from the working directory)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v",
		"Increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&imagePath, "image", "",
		"Start from a snapshot file instead of a fresh runtime")

	rootCmd.AddCommand(callCmd, atomsCmd, subrsCmd, replCmd, lspCmd, imageCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads ylang.toml and configures logging from it. The -v flag
// raises the configured verbosity.
func loadConfig() (*config.File, error) {
	var (
		f   *config.File
		err error
	)
	if configPath != "" {
		f, err = config.LoadFile(configPath)
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			f, err = config.FindAndLoad(wd)
		}
	}
	if err != nil {
		return nil, err
	}
	if f == nil {
		f = config.Default()
	}

	verbosity := f.Log.Verbosity + verbose
	if f.Log.Path != "" {
		path := f.Log.Path
		if !filepath.IsAbs(path) && f.Dir != "" {
			path = filepath.Join(f.Dir, path)
		}
		commonlog.Configure(verbosity, &path)
	} else {
		commonlog.Configure(verbosity, nil)
	}
	return f, nil
}

func openRuntime() (*runtime.Runtime, error) {
	f, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return restoreRuntime(f)
}
