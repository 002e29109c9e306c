// Command tvm is the CLI driver: it turns a .vm source file into a Program
// and either runs it or, via the `asm` subcommand, just reports what the
// builder resolved.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tvm-project/tvm/internal/diag"
	"github.com/tvm-project/tvm/internal/lexer"
	"github.com/tvm-project/tvm/internal/preprocess"
	"github.com/tvm-project/tvm/vm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tvm",
		Short: "A register-based virtual machine",
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newRunCmd())
	root.AddCommand(newAsmCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		memSize int
		debug   bool
		budget  int
		dump    bool
	)

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Assemble and execute a .vm source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := diag.New(debug)
			if err != nil {
				return err
			}
			defer log.Sync()

			prog, err := buildProgram(args[0], log)
			if err != nil {
				return err
			}

			if dump {
				disassemble(prog, cmd.ErrOrStderr())
			}

			m := vm.NewMachine(memSize)
			m.Debug = debug
			m.Out = cmd.OutOrStdout()

			interp := vm.NewInterp(prog, m)
			interp.Budget = budget

			if err := interp.Run(); err != nil {
				log.Error("runtime fault", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&memSize, "mem-size", vm.DefaultMemorySize, "linear memory size in bytes")
	cmd.Flags().BoolVar(&debug, "debug", false, "trap runtime faults instead of leaving them undefined")
	cmd.Flags().IntVar(&budget, "budget", 0, "abort after this many executed instructions (0 = unbounded)")
	cmd.Flags().BoolVar(&dump, "dump", false, "disassemble the program to stderr before running")

	return cmd
}

func newAsmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asm <file>",
		Short: "Assemble a .vm source file and report the label table, without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := diag.New(false)
			if err != nil {
				return err
			}
			defer log.Sync()

			prog, err := buildProgram(args[0], log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d instructions, %d labels\n", len(prog.Code)-1, len(prog.Labels))
			for name, idx := range prog.Labels {
				fmt.Fprintf(out, "  %-20s -> %d\n", name, idx)
			}
			return nil
		},
	}
	return cmd
}

func buildProgram(filename string, log *zap.Logger) (*vm.Program, error) {
	src, err := preprocess.File(filename)
	if err != nil {
		log.Error("preprocess failed", zap.String("file", filename), zap.Error(err))
		return nil, err
	}

	lines, err := lexer.New(strings.NewReader(src), filename).Lines()
	if err != nil {
		log.Error("lex failed", zap.String("file", filename), zap.Error(err))
		return nil, err
	}

	prog, err := vm.Build(lines)
	if err != nil {
		log.Error("parse failed", zap.String("file", filename), zap.Error(err))
		return nil, err
	}

	return prog, nil
}

// disassemble prints one line per instruction: index, mnemonic, and its
// resolved operands, so `--dump` shows what the builder actually bound
// (registers by name, immediates by value, memory operands as `[reg+N]`)
// rather than just the bare opcode.
func disassemble(p *vm.Program, w io.Writer) {
	for i, op := range p.Code {
		fmt.Fprintf(w, "%4d  %s%s\n", i, op, formatOperands(p.Args[i]))
	}
}

func formatOperands(args []vm.Operand) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return " " + strings.Join(parts, ", ")
}
