/*
Cnf converts a context-free grammar into Chomsky Normal Form.

It reads a grammar from a grammar file or from the command line, runs it
through the normalization pipeline, and prints the rules of the result. It can
also start an interactive session for building a grammar one rule at a time.

Usage:

	cnf [flags] FILE
	cnf [flags] -e RULES
	cnf -i [flags] [FILE]

FILE is either a TOML grammar file or a binary grammar file ending in ".cnfb"
as written by --out.

The flags are:

	-v, --version
		Give the current version of chomsky and then exit.

	-e, --expr RULES
		Read the grammar from RULES instead of from a file, such as
		'S -> a S b | ε'. Rules are separated by ';'.

	-k, --keep-empty
		If the grammar generates the empty string, keep it in the language of
		the normal form with a production from the start symbol to ε.

	-t, --trace
		Print the grammar after each stage of the conversion.

	--table
		Print grammars as bordered tables.

	-n, --nullable
		Print the nullable non-terminals of the input grammar.

	-a, --accept STRING
		Check whether the normal form generates STRING, given as terminals
		separated by spaces. May be given more than once.

	--enumerate N
		Print every string of at most N terminals that the grammar generates.

	--sample N
		Print a random string with a derivation tree at most N deep.

	--seed SEED
		Seed the random source used by --sample. Defaults to the current time.

	--dfa
		Print the DFA of the input grammar. The grammar must be right-linear.

	-o, --out FILE
		Write the normal form to FILE. A name ending in ".cnfb" gives the
		binary format; anything else is written as a TOML grammar file.

	-i, --interactive
		Start an interactive session, with FILE loaded if given. For an
		explanation of the commands, type "HELP" once in a session. To exit,
		type "QUIT".

	-d, --direct
		Force reading directly from the console as opposed to using GNU readline
		based routines for reading command input even if launched in a tty with
		stdin and stdout.
*/
package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dekarrin/chomsky"
	"github.com/dekarrin/chomsky/grammar"
	"github.com/dekarrin/chomsky/internal/automaton"
	"github.com/dekarrin/chomsky/internal/gramfile"
	"github.com/dekarrin/chomsky/internal/util"
	"github.com/dekarrin/chomsky/internal/version"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitGrammarError indicates an unsuccessful program execution due to a
	// problem with the grammar or its conversion.
	ExitGrammarError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// with the arguments or with reading input.
	ExitInitError
)

const (
	binaryExt    = ".cnfb"
	displayWidth = 80
)

var (
	returnCode = ExitSuccess

	flagVersion     = pflag.BoolP("version", "v", false, "Give the current version of chomsky and then exit.")
	flagExpr        = pflag.StringP("expr", "e", "", "Read the grammar from the given rules instead of a file.")
	flagKeepEmpty   = pflag.BoolP("keep-empty", "k", false, "Keep the empty string in the language of the normal form.")
	flagTrace       = pflag.BoolP("trace", "t", false, "Print the grammar after each stage of the conversion.")
	flagTable       = pflag.Bool("table", false, "Print grammars as bordered tables.")
	flagNullable    = pflag.BoolP("nullable", "n", false, "Print the nullable non-terminals of the input grammar.")
	flagAccept      = pflag.StringArrayP("accept", "a", nil, "Check whether the normal form generates the given string.")
	flagEnumerate   = pflag.Int("enumerate", -1, "Print every string of at most N terminals the grammar generates.")
	flagSample      = pflag.Int("sample", -1, "Print a random string with a derivation tree at most N deep.")
	flagSeed        = pflag.Int64("seed", 0, "Seed for --sample. Defaults to the current time.")
	flagDFA         = pflag.Bool("dfa", false, "Print the DFA of the right-linear input grammar.")
	flagOut         = pflag.StringP("out", "o", "", "Write the normal form to the given file.")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Start an interactive session.")
	flagDirect      = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(panicErr)
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "ERROR: Too many arguments\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}
	var file string
	if len(args) == 1 {
		file = args[0]
	}

	if *flagInteractive {
		runInteractive(file)
		return
	}

	if (file == "") == (*flagExpr == "") {
		fmt.Fprintf(os.Stderr, "ERROR: Give exactly one of FILE or --expr\nDo -h for help.\n")
		returnCode = ExitInitError
		return
	}

	g, err := loadGrammar(file, *flagExpr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	if err := run(g); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}
}

func runInteractive(file string) {
	sess, err := chomsky.New(os.Stdin, os.Stdout, file, *flagDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer sess.Close()

	if pflag.Lookup("seed").Changed {
		sess.Seed(*flagSeed)
	}

	if err := sess.RunUntilQuit(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
	}
}

func loadGrammar(file, expr string) (grammar.Grammar, error) {
	if expr != "" {
		return grammar.Parse(expr)
	}

	if strings.EqualFold(filepath.Ext(file), binaryExt) {
		data, err := os.ReadFile(file)
		if err != nil {
			return grammar.Grammar{}, fmt.Errorf("%q: reading from disk: %w", file, err)
		}
		var g grammar.Grammar
		if err := g.UnmarshalBinary(data); err != nil {
			return grammar.Grammar{}, fmt.Errorf("%q: %w", file, err)
		}
		return g, nil
	}

	def, err := gramfile.Load(file)
	if err != nil {
		return grammar.Grammar{}, err
	}
	return def.Grammar, nil
}

func run(g grammar.Grammar) error {
	if *flagNullable {
		if err := g.Validate(); err != nil {
			return err
		}
		nullables, err := g.Nullables()
		if err != nil {
			return err
		}
		if len(nullables) == 0 {
			fmt.Printf("Nullable: (none)\n\n")
		} else {
			fmt.Printf("Nullable: %s\n\n", util.MakeTextList(nullables, false))
		}
	}

	if *flagDFA {
		nfa, err := automaton.FromRightLinear(g)
		if err != nil {
			return err
		}
		dfa := nfa.ToDFA()
		dfa.NumberStates()
		fmt.Printf("%s\n\n", dfa.String())
	}

	opts := grammar.Options{KeepEmpty: *flagKeepEmpty}
	if *flagTrace {
		opts.Trace = func(stage grammar.Stage, g grammar.Grammar) {
			fmt.Printf("== %s ==\n%s\n\n", stage, render(g))
		}
	}

	cnf, err := g.ToCNF(opts)
	if err != nil {
		return err
	}

	if !*flagTrace {
		fmt.Println(render(cnf))
	}

	if len(*flagAccept) > 0 {
		fmt.Println()
		if err := printAccepts(cnf, *flagAccept); err != nil {
			return err
		}
	}

	if *flagEnumerate >= 0 {
		fmt.Println()
		for _, s := range cnf.Enumerate(*flagEnumerate) {
			if s == "" {
				s = grammar.EpsilonGlyph
			}
			fmt.Println(s)
		}
	}

	if *flagSample >= 0 {
		seed := time.Now().UnixNano()
		if pflag.Lookup("seed").Changed {
			seed = *flagSeed
		}
		s, err := g.Sample(rand.New(rand.NewSource(seed)), *flagSample)
		if err != nil {
			return err
		}
		if s == "" {
			s = grammar.EpsilonGlyph
		}
		fmt.Printf("\n%s\n", s)
	}

	if *flagOut != "" {
		if err := writeGrammar(*flagOut, cnf); err != nil {
			return err
		}
	}

	return nil
}

func render(g grammar.Grammar) string {
	if *flagTable {
		return g.Table(displayWidth)
	}
	if len(g.Rules()) == 0 {
		return "(no rules)"
	}
	return g.String()
}

func printAccepts(cnf grammar.Grammar, inputs []string) error {
	for _, in := range inputs {
		accepted, err := cnf.Accepts(strings.Fields(in))
		if err != nil {
			if errors.Is(err, grammar.ErrNotCNF) {
				return fmt.Errorf("cannot check strings: %w", err)
			}
			return err
		}

		shown := strings.Join(strings.Fields(in), " ")
		if shown == "" {
			shown = grammar.EpsilonGlyph
		}
		if accepted {
			fmt.Printf("ACCEPTED: %s\n", shown)
		} else {
			fmt.Printf("REJECTED: %s\n", shown)
		}
	}
	return nil
}

func writeGrammar(path string, g grammar.Grammar) error {
	if strings.EqualFold(filepath.Ext(path), binaryExt) {
		data, err := g.MarshalBinary()
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("%q: writing to disk: %w", path, err)
		}
		return nil
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return gramfile.Save(path, gramfile.Definition{Name: name, Grammar: g})
}
