// Package chomsky contains a CLI-driven session for building a context-free
// grammar one rule at a time and putting it into Chomsky Normal Form,
// continuously reading commands until the user quits.
package chomsky

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/dekarrin/chomsky/grammar"
	"github.com/dekarrin/chomsky/internal/automaton"
	"github.com/dekarrin/chomsky/internal/command"
	"github.com/dekarrin/chomsky/internal/gramfile"
	"github.com/dekarrin/chomsky/internal/input"
	"github.com/dekarrin/chomsky/internal/usererr"
	"github.com/dekarrin/chomsky/internal/util"
	"github.com/dekarrin/rosed"
)

const (
	consoleOutputWidth = 80

	defaultStringsLength = 4
	defaultSampleDepth   = 10
)

var commandHelp = [][2]string{
	{"HELP [COMMAND]", "show this help, or only the help for COMMAND"},
	{"RULE/ADD", "add productions, such as 'RULE S -> a B | ε'; several rules can be separated with ';'. Upper-case symbols are non-terminals"},
	{"START", "make the given non-terminal the start symbol"},
	{"SHOW [TABLE]", "print the rules of the grammar, as a table if TABLE is given"},
	{"CNF [KEEP]", "convert the grammar to Chomsky Normal Form; with KEEP the empty string stays in the language"},
	{"NULLABLE", "list the non-terminals that can derive the empty string"},
	{"ACCEPT/TEST", "check whether the grammar generates the symbols given after it, or the empty string if none are"},
	{"STRINGS/GEN [N]", "list every string of at most N terminals the grammar generates"},
	{"SAMPLE [N]", "derive a random string with a derivation tree at most N deep"},
	{"DFA", "print the DFA for the grammar if it is right-linear"},
	{"LOAD", "replace the grammar with the one in the given grammar file"},
	{"SAVE", "write the grammar to the given grammar file"},
	{"CLEAR/NEW", "start over with an empty grammar"},
	{"QUIT/BYE", "end the session"},
}

var textFormatOptions = rosed.Options{
	PreserveParagraphs: true,
	IndentStr:          "  ",
}

// Session contains the things needed to work on a grammar from an interactive
// shell attached to an input stream and an output stream.
type Session struct {
	g           grammar.Grammar
	name        string
	in          command.Reader
	out         *bufio.Writer
	rng         *rand.Rand
	forceDirect bool
	running     bool
}

// New creates a new session ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and
// a buffered writer on the output stream. If grammarFilePath is not empty, the
// grammar in that file is loaded to start with.
//
// If nil is given for the input stream, a bufio.Reader is opened on stdin. If
// nil is given for the output stream, a bufio.Writer is opened on stdout.
func New(inputStream io.Reader, outputStream io.Writer, grammarFilePath string, forceDirectInput bool) (*Session, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	sess := &Session{
		out:         bufio.NewWriter(outputStream),
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		forceDirect: forceDirectInput,
	}

	if grammarFilePath != "" {
		def, err := gramfile.Load(grammarFilePath)
		if err != nil {
			return nil, err
		}
		sess.g = def.Grammar
		sess.name = def.Name
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		sess.in, err = input.NewInteractiveReader("> ", "")
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		sess.in = input.NewDirectReader(inputStream)
	}

	return sess, nil
}

// Seed resets the random source used by SAMPLE.
func (sess *Session) Seed(seed int64) {
	sess.rng = rand.New(rand.NewSource(seed))
}

// Grammar returns a copy of the grammar being worked on.
func (sess *Session) Grammar() grammar.Grammar {
	return sess.g.Copy()
}

// Close closes all resources associated with the Session, including any
// readline-related resources created for interactive mode.
func (sess *Session) Close() error {
	if sess.running {
		return fmt.Errorf("cannot close a running session")
	}

	err := sess.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// RunUntilQuit begins reading commands from the streams and applying them to
// the grammar until the QUIT command is received or input ends.
func (sess *Session) RunUntilQuit() error {
	introMsg := "Welcome to chomsky\n"
	if sess.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "==================\n"
	introMsg += "\n"
	if sess.g.NumProductions() > 0 {
		introMsg += "Loaded grammar"
		if sess.name != "" {
			introMsg += " " + sess.name
		}
		introMsg += fmt.Sprintf(" with %d rules\n", len(sess.g.Rules()))
	} else {
		introMsg += "The grammar is empty; add rules with RULE, or type HELP\n"
	}

	if err := sess.write(introMsg); err != nil {
		return err
	}

	sess.running = true
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		sess.running = false
	}()

	for sess.running {
		cmd, err := command.Get(sess.in, sess.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if cmd.Verb == "QUIT" {
			sess.running = false
			break
		}

		output, err := sess.Advance(cmd)
		if err != nil {
			consoleMessage := usererr.Message(err)
			consoleMessage = rosed.Edit(consoleMessage).Wrap(consoleOutputWidth).String()
			if err := sess.write(consoleMessage + "\n"); err != nil {
				return err
			}
			continue
		}

		if err := sess.write(output + "\n"); err != nil {
			return err
		}
	}

	return sess.write("Goodbye\n")
}

func (sess *Session) write(s string) error {
	if _, err := sess.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := sess.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

// Advance applies cmd to the grammar and returns the output to show. QUIT is
// not handled here; it is up to the caller to stop on it.
func (sess *Session) Advance(cmd command.Command) (string, error) {
	switch cmd.Verb {
	case "RULE":
		return sess.ExecuteCommandRule(cmd)
	case "START":
		return sess.ExecuteCommandStart(cmd)
	case "SHOW":
		return sess.ExecuteCommandShow(cmd)
	case "CNF":
		return sess.ExecuteCommandCNF(cmd)
	case "NULLABLE":
		return sess.ExecuteCommandNullable(cmd)
	case "ACCEPT":
		return sess.ExecuteCommandAccept(cmd)
	case "STRINGS":
		return sess.ExecuteCommandStrings(cmd)
	case "SAMPLE":
		return sess.ExecuteCommandSample(cmd)
	case "DFA":
		return sess.ExecuteCommandDFA(cmd)
	case "LOAD":
		return sess.ExecuteCommandLoad(cmd)
	case "SAVE":
		return sess.ExecuteCommandSave(cmd)
	case "CLEAR":
		sess.g = grammar.Grammar{}
		sess.name = ""
		return "The grammar is now empty", nil
	case "HELP":
		return sess.ExecuteCommandHelp(cmd)
	case "QUIT":
		return "", usererr.Newf("I can't QUIT; I'm not being run by a session that can stop")
	default:
		return "", usererr.Newf("I don't know how to %q", cmd.Verb)
	}
}

// ExecuteCommandRule executes the RULE command with the arguments in the
// provided Command and returns the output.
func (sess *Session) ExecuteCommandRule(cmd command.Command) (string, error) {
	added, err := grammar.Parse(cmd.Text)
	if err != nil {
		return "", usererr.Wrapf(err, "I couldn't understand that rule: %s", err.Error())
	}

	merged := sess.g.Copy()
	if err := merged.Merge(added); err != nil {
		return "", usererr.Wrapf(err, "That rule doesn't fit the grammar: %s", err.Error())
	}
	sess.g = merged

	var lines []string
	for _, nt := range added.NonTerminals() {
		if r := added.Rule(nt); len(r.Productions) > 0 {
			lines = append(lines, sess.g.Rule(nt).String())
		}
	}
	return strings.Join(lines, "\n"), nil
}

// ExecuteCommandStart executes the START command with the arguments in the
// provided Command and returns the output.
func (sess *Session) ExecuteCommandStart(cmd command.Command) (string, error) {
	sym := cmd.Args[0]
	if !sess.g.IsNonTerminal(sym) {
		return "", usererr.Newf("%q is not a non-terminal in the grammar", sym)
	}
	sess.g.Start = sym
	return fmt.Sprintf("The start symbol is now %s", sym), nil
}

// ExecuteCommandShow executes the SHOW command with the arguments in the
// provided Command and returns the output.
func (sess *Session) ExecuteCommandShow(cmd command.Command) (string, error) {
	if len(sess.g.Rules()) == 0 {
		return "The grammar is empty", nil
	}
	if len(cmd.Args) > 0 {
		return sess.g.Table(consoleOutputWidth), nil
	}
	return sess.g.String(), nil
}

// ExecuteCommandCNF executes the CNF command with the arguments in the
// provided Command and returns the output. The grammar is replaced with its
// normal form.
func (sess *Session) ExecuteCommandCNF(cmd command.Command) (string, error) {
	opts := grammar.Options{KeepEmpty: len(cmd.Args) > 0}

	cnf, err := sess.g.ToCNF(opts)
	if err != nil {
		return "", err
	}
	sess.g = cnf

	// the start symbol is never pruned, but it is left with nothing to
	// derive when the language is empty
	if len(cnf.Rule(cnf.StartSymbol()).Productions) == 0 {
		return "The grammar generates no strings", nil
	}
	return cnf.String(), nil
}

// ExecuteCommandNullable executes the NULLABLE command with the arguments in
// the provided Command and returns the output.
func (sess *Session) ExecuteCommandNullable(cmd command.Command) (string, error) {
	if err := sess.g.Validate(); err != nil {
		return "", err
	}

	nullables, err := sess.g.Nullables()
	if err != nil {
		return "", err
	}
	if len(nullables) == 0 {
		return "No non-terminal can derive ε", nil
	}
	return "Nullable: " + util.MakeTextList(nullables, false), nil
}

// ExecuteCommandAccept executes the ACCEPT command with the arguments in the
// provided Command and returns the output.
func (sess *Session) ExecuteCommandAccept(cmd command.Command) (string, error) {
	cnf, err := sess.g.ToCNF(grammar.Options{KeepEmpty: true})
	if err != nil {
		return "", err
	}

	accepted, err := cnf.Accepts(cmd.Args)
	if err != nil {
		return "", err
	}

	shown := strings.Join(cmd.Args, " ")
	if shown == "" {
		shown = grammar.EpsilonGlyph
	}
	if accepted {
		return fmt.Sprintf("ACCEPTED: %s", shown), nil
	}
	return fmt.Sprintf("REJECTED: %s", shown), nil
}

// ExecuteCommandStrings executes the STRINGS command with the arguments in the
// provided Command and returns the output.
func (sess *Session) ExecuteCommandStrings(cmd command.Command) (string, error) {
	if err := sess.g.Validate(); err != nil {
		return "", err
	}

	maxLen := cmd.NumberArg(defaultStringsLength)
	sentences := sess.g.Enumerate(maxLen)
	if len(sentences) == 0 {
		return fmt.Sprintf("The grammar generates no strings of %d or fewer terminals", maxLen), nil
	}

	for i := range sentences {
		if sentences[i] == "" {
			sentences[i] = grammar.EpsilonGlyph
		}
	}
	return rosed.Edit(strings.Join(sentences, ", ")).WithOptions(textFormatOptions).Wrap(consoleOutputWidth).String(), nil
}

// ExecuteCommandSample executes the SAMPLE command with the arguments in the
// provided Command and returns the output.
func (sess *Session) ExecuteCommandSample(cmd command.Command) (string, error) {
	if err := sess.g.Validate(); err != nil {
		return "", err
	}

	depth := cmd.NumberArg(defaultSampleDepth)
	s, err := sess.g.Sample(sess.rng, depth)
	if err != nil {
		if errors.Is(err, grammar.ErrNoDerivation) {
			return "", usererr.Wrapf(err, "Nothing can be derived within a depth of %d", depth)
		}
		return "", err
	}

	if s == "" {
		s = grammar.EpsilonGlyph
	}
	return s, nil
}

// ExecuteCommandDFA executes the DFA command with the arguments in the
// provided Command and returns the output.
func (sess *Session) ExecuteCommandDFA(cmd command.Command) (string, error) {
	nfa, err := automaton.FromRightLinear(sess.g)
	if err != nil {
		if errors.Is(err, automaton.ErrNotRightLinear) {
			return "", usererr.Wrapf(err, "The grammar has no DFA; %s", err.Error())
		}
		return "", err
	}

	dfa := nfa.ToDFA()
	dfa.NumberStates()
	return dfa.String(), nil
}

// ExecuteCommandLoad executes the LOAD command with the arguments in the
// provided Command and returns the output.
func (sess *Session) ExecuteCommandLoad(cmd command.Command) (string, error) {
	def, err := gramfile.Load(cmd.Text)
	if err != nil {
		return "", usererr.Wrapf(err, "Could not load the grammar: %s", err.Error())
	}

	sess.g = def.Grammar
	sess.name = def.Name

	return fmt.Sprintf("Loaded %d rules from %s", len(sess.g.Rules()), cmd.Text), nil
}

// ExecuteCommandSave executes the SAVE command with the arguments in the
// provided Command and returns the output.
func (sess *Session) ExecuteCommandSave(cmd command.Command) (string, error) {
	if err := sess.g.Validate(); err != nil {
		return "", err
	}

	if err := gramfile.Save(cmd.Text, gramfile.Definition{Name: sess.name, Grammar: sess.g}); err != nil {
		return "", usererr.Wrapf(err, "Could not save the grammar: %s", err.Error())
	}

	return fmt.Sprintf("Saved %d rules to %s", len(sess.g.Rules()), cmd.Text), nil
}

// ExecuteCommandHelp executes the HELP command with the arguments in the
// provided Command and returns the output.
func (sess *Session) ExecuteCommandHelp(cmd command.Command) (string, error) {
	entries := commandHelp
	if len(cmd.Args) > 0 {
		verb := command.ExpandAlias(strings.ToUpper(cmd.Args[0]))
		entries = nil
		for _, entry := range commandHelp {
			name := strings.Fields(entry[0])[0]
			if command.ExpandAlias(strings.Split(name, "/")[0]) == verb {
				entries = append(entries, entry)
			}
		}
		if len(entries) == 0 {
			return "", usererr.Newf("There is no command called %q", cmd.Args[0])
		}
	}

	output := rosed.Edit("").WithOptions(
		textFormatOptions.
			WithParagraphSeparator("\n").
			WithNoTrailingLineSeparators(true)).
		Insert(rosed.End, "Here are the commands you can use:\n").
		InsertDefinitionsTable(rosed.End, entries, consoleOutputWidth).String()

	return output, nil
}
