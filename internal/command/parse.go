package command

import (
	"strconv"
	"strings"

	"github.com/dekarrin/chomsky/internal/usererr"
)

// VerbAliases maps shorthand verbs (which must be the first word in a command)
// to their canonical forms. They are all uppercase.
var VerbAliases = map[string]string{
	"ADD":       "RULE",
	"R":         "RULE",
	"PRINT":     "SHOW",
	"LIST":      "SHOW",
	"LS":        "SHOW",
	"NORMALIZE": "CNF",
	"NULLABLES": "NULLABLE",
	"TEST":      "ACCEPT",
	"CYK":       "ACCEPT",
	"GEN":       "STRINGS",
	"GENERATE":  "STRINGS",
	"RANDOM":    "SAMPLE",
	"OPEN":      "LOAD",
	"WRITE":     "SAVE",
	"RESET":     "CLEAR",
	"NEW":       "CLEAR",
	"BYE":       "QUIT",
	"EXIT":      "QUIT",
	"Q":         "QUIT",
	"?":         "HELP",
	"/?":        "HELP",
	"/H":        "HELP",
	"-H":        "HELP",
	"H":         "HELP",
}

// Parse parses a command from the given text. If it cannot, a non-nil error is
// returned that has a message for the user.
//
// If an empty string or a string composed only of whitespace is passed in, nil
// error is returned and a zero value for Command will be returned.
func Parse(toParse string) (Command, error) {
	var cmd Command

	toParse = strings.TrimSpace(toParse)
	tokens := strings.Fields(toParse)
	if len(tokens) < 1 {
		return cmd, nil
	}

	typed := tokens[0]
	cmd.Verb = ExpandAlias(strings.ToUpper(typed))
	cmd.Args = tokens[1:]
	cmd.Text = strings.TrimSpace(toParse[len(typed):])

	switch cmd.Verb {
	case "RULE":
		if cmd.Text == "" {
			return cmd, usererr.Newf("Give a rule to add, such as: %s S -> a B | ε", typed)
		}
	case "START":
		if len(cmd.Args) != 1 {
			return cmd, usererr.Newf("%s needs exactly one non-terminal to make the start symbol", typed)
		}
	case "SHOW":
		if len(cmd.Args) > 1 || (len(cmd.Args) == 1 && strings.ToUpper(cmd.Args[0]) != "TABLE") {
			return cmd, usererr.Newf("%s only takes the optional word TABLE", typed)
		}
	case "CNF":
		if len(cmd.Args) > 1 || (len(cmd.Args) == 1 && strings.ToUpper(cmd.Args[0]) != "KEEP") {
			return cmd, usererr.Newf("%s only takes the optional word KEEP to keep the empty string", typed)
		}
	case "ACCEPT":
		// no args is asking about the empty string
	case "STRINGS", "SAMPLE":
		if len(cmd.Args) > 1 {
			return cmd, usererr.Newf("%s takes at most one number", typed)
		}
		if len(cmd.Args) == 1 {
			n, err := strconv.Atoi(cmd.Args[0])
			if err != nil || n < 0 {
				return cmd, usererr.Newf("%q is not a length I can use", cmd.Args[0])
			}
		}
	case "LOAD", "SAVE":
		if cmd.Text == "" {
			return cmd, usererr.Newf("%s needs the path of a grammar file", typed)
		}
	case "HELP":
		if len(cmd.Args) > 1 {
			return cmd, usererr.Newf("%s takes at most one command to explain", typed)
		}
	case "NULLABLE", "DFA", "CLEAR", "QUIT":
		if len(cmd.Args) > 0 {
			return cmd, usererr.Newf("You can't %s *something*; type %s by itself", typed, typed)
		}
	default:
		return cmd, usererr.Newf("I don't know what you mean by %q", typed)
	}

	return cmd, nil
}

// NumberArg returns the first argument of cmd as a number, or def if there are
// no arguments. Parse has already checked that it is a valid number.
func (cmd Command) NumberArg(def int) int {
	if len(cmd.Args) < 1 {
		return def
	}
	n, err := strconv.Atoi(cmd.Args[0])
	if err != nil {
		return def
	}
	return n
}

// ExpandAlias gives the canonical form of the upper-case verb, or verb itself
// if it is not an alias.
func ExpandAlias(verb string) string {
	if expansion, ok := VerbAliases[verb]; ok {
		return expansion
	}
	return verb
}
