package evaluator

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
	titleCaser = cases.Title(language.Und)
)

// registerStringBuiltins installs the Unicode-correct string builtins, using
// golang.org/x/text rather than strings.ToUpper/ToLower so case-folding
// follows the Unicode default algorithm instead of the simple one-rune-at-a-
// time mapping the standard library uses.
func registerStringBuiltins(def func(string, BuiltinFunction)) {
	def("upper", builtinUpper)
	def("lower", builtinLower)
	def("title", builtinTitle)
	def("trim", builtinTrim)
	def("trimStart", builtinTrimStart)
	def("trimEnd", builtinTrimEnd)
	def("split", builtinSplit)
	def("contains", builtinContains)
	def("normalize", builtinNormalize)
}

func stringArg(builtin string, args []Object, n int) (*String, Object) {
	if len(args) != n {
		return nil, wrongArgCount(builtin, numWord(n), len(args))
	}
	s, ok := args[0].(*String)
	if !ok {
		return nil, argError(builtin, "argument must be a string")
	}
	return s, nil
}

func numWord(n int) string {
	switch n {
	case 1:
		return "1"
	case 2:
		return "2"
	default:
		return "more"
	}
}

func builtinUpper(i *Interpreter, args []Object) Object {
	s, errObj := stringArg("upper", args, 1)
	if errObj != nil {
		return errObj
	}
	return &String{Value: upperCaser.String(s.Value)}
}

func builtinLower(i *Interpreter, args []Object) Object {
	s, errObj := stringArg("lower", args, 1)
	if errObj != nil {
		return errObj
	}
	return &String{Value: lowerCaser.String(s.Value)}
}

func builtinTitle(i *Interpreter, args []Object) Object {
	s, errObj := stringArg("title", args, 1)
	if errObj != nil {
		return errObj
	}
	return &String{Value: titleCaser.String(s.Value)}
}

func builtinTrim(i *Interpreter, args []Object) Object {
	s, errObj := stringArg("trim", args, 1)
	if errObj != nil {
		return errObj
	}
	return &String{Value: strings.TrimSpace(s.Value)}
}

func builtinTrimStart(i *Interpreter, args []Object) Object {
	s, errObj := stringArg("trimStart", args, 1)
	if errObj != nil {
		return errObj
	}
	return &String{Value: strings.TrimLeft(s.Value, " \t\n\r")}
}

func builtinTrimEnd(i *Interpreter, args []Object) Object {
	s, errObj := stringArg("trimEnd", args, 1)
	if errObj != nil {
		return errObj
	}
	return &String{Value: strings.TrimRight(s.Value, " \t\n\r")}
}

func builtinSplit(i *Interpreter, args []Object) Object {
	if len(args) != 2 {
		return wrongArgCount("split", "2", len(args))
	}
	s, ok := args[0].(*String)
	if !ok {
		return argError("split", "first argument must be a string")
	}
	sep, ok := args[1].(*String)
	if !ok {
		return argError("split", "second argument must be a string")
	}
	parts := strings.Split(s.Value, sep.Value)
	elems := make([]Object, len(parts))
	for idx, p := range parts {
		elems[idx] = &String{Value: p}
	}
	return &Array{Elements: elems}
}

func builtinContains(i *Interpreter, args []Object) Object {
	if len(args) != 2 {
		return wrongArgCount("contains", "2", len(args))
	}
	s, ok := args[0].(*String)
	if !ok {
		return argError("contains", "first argument must be a string")
	}
	sub, ok := args[1].(*String)
	if !ok {
		return argError("contains", "second argument must be a string")
	}
	return NativeBool(strings.Contains(s.Value, sub.Value))
}

// builtinNormalize applies Unicode NFC normalization, so string equality
// behaves sanely on text that arrived via different composition forms
// (e.g. a file read on a filesystem that decomposes accents).
func builtinNormalize(i *Interpreter, args []Object) Object {
	s, errObj := stringArg("normalize", args, 1)
	if errObj != nil {
		return errObj
	}
	return &String{Value: norm.NFC.String(s.Value)}
}
