package vars

import (
	"fmt"
	"strings"
)

// Kind is the declared type of a stored variable.
type Kind int

const (
	KindText Kind = iota
	KindBool
	KindOption
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "TEXT"
	case KindBool:
		return "BOOL"
	case KindOption:
		return "OPTION"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a type keyword as written in a script, e.g. "text".
func ParseKind(keyword string) (Kind, error) {
	switch strings.ToUpper(keyword) {
	case "TEXT":
		return KindText, nil
	case "BOOL":
		return KindBool, nil
	case "OPTION":
		return KindOption, nil
	default:
		return 0, fmt.Errorf("unsupported VAR type: %s", strings.ToUpper(keyword))
	}
}

// Value is a typed scalar held in the Store.
type Value struct {
	kind Kind
	str  string
	b    bool
}

// Text creates a TEXT value.
func Text(s string) Value {
	return Value{kind: KindText, str: s}
}

// Bool creates a BOOL value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Option creates an OPTION value, options are always upper case.
func Option(s string) Value {
	return Value{kind: KindOption, str: strings.ToUpper(s)}
}

// ParseBool parses a BOOL literal. Only TRUE and FALSE (in any case) are
// accepted.
func ParseBool(literal string) (Value, error) {
	switch strings.ToUpper(literal) {
	case "TRUE":
		return Bool(true), nil
	case "FALSE":
		return Bool(false), nil
	default:
		return Value{}, fmt.Errorf("invalid BOOL value: %s", strings.ToUpper(literal))
	}
}

// Kind returns the type the value was created with.
func (v Value) Kind() Kind {
	return v.kind
}

// String returns the form used for expansion and for child process
// environments.
func (v Value) String() string {
	if v.kind == KindBool {
		if v.b {
			return "True"
		}
		return "False"
	}
	return v.str
}

// IsTrue reports whether the value is a true BOOL or reads as one.
func (v Value) IsTrue() bool {
	if v.kind == KindBool {
		return v.b
	}
	return strings.EqualFold(v.str, "TRUE")
}
