package command

import "context"

// Interpreter maps free text to an Action. A nil Action with a nil error
// means the text was not understood; an error means the interpreter itself
// failed.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (Action, error)
}

// InterpreterFunc adapts a function to the Interpreter interface.
type InterpreterFunc func(ctx context.Context, text string) (Action, error)

func (f InterpreterFunc) Interpret(ctx context.Context, text string) (Action, error) {
	return f(ctx, text)
}
