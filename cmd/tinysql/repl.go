package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/RichardKnop/tinysql/internal/parser"
	"github.com/RichardKnop/tinysql/internal/tinysql"
)

const prompt = "db > "

type metaCommand int

const (
	Unknown metaCommand = iota + 1
	Help
	Exit
	BTree
)

func isMetaCommand(inputBuffer string) bool {
	return len(inputBuffer) > 0 && inputBuffer[:1] == "."
}

func doMetaCommand(inputBuffer string) metaCommand {
	switch inputBuffer {
	case "help":
		return Help
	case "exit":
		return Exit
	case "btree":
		return BTree
	default:
		return Unknown
	}
}

type repl struct {
	table  *tinysql.Table
	out    io.Writer
	logger *zap.Logger
}

// run reads statements from in until .exit, end of input or ctx is done.
// Every table call happens on the calling goroutine, so the table can be
// closed once run returns.
func (r *repl) run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, errc := scanLines(ctx, in)
	fmt.Fprint(r.out, prompt)

	// REPL (Read-eval-print loop) start
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				// Print an additional line if we encountered an EOF character
				fmt.Fprintln(r.out)
				return <-errc
			}
			if exit := r.handle(ctx, strings.TrimSpace(line)); exit {
				return nil
			}
			fmt.Fprint(r.out, prompt)
		}
	}
}

// scanLines reads in on its own goroutine. The line channel is closed at
// end of input, after the scanner error has been sent.
func scanLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	var (
		lines = make(chan string)
		errc  = make(chan error, 1)
	)

	go func() {
		defer close(lines)

		reader := bufio.NewScanner(in)
		for reader.Scan() {
			select {
			case lines <- reader.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- reader.Err()
	}()

	return lines, errc
}

func (r *repl) handle(ctx context.Context, inputBuffer string) bool {
	if inputBuffer == "" {
		return false
	}

	if isMetaCommand(inputBuffer) {
		switch doMetaCommand(inputBuffer[1:]) {
		case Help:
			fmt.Fprintln(r.out, ".help   - Show available commands")
			fmt.Fprintln(r.out, ".btree  - Print the tree of the table")
			fmt.Fprintln(r.out, ".exit   - Close the table and exit")
			fmt.Fprintln(r.out, "insert <id> <username> <email>")
			fmt.Fprintln(r.out, "select")
		case Exit:
			return true
		case BTree:
			fmt.Fprintln(r.out, "tree:")
			if err := r.table.PrintTree(ctx, r.out); err != nil {
				r.logger.Error("print tree failed", zap.Error(err))
				fmt.Fprintf(r.out, "error: %s\n", err)
			}
		case Unknown:
			fmt.Fprintf(r.out, "unrecognized command: %s!\n", inputBuffer)
		}
		return false
	}

	stmt, err := parser.New().Parse(ctx, inputBuffer)
	if err != nil {
		r.printPrepareError(inputBuffer, err)
		return false
	}

	if err := r.execute(ctx, stmt); err != nil {
		r.printExecuteError(err)
		return false
	}
	fmt.Fprintln(r.out, "executed!")

	return false
}

func (r *repl) execute(ctx context.Context, stmt parser.Statement) error {
	switch stmt.Kind {
	case parser.Insert:
		return r.table.Insert(ctx, stmt.Row)
	case parser.Select:
		return r.table.Scan(ctx, func(aRow tinysql.Row) error {
			_, err := fmt.Fprintln(r.out, aRow)
			return err
		})
	default:
		return errors.Errorf("unsupported statement kind %d", stmt.Kind)
	}
}

func (r *repl) printPrepareError(inputBuffer string, err error) {
	switch {
	case errors.Is(err, parser.ErrNegativeID):
		fmt.Fprintln(r.out, "error: id must be positive!")
	case errors.Is(err, parser.ErrStringTooLong):
		fmt.Fprintln(r.out, "error: string is too long!")
	case errors.Is(err, parser.ErrSyntax):
		fmt.Fprintf(r.out, "syntax error: %s\n", inputBuffer)
	default:
		fmt.Fprintf(r.out, "unrecognized keyword at start of '%s'\n", inputBuffer)
	}
}

func (r *repl) printExecuteError(err error) {
	switch {
	case errors.Is(err, tinysql.ErrDuplicateKey):
		fmt.Fprintln(r.out, "error: duplicate key!")
	case errors.Is(err, tinysql.ErrTableFull):
		fmt.Fprintln(r.out, "error: table full!")
	case errors.Is(err, tinysql.ErrInternalNodeFull):
		fmt.Fprintln(r.out, "error: internal node full!")
	default:
		r.logger.Error("execute statement failed", zap.Error(err))
		fmt.Fprintf(r.out, "error: %s\n", err)
	}
}
