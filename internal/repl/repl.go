package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/olekukonko/tablewriter"

	"github.com/leengari/minidb/internal/config"
	"github.com/leengari/minidb/internal/domain/value"
	"github.com/leengari/minidb/internal/engine"
	"github.com/leengari/minidb/internal/executor"
)

// Shell evaluates one line at a time against an engine
type Shell struct {
	eng *engine.Engine
	out io.Writer
}

func New(eng *engine.Engine, out io.Writer) *Shell {
	return &Shell{eng: eng, out: out}
}

// Start runs the interactive loop on the terminal until \q, exit or EOF
func Start(eng *engine.Engine, cfg config.REPLConfig) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	defer l.Close()

	sh := New(eng, os.Stdout)
	fmt.Fprintln(sh.out, "Welcome to minidb")
	fmt.Fprintln(sh.out, "Type 'exit' or '\\q' to quit, '\\?' for help.")

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error while reading line: %w", err)
		}

		if !sh.HandleLine(line) {
			return nil
		}
	}
}

// HandleLine runs a meta-command or a statement and prints the outcome.
// It returns false when the shell should exit.
func (s *Shell) HandleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}

	switch trimmed {
	case "exit", "quit", "\\q":
		return false
	}

	if strings.HasPrefix(trimmed, "\\") {
		s.meta(strings.Fields(trimmed))
		return true
	}

	result, err := s.eng.Execute(trimmed)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return true
	}
	PrintResult(s.out, result)
	return true
}

func (s *Shell) meta(args []string) {
	switch args[0] {
	case "\\dt":
		names := s.eng.ListTables()
		if len(names) == 0 {
			fmt.Fprintln(s.out, "Did not find any relations.")
			return
		}
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, []string{name})
		}
		render(s.out, []string{"Name"}, rows)

	case "\\di":
		if len(args) != 3 {
			fmt.Fprintln(s.out, "usage: \\di <table> <column>")
			return
		}
		entries, err := s.eng.IndexEntries(args[1], args[2])
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			pks := make([]string, len(e.PrimaryKeys))
			for i, pk := range e.PrimaryKeys {
				pks[i] = cell(pk)
			}
			rows = append(rows, []string{cell(e.Key), strings.Join(pks, ", ")})
		}
		render(s.out, []string{"Key", "Primary keys"}, rows)

	case "\\check":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "usage: \\check <table>")
			return
		}
		if err := s.eng.VerifyIndexes(args[1]); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintln(s.out, "indexes consistent")

	case "\\?":
		fmt.Fprintln(s.out, `\dt                   list tables
\di <table> <column>  show index buckets
\check <table>        verify indexes against rows
\q                    quit`)

	default:
		fmt.Fprintf(s.out, "invalid command %s, try \\?\n", args[0])
	}
}

// PrintResult writes res as a status line, followed by a table for row results
func PrintResult(w io.Writer, res *executor.Result) {
	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}
	if res.Kind != executor.KindRows {
		return
	}

	rows := make([][]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cell(v)
		}
		rows = append(rows, cells)
	}
	render(w, res.Columns, rows)
}

func render(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.AppendBulk(rows)
	table.Render()
}

// cell renders v in SQL literal form so that the string 'NULL' and the
// integer 1 never look like NULL or the string '1'
func cell(v value.Value) string {
	return v.SQL()
}
