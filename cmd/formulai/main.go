// Command formulai is an interactive REPL over the formula engine: type a
// formula, see it evaluated against an optional pre-loaded workbook
// snapshot. ":tokens" and ":ast" prefixes dump the pipeline's intermediate
// stages instead of evaluating.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chzyer/readline"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"

	"github.com/dekarrin/formulaengine/cellstore"
	"github.com/dekarrin/formulaengine/formula"
)

func main() {
	snapshotPath := pflag.StringP("snapshot", "s", "", "path to a TOML workbook snapshot to load at startup")
	pflag.Parse()

	store := cellstore.NewMemory()
	if *snapshotPath != "" {
		if err := loadSnapshot(*snapshotPath, store); err != nil {
			fmt.Fprintln(os.Stderr, "formulai:", err)
			os.Exit(1)
		}
	}

	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "formulai:", err)
		os.Exit(1)
	}
	defer rl.Close()

	reg := formula.NewRegistry()
	cache := formula.NewFormulaCache()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "formulai:", err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, ":tokens "):
			dumpTokens(strings.TrimPrefix(line, ":tokens "))
		case strings.HasPrefix(line, ":ast "):
			dumpAST(strings.TrimPrefix(line, ":ast "), reg)
		default:
			evalAndPrint(line, cache, reg, store)
		}
	}
}

func evalAndPrint(source string, cache *formula.FormulaCache, reg *formula.Registry, store formula.CellStore) {
	root, err := cache.Parse(source)
	if err != nil {
		printWrapped(formulaErrorMessage(err))
		return
	}
	formula.InferTypes(root, reg)
	result := formula.Evaluate(root, store, reg)
	fmt.Println(result.String())
}

func dumpTokens(source string) {
	tokens, err := formula.Tokenize(source)
	if err != nil {
		printWrapped(formulaErrorMessage(err))
		return
	}
	rows := [][]string{{"kind", "lexeme"}}
	for _, t := range tokens {
		rows = append(rows, []string{t.Kind(), t.Lexeme()})
	}
	fmt.Println(rosed.Edit("").InsertTableOpts(0, rows, 60, rosed.Options{}).String())
}

func dumpAST(source string, reg *formula.Registry) {
	tokens, err := formula.Tokenize(source)
	if err != nil {
		printWrapped(formulaErrorMessage(err))
		return
	}
	root, err := formula.Parse(tokens, source)
	if err != nil {
		printWrapped(formulaErrorMessage(err))
		return
	}
	formula.InferTypes(root, reg)
	fmt.Println(rosed.Edit(formula.DebugString(root)).Wrap(80).String())
}

func printWrapped(msg string) {
	fmt.Println(rosed.Edit(msg).Wrap(80).String())
}

func formulaErrorMessage(err error) string {
	switch e := err.(type) {
	case formula.LexError:
		return e.FullMessage()
	case formula.ParseError:
		return e.FullMessage()
	default:
		return err.Error()
	}
}

func loadSnapshot(path string, store *cellstore.Memory) error {
	var snap workbookSnapshot
	if _, err := toml.DecodeFile(path, &snap); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	for _, c := range snap.Cell {
		switch {
		case c.Number != nil:
			store.Set(c.Row, c.Col, formula.NewNumber(*c.Number))
		case c.Text != nil:
			store.Set(c.Row, c.Col, formula.NewText(*c.Text))
		case c.Bool != nil:
			store.Set(c.Row, c.Col, formula.NewBool(*c.Bool))
		}
	}
	return nil
}

type workbookSnapshot struct {
	Cell []cellEntry `toml:"cell"`
}

type cellEntry struct {
	Row    int      `toml:"row"`
	Col    int      `toml:"col"`
	Number *float64 `toml:"number"`
	Text   *string  `toml:"text"`
	Bool   *bool    `toml:"bool"`
}
