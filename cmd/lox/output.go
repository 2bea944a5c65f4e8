package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"lox-lang/internal/diag"
	"lox-lang/internal/runtime"
	"lox-lang/internal/token"

	"github.com/fatih/color"
)

var (
	errorColor = color.New(color.FgRed)
	lineColor  = color.New(color.FgHiBlack)
)

// ---- output helpers ----

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

// printDiags writes one diagnostic per line, coloured when colour is enabled.
func printDiags(w io.Writer, diags diag.List) {
	for _, d := range diags {
		errorColor.Fprintln(w, d.String())
	}
}

// printRuntimeError reports an error returned by the interpreter. The
// "[line n]" prefix of a *runtime.RuntimeError is dimmed.
func printRuntimeError(w io.Writer, err error) {
	var rerr *runtime.RuntimeError
	if errors.As(err, &rerr) {
		lineColor.Fprintf(w, "[line %d] ", rerr.Line())
		errorColor.Fprintln(w, rerr.Err)
		return
	}
	errorColor.Fprintln(w, err)
}

func diagsToSlice(diags diag.List) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		result[i] = map[string]interface{}{
			"code":    d.Code(),
			"kind":    d.Kind.String(),
			"message": d.Message,
			"line":    d.Pos.Line,
			"column":  d.Pos.Column,
			"offset":  d.Pos.Offset,
		}
		if d.Where != "" {
			result[i]["where"] = d.Where
		}
	}
	return result
}

// ---- token output helpers ----

func printTokensText(w io.Writer, tokens []token.Token) {
	for _, tok := range tokens {
		lexeme := tok.Lexeme
		if tok.Kind == token.EOF {
			lexeme = "<eof>"
		}
		fmt.Fprintf(w, "%-14s %-20s %d:%d\n", tok.Kind, lexeme, tok.Pos.Line, tok.Pos.Column)
	}
}

func printTokensJSON(w io.Writer, tokens []token.Token, diags diag.List) error {
	type tokenJSON struct {
		Kind    string `json:"kind"`
		Lexeme  string `json:"lexeme"`
		Literal string `json:"literal,omitempty"`
		Line    int    `json:"line"`
		Column  int    `json:"column"`
		Offset  int    `json:"offset"`
	}

	toks := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		t := tokenJSON{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Pos.Line,
			Column: tok.Pos.Column,
			Offset: tok.Pos.Offset,
		}
		if tok.Literal != nil {
			t.Literal = tok.Literal.String()
		}
		toks = append(toks, t)
	}

	return printJSON(w, map[string]interface{}{
		"tokens":      toks,
		"diagnostics": diagsToSlice(diags),
	})
}
