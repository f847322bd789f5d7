package qb

import (
	"fmt"
	"strings"

	"github.com/mitranim/sqlp"
)

type Dialect struct {
	DriverName                string
	QuoteChar                 string
	PlaceholderChar           string
	IncludeIndexInPlaceholder bool
	PlaceHolderGenerator      PlaceholderGenerator
}

var Dialects = &struct {
	MySQL      *Dialect
	PostgreSQL *Dialect
	SQLite3    *Dialect
}{
	MySQL: &Dialect{
		DriverName:                "mysql",
		QuoteChar:                 "`",
		PlaceholderChar:           "?",
		IncludeIndexInPlaceholder: false,
		PlaceHolderGenerator:      mySQLPlaceHolder,
	},
	PostgreSQL: &Dialect{
		DriverName:                "postgres",
		QuoteChar:                 `"`,
		PlaceholderChar:           "$",
		IncludeIndexInPlaceholder: true,
		PlaceHolderGenerator:      postgresPlaceholder,
	},
	SQLite3: &Dialect{
		DriverName:                "sqlite3",
		QuoteChar:                 `"`,
		PlaceholderChar:           "?",
		IncludeIndexInPlaceholder: false,
		PlaceHolderGenerator:      mySQLPlaceHolder,
	},
}

type PlaceholderGenerator func(n int) []string

func postgresPlaceholder(n int) []string {
	output := []string{}
	for i := 1; i < n+1; i++ {
		output = append(output, fmt.Sprintf("$%d", i))
	}
	return output
}

func mySQLPlaceHolder(n int) []string {
	output := []string{}
	for i := 0; i < n; i++ {
		output = append(output, "?")
	}

	return output
}

// Rebind rewrites the `?` placeholders emitted by the Grammar into the
// placeholder style of the dialect: PlaceholderChar, or the output of
// PlaceHolderGenerator when IncludeIndexInPlaceholder is set. Question marks
// inside quoted strings, quoted identifiers and comments are left alone.
func (d *Dialect) Rebind(query string) string {
	if d == nil || d.PlaceholderChar == "" || d.PlaceholderChar == "?" || !strings.Contains(query, "?") {
		return query
	}
	phs := make([]string, strings.Count(query, "?"))
	if d.IncludeIndexInPlaceholder && d.PlaceHolderGenerator != nil {
		phs = d.PlaceHolderGenerator(len(phs))
	} else {
		for i := range phs {
			phs[i] = d.PlaceholderChar
		}
	}

	out := make([]byte, 0, len(query)+len(phs))
	used := 0
	tokenizer := sqlp.Tokenizer{Source: query}
	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}
		text, ok := node.(sqlp.NodeText)
		if !ok {
			node.Append(&out)
			continue
		}
		for _, part := range strings.SplitAfter(string(text), "?") {
			if strings.HasSuffix(part, "?") {
				out = append(out, part[:len(part)-1]...)
				out = append(out, phs[used]...)
				used++
				continue
			}
			out = append(out, part...)
		}
	}
	return string(out)
}
