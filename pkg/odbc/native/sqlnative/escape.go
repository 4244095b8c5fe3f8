// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

package sqlnative

import (
	"strings"

	"github.com/pingcap/odbcexec/lib/util/errors"
)

var (
	errUnknownEscape    = errors.New("unknown escape sequence")
	errUnbalancedEscape = errors.New("unbalanced escape sequence")
	errReturnValue      = errors.New("procedure return values are not supported")
)

// dialect rewrites ODBC escape sequences into the syntax of a data source.
type dialect struct {
	name string
	// call rewrites "{call proc(args)}".
	call func(proc string) string
	// fn rewrites "{fn name(args)}". name is upper case.
	fn func(name, args string) string
	// literal rewrites "{d '...'}", "{t '...'}" and "{ts '...'}".
	literal func(kind, lit string) string
	// queryKeywords start statements that return a result set.
	queryKeywords map[string]struct{}
	// explain is set for data sources that parse a statement only when it
	// runs. Prepare compiles it with EXPLAIN instead.
	explain bool
}

var sqliteFuncs = map[string]string{
	"UCASE":     "UPPER",
	"LCASE":     "LOWER",
	"SUBSTRING": "SUBSTR",
}

var sqliteNiladic = map[string]string{
	"NOW":     "CURRENT_TIMESTAMP",
	"CURDATE": "CURRENT_DATE",
	"CURTIME": "CURRENT_TIME",
}

var dialectSQLite = &dialect{
	name: "sqlite",
	call: func(proc string) string {
		if !strings.Contains(proc, "(") {
			proc += "()"
		}
		return "SELECT " + proc
	},
	fn: func(name, args string) string {
		if kw, ok := sqliteNiladic[name]; ok && strings.TrimSpace(args) == "" {
			return kw
		}
		if renamed, ok := sqliteFuncs[name]; ok {
			name = renamed
		}
		return name + "(" + args + ")"
	},
	literal: func(_, lit string) string {
		return lit
	},
	queryKeywords: keywords("SELECT", "WITH", "PRAGMA", "VALUES", "EXPLAIN"),
	explain:       true,
}

var dialectMySQL = &dialect{
	name: "mysql",
	call: func(proc string) string {
		return "CALL " + proc
	},
	fn: func(name, args string) string {
		return name + "(" + args + ")"
	},
	literal: func(kind, lit string) string {
		switch kind {
		case "D":
			return "DATE " + lit
		case "T":
			return "TIME " + lit
		}
		return "TIMESTAMP " + lit
	},
	queryKeywords: keywords("SELECT", "WITH", "SHOW", "VALUES", "EXPLAIN", "DESCRIBE", "DESC", "CALL"),
}

func keywords(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// translate rewrites all escape sequences of query. Quoted strings and
// identifiers are copied untouched.
func (d *dialect) translate(query string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(query); {
		c := query[i]
		switch c {
		case '\'', '"', '`':
			end := skipQuoted(query, i)
			sb.WriteString(query[i:end])
			i = end
		case '{':
			end, err := matchBrace(query, i)
			if err != nil {
				return "", err
			}
			inner, err := d.translate(query[i+1 : end])
			if err != nil {
				return "", err
			}
			out, err := d.escape(inner)
			if err != nil {
				return "", err
			}
			sb.WriteString(out)
			i = end + 1
		case '}':
			return "", errors.WithStack(errUnbalancedEscape)
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), nil
}

func (d *dialect) escape(body string) (string, error) {
	body = strings.TrimSpace(body)
	kw, rest := splitKeyword(body)
	switch strings.ToUpper(kw) {
	case "CALL":
		return d.call(rest), nil
	case "FN":
		name, args, ok := splitCall(rest)
		if !ok {
			return "", errors.Wrapf(errUnknownEscape, "malformed function escape: %s", body)
		}
		return d.fn(strings.ToUpper(name), args), nil
	case "D", "T", "TS":
		return d.literal(strings.ToUpper(kw), rest), nil
	case "OJ":
		return rest, nil
	case "ESCAPE":
		return "ESCAPE " + rest, nil
	}
	if strings.HasPrefix(body, "?") {
		return "", errors.WithStack(errReturnValue)
	}
	return "", errors.Wrapf(errUnknownEscape, "{%s}", body)
}

// isQuery reports whether the statement produces a result set.
func (d *dialect) isQuery(query string) bool {
	kw, _ := splitKeyword(skipLeading(query))
	_, ok := d.queryKeywords[strings.ToUpper(kw)]
	return ok
}

// countMarkers counts the parameter markers outside of quotes and comments.
func countMarkers(query string) int {
	n := 0
	for i := 0; i < len(query); {
		switch c := query[i]; {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(query, i)
		case strings.HasPrefix(query[i:], "--"):
			i = skipLine(query, i)
		case strings.HasPrefix(query[i:], "/*"):
			i = skipBlock(query, i)
		case c == '?':
			n++
			i++
		default:
			i++
		}
	}
	return n
}

// singleStatement reports whether query holds at most one statement. A
// trailing semicolon is allowed.
func singleStatement(query string) bool {
	for i := 0; i < len(query); {
		switch c := query[i]; {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(query, i)
		case strings.HasPrefix(query[i:], "--"):
			i = skipLine(query, i)
		case strings.HasPrefix(query[i:], "/*"):
			i = skipBlock(query, i)
		case c == ';':
			return strings.TrimRight(skipLeading(query[i+1:]), ";") == ""
		default:
			i++
		}
	}
	return true
}

// skipQuoted returns the index after the quoted section starting at i. A
// doubled quote character is part of the section.
func skipQuoted(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		if s[j] != q {
			continue
		}
		if j+1 < len(s) && s[j+1] == q {
			j++
			continue
		}
		return j + 1
	}
	return len(s)
}

func skipLine(s string, i int) int {
	if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(s)
}

func skipBlock(s string, i int) int {
	if j := strings.Index(s[i+2:], "*/"); j >= 0 {
		return i + 2 + j + 2
	}
	return len(s)
}

// matchBrace returns the index of the '}' closing the '{' at i.
func matchBrace(s string, i int) (int, error) {
	depth := 0
	for j := i; j < len(s); {
		switch s[j] {
		case '\'', '"', '`':
			j = skipQuoted(s, j)
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j, nil
			}
		}
		j++
	}
	return 0, errors.WithStack(errUnbalancedEscape)
}

// skipLeading skips spaces, comments and opening parentheses.
func skipLeading(s string) string {
	for {
		s = strings.TrimLeft(s, " \t\r\n(")
		switch {
		case strings.HasPrefix(s, "--"):
			s = s[skipLine(s, 0):]
		case strings.HasPrefix(s, "/*"):
			s = s[skipBlock(s, 0):]
		default:
			return s
		}
	}
}

// splitKeyword splits the leading word from the rest.
func splitKeyword(s string) (string, string) {
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimSpace(s[end:])
}

// splitCall splits "name(args)" into name and args.
func splitCall(s string) (string, string, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	return strings.TrimSpace(s[:open]), s[open+1 : len(s)-1], true
}
