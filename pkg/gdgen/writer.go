package gdgen

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

const indentUnit = "\t"

// codeWriter accumulates generated text. Lines may carry {{KEY}}
// placeholders filled from the current substitution map; every line is
// prefixed with the current indentation.
type codeWriter struct {
	sb     strings.Builder
	values map[string]string
	indent []string
}

func newCodeWriter() *codeWriter {
	return &codeWriter{values: make(map[string]string)}
}

func (w *codeWriter) SetValue(key, value string) {
	w.values[key] = value
}

// ClearValues resets the substitution map before a new unit.
func (w *codeWriter) ClearValues() {
	clear(w.values)
}

func (w *codeWriter) Indent() {
	w.indent = append(w.indent, indentUnit)
}

func (w *codeWriter) Dedent() {
	if len(w.indent) == 0 {
		panic("gdgen: unbalanced dedent")
	}
	w.indent = w.indent[:len(w.indent)-1]
}

// Depth is the current indentation depth.
func (w *codeWriter) Depth() int {
	return len(w.indent)
}

// Line writes text, which may span several lines, after substitution.
func (w *codeWriter) Line(text string) {
	prefix := strings.Join(w.indent, "")
	for _, line := range strings.Split(w.expand(text), "\n") {
		if line != "" {
			w.sb.WriteString(prefix)
			w.sb.WriteString(line)
		}
		w.sb.WriteByte('\n')
	}
}

// raw writes one line without substitution.
func (w *codeWriter) raw(line string) {
	w.sb.WriteString(strings.Join(w.indent, ""))
	w.sb.WriteString(line)
	w.sb.WriteByte('\n')
}

// Blank writes an empty line.
func (w *codeWriter) Blank() {
	w.sb.WriteByte('\n')
}

// Comment writes doc lines as "#" comments wrapped to 80 columns.
func (w *codeWriter) Comment(doc []string) {
	if len(doc) == 0 {
		return
	}
	limit := 80 - 2 - len(w.indent)*4
	if limit < 20 {
		limit = 20
	}
	for _, para := range doc {
		para = strings.TrimSpace(para)
		if para == "" {
			w.raw("#")
			continue
		}
		for _, line := range strings.Split(wordwrap.WrapString(para, uint(limit)), "\n") {
			w.raw("# " + strings.TrimRight(line, " "))
		}
	}
}

func (w *codeWriter) String() string {
	return w.sb.String()
}

func (w *codeWriter) expand(text string) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	var sb strings.Builder
	for {
		open := strings.Index(text, "{{")
		if open < 0 {
			break
		}
		end := strings.Index(text[open:], "}}")
		if end < 0 {
			break
		}
		key := text[open+2 : open+end]
		sb.WriteString(text[:open])
		if v, ok := w.values[key]; ok {
			sb.WriteString(v)
		} else {
			sb.WriteString(text[open : open+end+2])
		}
		text = text[open+end+2:]
	}
	sb.WriteString(text)
	return sb.String()
}
