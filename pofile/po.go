// Package pofile reads and writes the gettext PO files grist exchanges
// with translators. Every translateable clique becomes one entry: the
// msgid is its real source text, msgctxt its meaning, "#." its
// description and "#:" the textual ids it was gathered under.
//
// Plural forms are not produced by grist and are rejected on input.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Entry is one message of a PO file.
type Entry struct {
	// TranslatorComments are "# " lines.
	TranslatorComments []string
	// ExtractedComments are "#." lines.
	ExtractedComments []string
	// References are "#:" lines. grist writes textual ids here.
	References []string
	// Flags are "#," lines.
	Flags []string
	// PreviousMsgID is the "#| msgid" of a fuzzy entry.
	PreviousMsgID string

	MsgCtxt string
	MsgID   string
	MsgStr  string

	// Obsolete marks "#~" entries.
	Obsolete bool
}

// Key returns the identity of e within a file.
func (e *Entry) Key() string {
	if e.MsgCtxt == "" {
		return e.MsgID
	}
	return e.MsgCtxt + "\x04" + e.MsgID
}

// IsTranslated reports whether e carries a usable translation.
func (e *Entry) IsTranslated() bool {
	return e.MsgID != "" && e.MsgStr != "" && !e.IsFuzzy()
}

// IsFuzzy reports whether e is marked fuzzy.
func (e *Entry) IsFuzzy() bool { return e.HasFlag("fuzzy") }

// HasFlag reports whether flag is set on e.
func (e *Entry) HasFlag(flag string) bool { return slices.Contains(e.Flags, flag) }

// SetFuzzy adds or removes the fuzzy flag.
func (e *Entry) SetFuzzy(fuzzy bool) {
	switch {
	case fuzzy && !e.IsFuzzy():
		e.Flags = append(e.Flags, "fuzzy")
	case !fuzzy:
		e.Flags = slices.DeleteFunc(e.Flags, func(f string) bool { return f == "fuzzy" })
	}
}

// File is a parsed PO or POT file.
type File struct {
	// Header is the msgid "" entry.
	Header  *Entry
	Entries []*Entry
}

// NewFile returns a file with an empty header.
func NewFile() *File {
	return &File{Header: &Entry{}}
}

// ---------------------------------------------------------------------------
// Header fields
// ---------------------------------------------------------------------------

// HeaderField returns the value of a header field, matched case-insensitively.
func (f *File) HeaderField(name string) string {
	if f.Header == nil {
		return ""
	}
	for _, line := range strings.Split(f.Header.MsgStr, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// SetHeaderField replaces or appends a header field.
func (f *File) SetHeaderField(name, value string) {
	if f.Header == nil {
		f.Header = &Entry{}
	}
	lines := strings.Split(strings.TrimSuffix(f.Header.MsgStr, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}
	field := name + ": " + value
	replaced := false
	for i, line := range lines {
		key, _, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			lines[i] = field
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, field)
	}
	f.Header.MsgStr = strings.Join(lines, "\n") + "\n"
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Find returns the live entry with the given context and msgid.
func (f *File) Find(msgctxt, msgid string) *Entry {
	for _, e := range f.Entries {
		if !e.Obsolete && e.MsgCtxt == msgctxt && e.MsgID == msgid {
			return e
		}
	}
	return nil
}

// Stats counts live entries by state.
func (f *File) Stats() (total, translated, fuzzy, untranslated int) {
	for _, e := range f.Entries {
		if e.Obsolete || e.MsgID == "" {
			continue
		}
		total++
		switch {
		case e.IsFuzzy():
			fuzzy++
		case e.IsTranslated():
			translated++
		default:
			untranslated++
		}
	}
	return
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Parse reads a PO file.
func Parse(r io.Reader) (*File, error) {
	p := &parser{file: NewFile()}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		if err := p.feed(sc.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading PO file: %w", err)
	}
	p.flush()
	return p.file, nil
}

// ParseFile reads a PO file from disk.
func ParseFile(path string) (*File, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	f, err := Parse(in)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

type parser struct {
	file    *File
	line    int
	current *Entry
	// field receives continuation strings.
	field *string
}

func (p *parser) entry() *Entry {
	if p.current == nil {
		p.current = &Entry{}
	}
	return p.current
}

func (p *parser) flush() {
	e := p.current
	p.current, p.field = nil, nil
	if e == nil {
		return
	}
	if e.MsgID == "" && e.MsgCtxt == "" && !e.Obsolete {
		p.file.Header = e
		return
	}
	p.file.Entries = append(p.file.Entries, e)
}

func (p *parser) feed(line string) error {
	if strings.TrimSpace(line) == "" {
		p.flush()
		return nil
	}
	if rest, ok := strings.CutPrefix(line, "#~"); ok {
		p.entry().Obsolete = true
		if strings.HasPrefix(rest, "|") {
			p.comment("#" + rest)
			return nil
		}
		line = strings.TrimPrefix(rest, " ")
	}

	if strings.HasPrefix(line, "#") {
		p.comment(line)
		return nil
	}
	if strings.HasPrefix(line, `"`) {
		if p.field == nil {
			return fmt.Errorf("continuation string outside a field")
		}
		*p.field += unquote(line)
		return nil
	}

	keyword, value, _ := strings.Cut(line, " ")
	e := p.entry()
	switch keyword {
	case "msgctxt":
		p.field = &e.MsgCtxt
	case "msgid":
		p.field = &e.MsgID
	case "msgstr":
		p.field = &e.MsgStr
	default:
		if keyword == "msgid_plural" || strings.HasPrefix(keyword, "msgstr[") {
			return fmt.Errorf("plural entries are not supported")
		}
		return fmt.Errorf("unknown keyword %q", keyword)
	}
	*p.field = unquote(value)
	return nil
}

func (p *parser) comment(line string) {
	e := p.entry()
	if len(line) < 2 {
		e.TranslatorComments = append(e.TranslatorComments, "")
		return
	}
	body := strings.TrimSpace(line[2:])
	switch line[1] {
	case ':':
		e.References = append(e.References, strings.Fields(body)...)
	case ',':
		for _, flag := range strings.Split(body, ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				e.Flags = append(e.Flags, flag)
			}
		}
	case '.':
		e.ExtractedComments = append(e.ExtractedComments, body)
	case '|':
		if prev, ok := strings.CutPrefix(body, "msgid "); ok {
			e.PreviousMsgID = unquote(prev)
		}
	default:
		e.TranslatorComments = append(e.TranslatorComments, strings.TrimPrefix(line[1:], " "))
	}
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// Write writes f in PO syntax.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if f.Header != nil {
		writeEntry(bw, f.Header)
	}
	for _, e := range f.Entries {
		bw.WriteByte('\n')
		writeEntry(bw, e)
	}
	return bw.Flush()
}

// WriteFile writes f to path.
func (f *File) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Write(out); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

func writeEntry(w *bufio.Writer, e *Entry) {
	for _, c := range e.TranslatorComments {
		fmt.Fprintf(w, "# %s\n", c)
	}
	for _, c := range e.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	if len(e.References) > 0 {
		fmt.Fprintf(w, "#: %s\n", strings.Join(e.References, " "))
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}
	if e.PreviousMsgID != "" {
		fmt.Fprintf(w, "#| msgid %s\n", quote(e.PreviousMsgID))
	}

	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}
	if e.MsgCtxt != "" {
		writeField(w, prefix, "msgctxt", e.MsgCtxt)
	}
	writeField(w, prefix, "msgid", e.MsgID)
	writeField(w, prefix, "msgstr", e.MsgStr)
}

// writeField writes a keyword and its string, splitting multi-line values
// after every newline.
func writeField(w *bufio.Writer, prefix, keyword, value string) {
	if !strings.Contains(strings.TrimSuffix(value, "\n"), "\n") {
		fmt.Fprintf(w, "%s%s %s\n", prefix, keyword, quote(value))
		return
	}
	fmt.Fprintf(w, "%s%s \"\"\n", prefix, keyword)
	for _, line := range strings.SplitAfter(value, "\n") {
		if line != "" {
			fmt.Fprintf(w, "%s%s\n", prefix, quote(line))
		}
	}
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func quote(s string) string { return `"` + quoter.Replace(s) + `"` }

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\', '"':
			sb.WriteByte(s[i])
		default:
			sb.WriteByte('\\')
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
