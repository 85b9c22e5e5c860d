// Package merge brings an existing translation catalog up to date with a
// freshly exported template, the way msgmerge does.
package merge

import (
	"errors"
	"fmt"
	"os"
	"sort"

	po "github.com/minios-linux/grist/pofile"
)

// Merge updates catalog with the entries of template:
//   - entries present in both keep their translation and translator
//     comments and take comments, references and format flags from the
//     template;
//   - a template entry whose source changed under the same textual id
//     inherits the old translation marked fuzzy, with the old msgid kept
//     as previous msgid;
//   - other template entries are added untranslated;
//   - catalog entries no longer in the template become obsolete.
func Merge(catalog, template *po.File) *po.File {
	result := po.NewFile()
	if catalog.Header != nil {
		h := *catalog.Header
		result.Header = &h
	}
	if date := template.HeaderField("POT-Creation-Date"); date != "" {
		result.SetHeaderField("POT-Creation-Date", date)
	}

	byKey := make(map[string]*po.Entry)
	byRef := make(map[string]*po.Entry)
	for _, e := range catalog.Entries {
		if e.Obsolete {
			continue
		}
		byKey[e.Key()] = e
		for _, ref := range e.References {
			byRef[ref] = e
		}
	}

	used := make(map[*po.Entry]bool)
	for _, t := range template.Entries {
		if t.MsgID == "" || t.Obsolete {
			continue
		}
		e := &po.Entry{
			ExtractedComments: t.ExtractedComments,
			References:        t.References,
			MsgCtxt:           t.MsgCtxt,
			MsgID:             t.MsgID,
			Flags:             t.Flags,
		}
		if old, ok := byKey[t.Key()]; ok {
			e.TranslatorComments = old.TranslatorComments
			e.MsgStr = old.MsgStr
			e.PreviousMsgID = old.PreviousMsgID
			e.Flags = mergeFlags(old.Flags, t.Flags)
			used[old] = true
		} else if old := renamed(t, byRef, used); old != nil {
			e.TranslatorComments = old.TranslatorComments
			e.MsgStr = old.MsgStr
			e.PreviousMsgID = old.MsgID
			e.Flags = mergeFlags([]string{"fuzzy"}, t.Flags)
			used[old] = true
		}
		result.Entries = append(result.Entries, e)
	}

	for _, e := range catalog.Entries {
		if e.Obsolete || used[e] {
			continue
		}
		obsolete := *e
		obsolete.Obsolete = true
		obsolete.References = nil
		result.Entries = append(result.Entries, &obsolete)
	}
	return result
}

// renamed finds an unused translated catalog entry sharing a textual id
// with t.
func renamed(t *po.Entry, byRef map[string]*po.Entry, used map[*po.Entry]bool) *po.Entry {
	for _, ref := range t.References {
		if old, ok := byRef[ref]; ok && !used[old] && old.MsgStr != "" {
			return old
		}
	}
	return nil
}

// mergeFlags keeps fuzzy from the catalog and takes every format flag from
// the template. Fuzzy comes first, the rest sorted.
func mergeFlags(catalogFlags, templateFlags []string) []string {
	set := make(map[string]bool)
	for _, f := range catalogFlags {
		if f == "fuzzy" {
			set[f] = true
		}
	}
	for _, f := range templateFlags {
		set[f] = true
	}
	var out []string
	for f := range set {
		if f != "fuzzy" {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	if set["fuzzy"] {
		out = append([]string{"fuzzy"}, out...)
	}
	return out
}

// File merges template into the catalog stored at path and writes the
// result back. A missing catalog starts from header.
func File(path string, template *po.File, header *po.Entry) (*po.File, error) {
	catalog, err := po.ParseFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		catalog = &po.File{Header: header}
	case err != nil:
		return nil, err
	}
	merged := Merge(catalog, template)
	if err := merged.WriteFile(path); err != nil {
		return nil, fmt.Errorf("updating catalog: %w", err)
	}
	return merged, nil
}
