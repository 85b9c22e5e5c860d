// Package gather turns structured source text into a Skeleton of literal
// chunks and clique references without a full grammar of the host format,
// and rebuilds the text for any language from that skeleton.
//
// Extraction is driven by one regular expression whose capture groups are
// bound to a small closed set of roles. Format-specific gatherers (RC files,
// plain text, JSON message bundles) supply the pattern, the escaping
// strategy and any structural preconditions.
package gather

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/message"
)

// ---------------------------------------------------------------------------
// Roles and patterns
// ---------------------------------------------------------------------------

// Role is what a capture group contributes to the clique being built.
type Role int

const (
	// RoleIdentifier captures a textual id (e.g. IDS_OK) for the clique.
	RoleIdentifier Role = iota + 1
	// RoleText captures the translatable span.
	RoleText
	// RoleDescription captures a tag that selects the clique description.
	RoleDescription
)

func (r Role) String() string {
	switch r {
	case RoleIdentifier:
		return "identifier"
	case RoleText:
		return "text"
	case RoleDescription:
		return "description"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Group binds a named capture group to a role.
type Group struct {
	Name string
	Role Role
}

type boundGroup struct {
	index int
	Group
}

// Pattern is a compiled expression with its groups in processing order.
type Pattern struct {
	re     *regexp.Regexp
	groups []boundGroup
}

// Compile compiles expr and binds the named groups to roles. Groups are
// processed in the order given for every match.
func Compile(expr string, groups ...Group) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern: %w", err)
	}
	p := &Pattern{re: re}
	for _, g := range groups {
		idx := re.SubexpIndex(g.Name)
		if idx < 0 {
			return nil, fmt.Errorf("pattern has no group named %q", g.Name)
		}
		switch g.Role {
		case RoleIdentifier, RoleText, RoleDescription:
		default:
			return nil, fmt.Errorf("group %q: unknown role %d", g.Name, int(g.Role))
		}
		p.groups = append(p.groups, boundGroup{index: idx, Group: g})
	}
	return p, nil
}

// CompileConvention compiles expr and derives roles from group name
// prefixes: "id" is an identifier, "text" is translatable text and "type"
// selects a description. Other groups are ignored. Groups are processed in
// alphabetical order of their names.
func CompileConvention(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern: %w", err)
	}
	var groups []Group
	for _, name := range re.SubexpNames() {
		switch {
		case strings.HasPrefix(name, "id"):
			groups = append(groups, Group{Name: name, Role: RoleIdentifier})
		case strings.HasPrefix(name, "text"):
			groups = append(groups, Group{Name: name, Role: RoleText})
		case strings.HasPrefix(name, "type"):
			groups = append(groups, Group{Name: name, Role: RoleDescription})
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return Compile(expr, groups...)
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level patterns.
func MustCompile(expr string, groups ...Group) *Pattern {
	p, err := Compile(expr, groups...)
	if err != nil {
		panic(err)
	}
	return p
}

// ---------------------------------------------------------------------------
// Extraction
// ---------------------------------------------------------------------------

// Options control how captured text becomes messages.
type Options struct {
	// Escaper converts between the source encoding and message content.
	Escaper Escaper
	// DescriptionMap maps description tags to translator-facing text.
	// Tags without an entry are used as the description verbatim.
	DescriptionMap map[string]string
	// Scanner finds placeholders in captured text. Nil means none.
	Scanner message.ScanFunc
	// ShortcutGroup, if set, is joined by every clique created.
	ShortcutGroup string
	// Description is used by single-message gatherers.
	Description string
}

func (o Options) describe(tag string) string {
	if d, ok := o.DescriptionMap[tag]; ok {
		return d
	}
	return tag
}

// pending is the clique being assembled for the current text group.
type pending struct {
	content     string
	ids         []string
	description string
}

// RegexpParse splits text into a skeleton. Every non-overlapping match of p
// is processed group by group:
//
//   - an identifier attaches to the pending clique, or to the next text
//     group of the same match when none is pending;
//   - a text group finalizes the pending clique, flushes the literal text
//     before it and opens a new pending clique;
//   - a description group sets the description of the pending clique.
//
// Text that is empty or only whitespace stays literal. RegexpParse never
// fails: text without matches becomes a single literal chunk.
func RegexpParse(u *clique.UberClique, p *Pattern, text string, opts Options) Skeleton {
	var sk Skeleton
	chunkStart := 0

	for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
		var cur *pending
		var queued []string

		finalize := func() {
			if cur != nil {
				sk = append(sk, Chunk{Ref: makeRef(u, cur, opts)})
				cur = nil
			}
		}

		for _, g := range p.groups {
			start, end := loc[2*g.index], loc[2*g.index+1]
			if start < 0 {
				continue
			}
			val := text[start:end]
			switch g.Role {
			case RoleIdentifier:
				if cur != nil {
					cur.ids = append(cur.ids, val)
				} else {
					queued = append(queued, val)
				}
			case RoleText:
				content := opts.Escaper.unescape(val)
				if strings.TrimSpace(content) == "" {
					continue
				}
				finalize()
				if start > chunkStart {
					sk = append(sk, Chunk{Literal: text[chunkStart:start]})
				}
				chunkStart = end
				cur = &pending{content: content, ids: queued}
				queued = nil
			case RoleDescription:
				if cur != nil {
					cur.description = opts.describe(opts.Escaper.unescape(val))
				}
			}
		}
		finalize()
	}

	if chunkStart < len(text) {
		sk = append(sk, Chunk{Literal: text[chunkStart:]})
	}
	return sk
}

func makeRef(u *clique.UberClique, p *pending, opts Options) *CliqueRef {
	msgOpts := []message.Option{message.WithTrimmedSpace(), message.WithDescription(p.description)}
	msg, err := message.New(p.content, append(msgOpts, message.WithScanner(opts.Scanner))...)
	if err != nil {
		// A scanner that yields clashing placeholders; keep the text whole.
		msg, _ = message.New(p.content, msgOpts...)
	}
	c := u.MakeClique(msg, true)
	for _, id := range p.ids {
		c.AddTextualID(id)
	}
	if opts.ShortcutGroup != "" {
		c.AddToShortcutGroup(opts.ShortcutGroup)
	}
	ref := &CliqueRef{
		Clique:   c,
		Leading:  msg.LeadingWhitespace(),
		Trailing: msg.TrailingWhitespace(),
	}
	if len(p.ids) > 0 {
		ref.ID = p.ids[0]
	}
	return ref
}
