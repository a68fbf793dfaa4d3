package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/s0up4200/hyprest/hypothesis"
)

// printer writes command results as text or JSON
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, format: format}
}

func (p *printer) json() bool {
	return p.format == "json"
}

// value prints v as indented JSON in json mode, or calls text otherwise
func (p *printer) value(v any, text func(sb *strings.Builder)) error {
	if p.json() {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	var sb strings.Builder
	text(&sb)
	_, err := io.WriteString(p.w, sb.String())
	return err
}

func (p *printer) annotations(total int, annotations []hypothesis.Annotation) error {
	if p.json() {
		return p.value(struct {
			Total int                     `json:"total"`
			Rows  []hypothesis.Annotation `json:"rows"`
		}{total, annotations}, nil)
	}
	return p.value(nil, func(sb *strings.Builder) {
		formatAnnotationList(sb, total, annotations)
	})
}

func (p *printer) annotation(a *hypothesis.Annotation) error {
	return p.value(a, func(sb *strings.Builder) {
		formatAnnotation(sb, *a, true)
	})
}

func (p *printer) groups(groups []hypothesis.Group) error {
	return p.value(groups, func(sb *strings.Builder) {
		if len(groups) == 0 {
			sb.WriteString("No groups found\n")
			return
		}
		fmt.Fprintf(sb, "\nGroups (%d):\n\n", len(groups))
		for _, g := range groups {
			formatGroup(sb, g)
		}
	})
}

func (p *printer) group(g *hypothesis.Group) error {
	return p.value(g, func(sb *strings.Builder) {
		formatGroup(sb, *g)
	})
}

func (p *printer) users(users []hypothesis.User) error {
	return p.value(users, func(sb *strings.Builder) {
		if len(users) == 0 {
			sb.WriteString("No members\n")
			return
		}
		fmt.Fprintf(sb, "\nMembers (%d):\n\n", len(users))
		for _, u := range users {
			formatUser(sb, u)
		}
	})
}

func (p *printer) user(u *hypothesis.User) error {
	return p.value(u, func(sb *strings.Builder) {
		formatUser(sb, *u)
	})
}

func (p *printer) message(v any, msg string) error {
	return p.value(v, func(sb *strings.Builder) {
		sb.WriteString(msg)
		sb.WriteString("\n")
	})
}

func formatAnnotationList(sb *strings.Builder, total int, annotations []hypothesis.Annotation) {
	if len(annotations) == 0 {
		sb.WriteString("No annotations found\n")
		return
	}

	sb.WriteString("\nAnnotation")
	if len(annotations) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(sb, " (%d of %d):\n\n", len(annotations), total)

	for i, a := range annotations {
		formatAnnotation(sb, a, false)
		if i < len(annotations)-1 {
			sb.WriteString("│\n")
		}
	}
	sb.WriteString("\n")
}

func formatAnnotation(sb *strings.Builder, a hypothesis.Annotation, details bool) {
	title := a.Title()
	if title == "" {
		title = a.URI
	}
	fmt.Fprintf(sb, "├─ %s  %s\n", a.ID, title)
	fmt.Fprintf(sb, "│  ├─ By: %s\n", a.DisplayName())
	if !a.UpdatedAt().IsZero() {
		fmt.Fprintf(sb, "│  ├─ Updated: %s\n", a.UpdatedAt().Format("2006-01-02 15:04"))
	}
	if len(a.Tags) > 0 {
		fmt.Fprintf(sb, "│  ├─ Tags: %s\n", strings.Join(a.Tags, ", "))
	}
	var flags []string
	if a.IsReply() {
		flags = append(flags, "reply")
	}
	if a.Hidden {
		flags = append(flags, "hidden")
	}
	if a.Flagged {
		flags = append(flags, "flagged")
	}
	if len(flags) > 0 {
		fmt.Fprintf(sb, "│  ├─ Status: %s\n", strings.Join(flags, ", "))
	}
	if details {
		fmt.Fprintf(sb, "│  ├─ URI: %s\n", a.URI)
		fmt.Fprintf(sb, "│  ├─ Group: %s\n", a.Group)
	}
	fmt.Fprintf(sb, "│  └─ %s\n", summarize(a.Text, details))
}

func formatGroup(sb *strings.Builder, g hypothesis.Group) {
	fmt.Fprintf(sb, "├─ %s  %s [%s]\n", g.ID, g.Name, g.Type)
	if g.Organization != nil && g.Organization.Expanded() {
		fmt.Fprintf(sb, "│  ├─ Organization: %s\n", g.Organization.Name)
	}
	if g.Scopes != nil && len(g.Scopes.URIPatterns) > 0 {
		fmt.Fprintf(sb, "│  ├─ Scopes: %s\n", strings.Join(g.Scopes.URIPatterns, ", "))
	}
	fmt.Fprintf(sb, "│  └─ %s\n", g.Links.HTML)
}

func formatUser(sb *strings.Builder, u hypothesis.User) {
	name := u.Username
	if u.DisplayName != nil && *u.DisplayName != "" {
		name = *u.DisplayName
	}
	fmt.Fprintf(sb, "├─ %s  %s\n", u.UserID, name)
}

// summarize shortens annotation text for list output
func summarize(text string, full bool) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "(no text)"
	}
	const maxLen = 100
	if full || len([]rune(text)) <= maxLen {
		return text
	}
	return string([]rune(text)[:maxLen]) + "…"
}
