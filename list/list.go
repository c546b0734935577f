package list

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ernesto27/go-nip/pkgspec"
)

const columnWidth = 20

var (
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	versionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	catalogStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Row is one unstyled line of the summary. Padding is already applied.
type Row struct {
	Spec    string
	Catalog string
	Source  string
}

type Lister struct {
	Specs []*pkgspec.ParsedSpec
	// Fallback is shown for references without a specifier.
	Fallback string
}

func New(specs []*pkgspec.ParsedSpec, fallback string) *Lister {
	return &Lister{
		Specs:    specs,
		Fallback: fallback,
	}
}

func (l *Lister) Rows() []Row {
	rows := make([]Row, 0, len(l.Specs))
	for _, s := range l.Specs {
		rows = append(rows, l.row(s))
	}
	return rows
}

func (l *Lister) row(s *pkgspec.ParsedSpec) Row {
	spec := s.SpecifierOr(l.Fallback)
	r := Row{
		Spec: s.Name + "@" + spec + pad(columnWidth-len(s.Name)-len(spec)),
	}
	if s.Catalog != "" {
		label := "catalog:" + s.Catalog
		r.Catalog = label + pad(columnWidth-len(label)-1)
	} else {
		r.Catalog = pad(columnWidth)
	}
	if s.SpecifierSource != "" {
		r.Source = fmt.Sprintf("(from %s)", s.SpecifierSource)
	}
	return r
}

// Render returns the styled summary, one reference per line.
func (l *Lister) Render() string {
	var b strings.Builder
	for i, s := range l.Specs {
		if i > 0 {
			b.WriteByte('\n')
		}
		spec := s.SpecifierOr(l.Fallback)
		r := l.row(s)

		b.WriteString(nameStyle.Render(s.Name))
		b.WriteString("@")
		b.WriteString(versionStyle.Render(spec))
		b.WriteString(strings.TrimPrefix(r.Spec, s.Name+"@"+spec))
		b.WriteString(" ")
		if s.Catalog != "" {
			label := "catalog:" + s.Catalog
			b.WriteString(catalogStyle.Render(label))
			b.WriteString(strings.TrimPrefix(r.Catalog, label))
		} else {
			b.WriteString(r.Catalog)
		}
		if r.Source != "" {
			b.WriteString(" ")
			b.WriteString(sourceStyle.Render(r.Source))
		}
	}
	return b.String()
}

func pad(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
