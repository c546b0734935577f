package args

import (
	"strings"
)

// Kind is the value shape of a command-line option.
type Kind int

const (
	KindBool Kind = iota
	KindString
	KindStringSlice
)

// Option is a single flag as it appeared on the command line.
type Option struct {
	Name   string
	Kind   Kind
	Bool   bool
	Value  string
	Values []string
}

// CatalogMode describes what the --catalog flag asked for.
type CatalogMode int

const (
	CatalogUnset CatalogMode = iota
	CatalogDefault
	CatalogNamed
	CatalogDisabled
)

const (
	DefaultCatalog = "default"

	flagCatalog   = "catalog"
	flagYes       = "yes"
	flagDev       = "dev"
	flagDevShort  = "d"
	flagWorkspace = "workspace"
	flagWsShort   = "w"
	flagHelp      = "help"
	flagHelpShort = "h"
	flagVersion   = "version"
	flagVerShort  = "v"
)

// boolFlags never take the following token as their value.
var boolFlags = map[string]bool{
	flagYes:       true,
	flagDev:       true,
	flagWorkspace: true,
	flagHelp:      true,
	flagVersion:   true,
}

// CatalogFlag is the parsed value of --catalog.
type CatalogFlag struct {
	Mode CatalogMode
	Name string
}

// Effective returns the catalog name to assign, or "" when none applies.
func (c CatalogFlag) Effective() string {
	switch c.Mode {
	case CatalogDefault:
		return DefaultCatalog
	case CatalogNamed:
		return c.Name
	}
	return ""
}

func (c CatalogFlag) Disabled() bool {
	return c.Mode == CatalogDisabled
}

// Args is an immutable view of one invocation's command line.
type Args struct {
	Names     []string
	Catalog   CatalogFlag
	Yes       bool
	Dev       bool
	Workspace bool
	Help      bool
	Version   bool
	Options   []Option
	Rest      []string
	Raw       []string
}

// Parse reads argv (without the program name). Flags it does not recognise
// are kept in Options so they can be forwarded.
func Parse(argv []string) *Args {
	a := &Args{Raw: append([]string(nil), argv...)}
	p := &parser{args: a, index: make(map[string]int)}

	for i := 0; i < len(argv); i++ {
		tok := argv[i]

		switch {
		case tok == "--":
			a.Rest = append(a.Rest, argv[i+1:]...)
			i = len(argv)
		case strings.HasPrefix(tok, "--") && len(tok) > 2:
			name, value, hasValue := strings.Cut(tok[2:], "=")
			// --key value, unless key is a known switch or negated
			if !hasValue && !boolFlags[name] && !strings.HasPrefix(name, "no-") &&
				i+1 < len(argv) && argv[i+1] != "" && !strings.HasPrefix(argv[i+1], "-") {
				i++
				value, hasValue = argv[i], true
			}
			p.long(name, value, hasValue)
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			for _, r := range tok[1:] {
				p.set(string(r), "", false)
			}
		default:
			a.Names = append(a.Names, tok)
		}
	}

	p.apply()
	return a
}

type parser struct {
	args  *Args
	index map[string]int
}

func (p *parser) long(name, value string, hasValue bool) {
	if !hasValue && strings.HasPrefix(name, "no-") {
		p.setBool(strings.TrimPrefix(name, "no-"), false)
		return
	}
	p.set(name, value, hasValue)
}

func (p *parser) set(name, value string, hasValue bool) {
	if !hasValue {
		p.setBool(name, true)
		return
	}

	if i, ok := p.index[name]; ok {
		opt := &p.args.Options[i]
		switch opt.Kind {
		case KindString:
			opt.Kind = KindStringSlice
			opt.Values = []string{opt.Value, value}
			opt.Value = ""
		case KindStringSlice:
			opt.Values = append(opt.Values, value)
		default:
			*opt = Option{Name: name, Kind: KindString, Value: value}
		}
		return
	}
	p.add(Option{Name: name, Kind: KindString, Value: value})
}

func (p *parser) setBool(name string, v bool) {
	if i, ok := p.index[name]; ok {
		p.args.Options[i] = Option{Name: name, Kind: KindBool, Bool: v}
		return
	}
	p.add(Option{Name: name, Kind: KindBool, Bool: v})
}

func (p *parser) add(opt Option) {
	p.index[opt.Name] = len(p.args.Options)
	p.args.Options = append(p.args.Options, opt)
}

// apply projects the collected options onto the recognised fields.
func (p *parser) apply() {
	a := p.args
	for _, opt := range a.Options {
		switch opt.Name {
		case flagCatalog:
			a.Catalog = catalogFromOption(opt)
		case flagYes:
			a.Yes = opt.Bool
		case flagDev, flagDevShort:
			a.Dev = a.Dev || opt.Bool
		case flagWorkspace, flagWsShort:
			a.Workspace = a.Workspace || opt.Bool
		case flagHelp, flagHelpShort:
			a.Help = a.Help || opt.Bool
		case flagVersion, flagVerShort:
			a.Version = a.Version || opt.Bool
		}
	}
}

func catalogFromOption(opt Option) CatalogFlag {
	value := opt.Value
	switch opt.Kind {
	case KindBool:
		if opt.Bool {
			return CatalogFlag{Mode: CatalogDefault}
		}
		return CatalogFlag{Mode: CatalogDisabled}
	case KindStringSlice:
		value = opt.Values[len(opt.Values)-1]
	}

	switch value {
	case "false":
		return CatalogFlag{Mode: CatalogDisabled}
	case "true", "":
		return CatalogFlag{Mode: CatalogDefault}
	}
	return CatalogFlag{Mode: CatalogNamed, Name: value}
}

// Without returns the options minus the named ones. The receiver is unchanged.
func (a *Args) Without(names ...string) []Option {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	out := make([]Option, 0, len(a.Options))
	for _, opt := range a.Options {
		if !drop[opt.Name] {
			out = append(out, opt)
		}
	}
	return out
}

// Forward is the argument list for a plain install: every option except
// --catalog, then the package names, then anything after "--".
func (a *Args) Forward() []string {
	out := Serialize(a.Without(flagCatalog), nil)
	out = append(out, a.Names...)
	if len(a.Rest) > 0 {
		out = append(out, "--")
		out = append(out, a.Rest...)
	}
	return out
}

// Serialize flattens options back into command-line tokens.
func Serialize(opts []Option, rest []string) []string {
	var out []string
	for _, opt := range opts {
		switch opt.Kind {
		case KindBool:
			switch {
			case opt.Bool && len(opt.Name) == 1:
				out = append(out, "-"+opt.Name)
			case opt.Bool:
				out = append(out, "--"+opt.Name)
			default:
				out = append(out, "--no-"+opt.Name)
			}
		case KindStringSlice:
			for _, v := range opt.Values {
				out = append(out, "--"+opt.Name, v)
			}
		default:
			out = append(out, "--"+opt.Name, opt.Value)
		}
	}

	if len(rest) > 0 {
		out = append(out, "--")
		out = append(out, rest...)
	}
	return out
}
