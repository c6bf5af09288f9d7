package adapter

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/proplens/proplens/internal/logger"
	m "github.com/proplens/proplens/internal/model"
)

// DebugInfoLoader reads the debug directives the code generator left in
// generated sources and rebuilds the scope/event trees from them. It only
// consumes the mapping; producing it is the generator's job.
//
// Directives are full-line comments of the form:
//
//	--# property-start <qualname> <file:line[:column]>
//	--# scope-start
//	--# bind <dsl-name> <gen-name>
//	--# expr-start <id> "<repr>" <file:line[:column]>
//	--# expr-done <id> <result-var>
//	--# scope-end
//	--# property-end
//
// The generated line of each event is the line the directive sits on. An
// expr-start location of "-" means the expression has no DSL location.
type DebugInfoLoader struct{}

// NewDebugInfoLoader constructs a DebugInfoLoader.
func NewDebugInfoLoader() *DebugInfoLoader {
	return &DebugInfoLoader{}
}

const directiveMarker = "--#"

var exprStartRe = regexp.MustCompile(`^(\d+) "(.*)" (\S+)$`)

// Load parses one generated source file.
func (l *DebugInfoLoader) Load(path string) (*m.DebugInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open generated source: %w", err)
	}
	defer file.Close()

	p := &directiveParser{path: path}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++

		text := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(text, directiveMarker) {
			continue
		}

		directive := strings.TrimSpace(strings.TrimPrefix(text, directiveMarker))
		if err := p.handle(directive, lineNo); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := p.finish(lineNo); err != nil {
		return nil, err
	}

	logger.Log.Debug("loaded debug info",
		"file", path, "properties", len(p.properties))

	return &m.DebugInfo{Filename: path, Properties: p.properties}, nil
}

// LoadAll parses several generated units concurrently, preserving the input
// order in the result.
func (l *DebugInfoLoader) LoadAll(paths ...string) ([]*m.DebugInfo, error) {
	infos := make([]*m.DebugInfo, len(paths))

	var g errgroup.Group

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			info, err := l.Load(path)
			if err != nil {
				return err
			}

			infos[i] = info

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return infos, nil
}

// directiveParser accumulates properties while walking directives in file
// order. The scope stack tracks the currently open scopes, innermost last.
type directiveParser struct {
	path       string
	properties []*m.Property
	current    *m.Property
	stack      []*m.Scope
}

func (p *directiveParser) handle(directive string, line int) error {
	name, rest, _ := strings.Cut(directive, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "property-start":
		return p.propertyStart(rest, line)
	case "scope-start":
		return p.scopeStart(line)
	case "bind":
		return p.bind(rest, line)
	case "expr-start":
		return p.exprStart(rest, line)
	case "expr-done":
		return p.exprDone(rest, line)
	case "scope-end":
		return p.scopeEnd(line)
	case "property-end":
		return p.propertyEnd(line)
	default:
		return p.errorf(line, "unknown directive %q", name)
	}
}

func (p *directiveParser) propertyStart(rest string, line int) error {
	if p.current != nil {
		return p.errorf(line, "property-start inside property %s", p.current.Name)
	}

	qual, slocText, ok := strings.Cut(rest, " ")
	if !ok || qual == "" {
		return p.errorf(line, "property-start needs a name and a location")
	}

	loc, err := m.ParseDSLLocation(slocText)
	if err != nil {
		return p.errorf(line, "property-start: %v", err)
	}

	root := &m.Scope{Range: m.LineRange{First: line}}
	p.current = &m.Property{
		Name:    qual,
		Loc:     loc,
		GenFile: p.path,
		Scope:   root,
	}
	p.stack = []*m.Scope{root}

	return nil
}

func (p *directiveParser) scopeStart(line int) error {
	top, err := p.top(line, "scope-start")
	if err != nil {
		return err
	}

	scope := &m.Scope{Range: m.LineRange{First: line}}
	top.Events = append(top.Events, scope)
	p.stack = append(p.stack, scope)

	return nil
}

func (p *directiveParser) bind(rest string, line int) error {
	top, err := p.top(line, "bind")
	if err != nil {
		return err
	}

	dslName, genName, ok := strings.Cut(rest, " ")
	if !ok || dslName == "" || genName == "" {
		return p.errorf(line, "bind needs a DSL name and a generated name")
	}

	top.Events = append(top.Events, m.Binding{
		DSLName: dslName,
		GenName: genName,
		Line:    line,
	})

	return nil
}

func (p *directiveParser) exprStart(rest string, line int) error {
	top, err := p.top(line, "expr-start")
	if err != nil {
		return err
	}

	groups := exprStartRe.FindStringSubmatch(rest)
	if groups == nil {
		return p.errorf(line, `expr-start needs an id, a quoted repr and a location`)
	}

	id, _ := strconv.Atoi(groups[1])

	var loc m.DSLLocation

	if groups[3] != "-" {
		loc, err = m.ParseDSLLocation(groups[3])
		if err != nil {
			return p.errorf(line, "expr-start: %v", err)
		}
	}

	top.Events = append(top.Events, m.ExprStart{
		ID:   id,
		Repr: groups[2],
		Loc:  loc,
		Line: line,
	})

	return nil
}

func (p *directiveParser) exprDone(rest string, line int) error {
	top, err := p.top(line, "expr-done")
	if err != nil {
		return err
	}

	idText, resultVar, ok := strings.Cut(rest, " ")
	if !ok || resultVar == "" {
		return p.errorf(line, "expr-done needs an id and a result variable")
	}

	id, convErr := strconv.Atoi(idText)
	if convErr != nil {
		return p.errorf(line, "expr-done: bad id %q", idText)
	}

	top.Events = append(top.Events, m.ExprDone{
		ID:        id,
		ResultVar: resultVar,
		Line:      line,
	})

	return nil
}

func (p *directiveParser) scopeEnd(line int) error {
	// The root scope is closed by property-end, not scope-end.
	if len(p.stack) < 2 {
		return p.errorf(line, "scope-end without matching scope-start")
	}

	p.stack[len(p.stack)-1].Range.Last = line
	p.stack = p.stack[:len(p.stack)-1]

	return nil
}

func (p *directiveParser) propertyEnd(line int) error {
	if p.current == nil {
		return p.errorf(line, "property-end without matching property-start")
	}

	if len(p.stack) > 1 {
		return p.errorf(line, "property-end with %d unclosed scopes", len(p.stack)-1)
	}

	p.current.Scope.Range.Last = line
	p.properties = append(p.properties, p.current)
	p.current = nil
	p.stack = nil

	return nil
}

func (p *directiveParser) finish(lastLine int) error {
	if p.current != nil {
		return p.errorf(lastLine, "missing property-end for %s", p.current.Name)
	}

	return nil
}

func (p *directiveParser) top(line int, directive string) (*m.Scope, error) {
	if len(p.stack) == 0 {
		return nil, p.errorf(line, "%s outside of any property", directive)
	}

	return p.stack[len(p.stack)-1], nil
}

func (p *directiveParser) errorf(line int, format string, args ...any) error {
	return fmt.Errorf("%s:%d: %s", p.path, line, fmt.Sprintf(format, args...))
}
