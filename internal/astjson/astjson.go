// Package astjson decodes programs produced by an external parser.
//
// A file holds one program:
//
//	{
//	  "source": "point.q",
//	  "errors": [{"line": 3, "message": "unexpected end"}],
//	  "body": [ statements ]
//	}
//
// Statements and expressions are objects tagged by "type". Every node may
// carry "line" and "text". Expressions are stored into the program's arena
// as they are decoded.
package astjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/quill-lang/quill/internal/ast"
)

// ErrUnknownType is wrapped by errors for unrecognized node tags.
var ErrUnknownType = errors.New("unknown node type")

type file struct {
	Source string      `json:"source"`
	Errors []fileError `json:"errors"`
	Body   []node      `json:"body"`
}

type fileError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// node is the union of every statement and expression shape.
type node struct {
	Type string `json:"type"`
	Line int    `json:"line"`
	Text string `json:"text"`

	Name   string   `json:"name"`
	Super  string   `json:"super"`
	Class  string   `json:"class"`
	Params []string `json:"params"`
	Body   []node   `json:"body"`

	Cond  *node   `json:"cond"`
	Then  []node  `json:"then"`
	Elsif []elsif `json:"elsif"`
	Else  []node  `json:"else"`
	Until bool    `json:"until"`
	Expr  *node   `json:"expr"`
	Code  string  `json:"code"`

	Target *node           `json:"target"`
	Value  json.RawMessage `json:"value"`

	Recv  *node     `json:"recv"`
	Args  []node    `json:"args"`
	Elems []node    `json:"elems"`
	Pairs [][2]node `json:"pairs"`
	Block *block    `json:"block"`

	Op    string `json:"op"`
	Left  *node  `json:"left"`
	Right *node  `json:"right"`
	X     *node  `json:"x"`
}

type elsif struct {
	Line int    `json:"line"`
	Cond *node  `json:"cond"`
	Body []node `json:"body"`
}

type block struct {
	Line   int      `json:"line"`
	Params []string `json:"params"`
	Body   []node   `json:"body"`
}

// Decode reads one program. Parse errors recorded in the file are
// returned alongside it.
func Decode(r io.Reader) (*ast.Program, []ast.ParseError, error) {
	var f file
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, nil, fmt.Errorf("decoding program: %w", err)
	}
	return build(&f)
}

// Unmarshal decodes one program from data.
func Unmarshal(data []byte) (*ast.Program, []ast.ParseError, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("decoding program: %w", err)
	}
	return build(&f)
}

func build(f *file) (*ast.Program, []ast.ParseError, error) {
	d := &decoder{prog: ast.NewProgram(f.Source)}

	var perrs []ast.ParseError
	for _, e := range f.Errors {
		perrs = append(perrs, ast.ParseError{At: d.off(e.Line, ""), Message: e.Message})
	}

	stmts, err := d.stmts(f.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", f.Source, err)
	}
	d.prog.Stmts = stmts
	return d.prog, perrs, nil
}

type decoder struct {
	prog *ast.Program
}

func (d *decoder) off(line int, text string) ast.Offset {
	return ast.Offset{Source: d.prog.Source, Line: line, Text: text}
}

func (d *decoder) base(n *node) ast.Base {
	return ast.Base{At: d.off(n.Line, n.Text)}
}

func (d *decoder) params(line int, names []string) []ast.Param {
	out := make([]ast.Param, len(names))
	for i, name := range names {
		out[i] = ast.Param{At: d.off(line, ""), Name: name}
	}
	return out
}

func (d *decoder) stmts(nodes []node) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(nodes))
	for i := range nodes {
		s, err := d.stmt(&nodes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) stmt(n *node) (ast.Stmt, error) {
	switch n.Type {
	case "class":
		c := &ast.ClassDef{Base: d.base(n), Name: n.Name, Super: n.Super}
		for i := range n.Body {
			m := &n.Body[i]
			if m.Type != "def" {
				return nil, fmt.Errorf("line %d: class body holds %q, want def", m.Line, m.Type)
			}
			f, err := d.function(m)
			if err != nil {
				return nil, err
			}
			c.Body = append(c.Body, f)
		}
		return c, nil
	case "def":
		return d.function(n)
	case "if":
		cond, err := d.required(n, n.Cond, "cond")
		if err != nil {
			return nil, err
		}
		s := &ast.If{Base: d.base(n), Cond: cond}
		if s.Then, err = d.stmts(n.Then); err != nil {
			return nil, err
		}
		for _, arm := range n.Elsif {
			c, err := d.required(n, arm.Cond, "elsif cond")
			if err != nil {
				return nil, err
			}
			body, err := d.stmts(arm.Body)
			if err != nil {
				return nil, err
			}
			s.ElseIfs = append(s.ElseIfs, ast.ElseIf{At: d.off(arm.Line, ""), Cond: c, Body: body})
		}
		if n.Else != nil {
			if s.Else, err = d.stmts(n.Else); err != nil {
				return nil, err
			}
		}
		return s, nil
	case "while":
		cond, err := d.required(n, n.Cond, "cond")
		if err != nil {
			return nil, err
		}
		body, err := d.stmts(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.While{Base: d.base(n), Cond: cond, Body: body, Until: n.Until}, nil
	case "return":
		value := ast.NoExpr
		if len(n.Value) > 0 && string(n.Value) != "null" {
			var v node
			if err := json.Unmarshal(n.Value, &v); err != nil {
				return nil, fmt.Errorf("line %d: return value: %w", n.Line, err)
			}
			id, err := d.expr(&v)
			if err != nil {
				return nil, err
			}
			value = id
		}
		return &ast.Return{Base: d.base(n), Value: value}, nil
	case "expr":
		x, err := d.required(n, n.Expr, "expr")
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Base: d.base(n), X: x}, nil
	case "assign":
		target, err := d.required(n, n.Target, "target")
		if err != nil {
			return nil, err
		}
		var v node
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, fmt.Errorf("line %d: assignment value: %w", n.Line, err)
		}
		value, err := d.expr(&v)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Base: d.base(n), Target: target, Value: value}, nil
	case "inline":
		return &ast.Inline{Base: d.base(n), Code: n.Code}, nil
	case "preinline":
		return &ast.PreInline{Base: d.base(n), Code: n.Code}, nil
	default:
		return nil, fmt.Errorf("line %d: statement %q: %w", n.Line, n.Type, ErrUnknownType)
	}
}

func (d *decoder) function(n *node) (*ast.FunctionDef, error) {
	body, err := d.stmts(n.Body)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDef{
		Base:   d.base(n),
		Name:   n.Name,
		Params: d.params(n.Line, n.Params),
		Body:   body,
	}, nil
}

func (d *decoder) required(parent, n *node, field string) (ast.ExprID, error) {
	if n == nil {
		return ast.NoExpr, fmt.Errorf("line %d: %s: missing %s", parent.Line, parent.Type, field)
	}
	return d.expr(n)
}

func (d *decoder) exprs(nodes []node) ([]ast.ExprID, error) {
	out := make([]ast.ExprID, 0, len(nodes))
	for i := range nodes {
		id, err := d.expr(&nodes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (d *decoder) block(b *block) (*ast.BlockLit, error) {
	if b == nil {
		return nil, nil
	}
	body, err := d.stmts(b.Body)
	if err != nil {
		return nil, err
	}
	return &ast.BlockLit{At: d.off(b.Line, ""), Params: d.params(b.Line, b.Params), Body: body}, nil
}

func (d *decoder) scalar(n *node) (string, error) {
	var s string
	if err := json.Unmarshal(n.Value, &s); err != nil {
		return "", fmt.Errorf("line %d: %s value: %w", n.Line, n.Type, err)
	}
	return s, nil
}

func (d *decoder) expr(n *node) (ast.ExprID, error) {
	a := d.prog.Arena
	base := d.base(n)
	switch n.Type {
	case "num":
		// Numbers may be written as JSON numbers or as source text.
		var num json.Number
		if err := json.Unmarshal(n.Value, &num); err == nil {
			return a.Add(&ast.Number{Base: base, Value: num.String()}), nil
		}
		v, err := d.scalar(n)
		if err != nil {
			return ast.NoExpr, err
		}
		return a.Add(&ast.Number{Base: base, Value: v}), nil
	case "str":
		v, err := d.scalar(n)
		if err != nil {
			return ast.NoExpr, err
		}
		return a.Add(&ast.String{Base: base, Value: v}), nil
	case "sym":
		return a.Add(&ast.SymbolLit{Base: base, Name: n.Name}), nil
	case "bool":
		var v bool
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return ast.NoExpr, fmt.Errorf("line %d: bool value: %w", n.Line, err)
		}
		return a.Add(&ast.Bool{Base: base, Value: v}), nil
	case "nil":
		return a.Add(&ast.Nil{Base: base}), nil
	case "this":
		return a.Add(&ast.This{Base: base}), nil
	case "var":
		return a.Add(&ast.Var{Base: base, Name: n.Name}), nil
	case "field":
		return a.Add(&ast.Field{Base: base, Name: n.Name}), nil
	case "global":
		return a.Add(&ast.Global{Base: base, Name: n.Name}), nil
	case "array":
		elems, err := d.exprs(n.Elems)
		if err != nil {
			return ast.NoExpr, err
		}
		return a.Add(&ast.ArrayLit{Base: base, Elems: elems}), nil
	case "hash":
		h := &ast.HashLit{Base: base}
		for i := range n.Pairs {
			k, err := d.expr(&n.Pairs[i][0])
			if err != nil {
				return ast.NoExpr, err
			}
			v, err := d.expr(&n.Pairs[i][1])
			if err != nil {
				return ast.NoExpr, err
			}
			h.Pairs = append(h.Pairs, ast.Pair{Key: k, Value: v})
		}
		return a.Add(h), nil
	case "call":
		args, err := d.exprs(n.Args)
		if err != nil {
			return ast.NoExpr, err
		}
		blk, err := d.block(n.Block)
		if err != nil {
			return ast.NoExpr, err
		}
		return a.Add(&ast.Call{Base: base, Name: n.Name, Args: args, Block: blk}), nil
	case "send":
		recv, err := d.required(n, n.Recv, "recv")
		if err != nil {
			return ast.NoExpr, err
		}
		args, err := d.exprs(n.Args)
		if err != nil {
			return ast.NoExpr, err
		}
		blk, err := d.block(n.Block)
		if err != nil {
			return ast.NoExpr, err
		}
		return a.Add(&ast.MethodCall{Base: base, Recv: recv, Name: n.Name, Args: args, Block: blk}), nil
	case "super":
		args, err := d.exprs(n.Args)
		if err != nil {
			return ast.NoExpr, err
		}
		return a.Add(&ast.SuperCall{Base: base, Args: args}), nil
	case "new":
		args, err := d.exprs(n.Args)
		if err != nil {
			return ast.NoExpr, err
		}
		blk, err := d.block(n.Block)
		if err != nil {
			return ast.NoExpr, err
		}
		return a.Add(&ast.New{Base: base, Class: n.Class, Args: args, Block: blk}), nil
	case "foreign":
		args, err := d.exprs(n.Args)
		if err != nil {
			return ast.NoExpr, err
		}
		return a.Add(&ast.ForeignNew{Base: base, Class: n.Class, Args: args}), nil
	case "binary":
		op, ok := binaryOps[n.Op]
		if !ok {
			return ast.NoExpr, fmt.Errorf("line %d: binary operator %q: %w", n.Line, n.Op, ErrUnknownType)
		}
		l, err := d.required(n, n.Left, "left")
		if err != nil {
			return ast.NoExpr, err
		}
		r, err := d.required(n, n.Right, "right")
		if err != nil {
			return ast.NoExpr, err
		}
		return a.Add(&ast.Binary{Base: base, Op: op, Left: l, Right: r}), nil
	case "unary":
		op, ok := unaryOps[n.Op]
		if !ok {
			return ast.NoExpr, fmt.Errorf("line %d: unary operator %q: %w", n.Line, n.Op, ErrUnknownType)
		}
		x, err := d.required(n, n.X, "x")
		if err != nil {
			return ast.NoExpr, err
		}
		return a.Add(&ast.Unary{Base: base, Op: op, X: x}), nil
	case "paren":
		x, err := d.required(n, n.X, "x")
		if err != nil {
			return ast.NoExpr, err
		}
		return a.Add(&ast.Paren{Base: base, X: x}), nil
	default:
		return ast.NoExpr, fmt.Errorf("line %d: expression %q: %w", n.Line, n.Type, ErrUnknownType)
	}
}

var binaryOps = map[string]ast.Op{
	"*": ast.OpMul, "/": ast.OpDiv, "%": ast.OpMod,
	"+": ast.OpAdd, "-": ast.OpSub,
	"<": ast.OpLt, "<=": ast.OpLe, ">": ast.OpGt, ">=": ast.OpGe,
	"==": ast.OpEq, "!=": ast.OpNe,
	"and": ast.OpAnd, "or": ast.OpOr,
}

var unaryOps = map[string]ast.Op{
	"!": ast.OpNot, "-": ast.OpNeg, "not": ast.OpNotKey,
}
