// Package printer buffers emitted target code statement by statement.
//
// Output has two regions: pre-code (hoisted tables and prologue fragments,
// emitted first) and statements (the program body). Within the active
// region, text for the pending statement goes to one of three slots: pre
// (for example temporary variable declarations), now (the statement itself)
// and post (cleanup). Flush drains pre, now and post, in that order, and
// clears them for the next statement.
//
// Function bodies printed inside an expression, such as blocks passed to a
// call, open a nested statement frame. Statements in a nested frame flush
// into the now slot of the enclosing frame, so the enclosing statement's
// pre and post text stays around the whole statement.
package printer

import (
	"strconv"
	"strings"
)

// Region selects where appended text goes.
type Region int

const (
	RegionStatements Region = iota
	RegionPreCode
)

func (r Region) String() string {
	if r == RegionPreCode {
		return "pre-code"
	}
	return "statements"
}

// statement holds the three slots of one pending statement.
type statement struct {
	pre  strings.Builder
	now  strings.Builder
	post strings.Builder
}

func (s *statement) empty() bool {
	return s.pre.Len() == 0 && s.now.Len() == 0 && s.post.Len() == 0
}

func (s *statement) drainTo(dst *strings.Builder) {
	dst.WriteString(s.pre.String())
	dst.WriteString(s.now.String())
	dst.WriteString(s.post.String())
	s.pre.Reset()
	s.now.Reset()
	s.post.Reset()
}

type region struct {
	out    strings.Builder
	frames []*statement // frames[0] is the top-level statement
}

func newRegion() *region {
	return &region{frames: []*statement{{}}}
}

func (r *region) top() *statement {
	return r.frames[len(r.frames)-1]
}

// Printer is a buffered, statement-oriented text emitter.
type Printer struct {
	regions [2]*region
	active  Region
	temps   int
}

// New returns an empty printer targeting the statement region.
func New() *Printer {
	return &Printer{
		regions: [2]*region{newRegion(), newRegion()},
		active:  RegionStatements,
	}
}

// SetCodeMode selects the statement region (true) or the pre-code region
// (false) for subsequent appends.
func (p *Printer) SetCodeMode(code bool) {
	if code {
		p.active = RegionStatements
	} else {
		p.active = RegionPreCode
	}
}

// Region returns the active region.
func (p *Printer) Region() Region {
	return p.active
}

func (p *Printer) current() *region {
	return p.regions[p.active]
}

// Append adds text to the now slot of the pending statement.
func (p *Printer) Append(parts ...string) {
	now := &p.current().top().now
	for _, s := range parts {
		now.WriteString(s)
	}
}

// AppendPre adds text to the pre slot of the pending statement.
func (p *Printer) AppendPre(parts ...string) {
	pre := &p.current().top().pre
	for _, s := range parts {
		pre.WriteString(s)
	}
}

// AppendPost adds text to the post slot of the pending statement.
func (p *Printer) AppendPost(parts ...string) {
	post := &p.current().top().post
	for _, s := range parts {
		post.WriteString(s)
	}
}

// Flush drains the pending statement of the active region. At the top
// level it goes to the region's output; in a nested frame it goes to the
// enclosing frame's now slot.
func (p *Printer) Flush() {
	r := p.current()
	top := r.top()
	if len(r.frames) == 1 {
		top.drainTo(&r.out)
		return
	}
	top.drainTo(&r.frames[len(r.frames)-2].now)
}

// EndStatement terminates the pending statement and flushes it.
func (p *Printer) EndStatement() {
	p.Append(";\n")
	p.Flush()
}

// BeginNested opens a statement frame for a function body printed inside
// an expression.
func (p *Printer) BeginNested() {
	r := p.current()
	r.frames = append(r.frames, &statement{})
}

// EndNested flushes and closes the innermost nested frame.
func (p *Printer) EndNested() {
	r := p.current()
	if len(r.frames) == 1 {
		panic("printer: EndNested without BeginNested")
	}
	p.Flush()
	r.frames = r.frames[:len(r.frames)-1]
}

// TempVariable returns a fresh temporary variable name. Callers declare it
// in the pre slot.
func (p *Printer) TempVariable() string {
	name := "_t" + strconv.Itoa(p.temps)
	p.temps++
	return name
}

// Pending reports whether the active region has unflushed text.
func (p *Printer) Pending() bool {
	for _, f := range p.current().frames {
		if !f.empty() {
			return true
		}
	}
	return false
}

// String returns the pre-code region followed by the statement region.
// Unflushed top-level text of each region is included in slot order.
func (p *Printer) String() string {
	var b strings.Builder
	for _, r := range []*region{p.regions[RegionPreCode], p.regions[RegionStatements]} {
		b.WriteString(r.out.String())
		top := r.frames[0]
		b.WriteString(top.pre.String())
		b.WriteString(top.now.String())
		b.WriteString(top.post.String())
	}
	return b.String()
}
