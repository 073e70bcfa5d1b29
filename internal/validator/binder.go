package validator

import (
	"log/slog"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/types"
)

// LateBinder defers the choice between a method and a free function for
// calls written without a receiver inside a class. Calls are bucketed per
// class and per target CallName, so each bucket is resolved once.
type LateBinder struct {
	types.Logger

	buckets map[bucketKey]*callBucket
	order   []*callBucket
}

type bucketKey struct {
	class  *ClassRecord
	target string
}

type callBucket struct {
	class   *ClassRecord
	target  string
	display string
	arity   int
	calls   []*ast.Call
}

// unboundCalls is a bucket that resolved to neither a method nor a
// function.
type unboundCalls struct {
	class   *ClassRecord
	display string
	arity   int
	calls   []*ast.Call
}

// NewLateBinder returns an empty binder.
func NewLateBinder(logger *slog.Logger) *LateBinder {
	return &LateBinder{
		Logger:  types.Logger{L: logger},
		buckets: make(map[bucketKey]*callBucket),
	}
}

// RecordPendingCall adds call to the bucket of (class, target).
func (b *LateBinder) RecordPendingCall(class *ClassRecord, call *ast.Call, target string) {
	key := bucketKey{class: class, target: target}
	bucket, ok := b.buckets[key]
	if !ok {
		bucket = &callBucket{class: class, target: target, display: call.Name, arity: len(call.Args)}
		b.buckets[key] = bucket
		b.order = append(b.order, bucket)
	}
	bucket.calls = append(bucket.calls, call)
}

// Len returns the number of pending buckets.
func (b *LateBinder) Len() int { return len(b.order) }

// Resolve decides every bucket. A target found in the class hierarchy
// marks all its calls as method calls; one found among the global
// functions leaves them as free calls. The rest are returned.
func (b *LateBinder) Resolve(functions map[string]*ast.FunctionDef) []unboundCalls {
	var unbound []unboundCalls
	for _, bucket := range b.order {
		switch {
		case bucket.class.HasMethodInHierarchy(bucket.target):
			for _, call := range bucket.calls {
				call.SetMethod(true)
			}
			if b.TraceEnabled() {
				b.Trace("bound to method",
					slog.String("class", bucket.class.Name),
					slog.String("target", bucket.target),
					slog.Int("calls", len(bucket.calls)))
			}
		case functions[bucket.target] != nil:
			if b.TraceEnabled() {
				b.Trace("bound to function",
					slog.String("class", bucket.class.Name),
					slog.String("target", bucket.target),
					slog.Int("calls", len(bucket.calls)))
			}
		default:
			unbound = append(unbound, unboundCalls{
				class:   bucket.class,
				display: bucket.display,
				arity:   bucket.arity,
				calls:   bucket.calls,
			})
		}
	}
	b.buckets = make(map[bucketKey]*callBucket)
	b.order = nil
	return unbound
}
