// Package compile wires the five compile phases into the single
// public entry point the rest of the system calls: parse once, hand
// the AST batch here, get back an ordered DDL command sequence or a
// diagnostic.
package compile

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gelflux/sdlc/diag"
	"github.com/gelflux/sdlc/internal/xlog"
	"github.com/gelflux/sdlc/schema"
	"github.com/gelflux/sdlc/schema/internal/depgraph"
	"github.com/gelflux/sdlc/schema/internal/inherit"
	"github.com/gelflux/sdlc/schema/internal/layout"
	"github.com/gelflux/sdlc/schema/internal/topo"
)

// compileNamespace seeds the deterministic correlation IDs [Compile]
// attaches to its log lines. It is a fixed, arbitrary UUID, not a
// secret — its only job is to give uuid.NewSHA1 a stable namespace so
// the same batch always yields the same correlation ID.
var compileNamespace = uuid.MustParse("6f2b1c3a-6e6e-4f7b-9a0b-1a2b3c4d5e6f")

// correlationID derives a deterministic, content-addressed ID for a
// batch from its sorted module names, so repeated compiles of the same
// input are traceable across log lines without reading the wall clock
// or a random source: two Compile calls over the same batch must be
// indistinguishable in everything except log timestamps.
func correlationID(batch Batch) uuid.UUID {
	modules := make([]string, 0, len(batch))
	for m := range batch {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	return uuid.NewSHA1(compileNamespace, []byte(strings.Join(modules, "\x00")))
}

// Batch is the module_name -> AST-nodes input shape.
type Batch = layout.Batch

// Compile runs the full pipeline — layout tracing, ancestor closure,
// inheritance merge, dependency tracing, topological sort — against a
// fresh [schema.Context] and returns the fully-ordered DDL sequence,
// module preludes included.
//
// host supplies whatever schema already exists outside this batch
// (the standard library, or a previously-materialized user schema);
// pass nil for a from-scratch compile against only the standard
// library pseudo-types. moduleAliases maps any WITH-block aliases in
// effect for the whole batch to the module paths they denote.
func Compile(host schema.HostSchema, batch Batch, moduleAliases map[string]string) ([]schema.Command, *diag.Error) {
	log := xlog.Default().With(logrus.Fields{"correlation_id": correlationID(batch).String()})
	ctx := schema.NewContext(host, moduleAliases)

	span := log.Phase("layout")
	err := layout.Trace(ctx, batch)
	span.End(errOrNil(err))
	if err != nil {
		return nil, err
	}

	span = log.Phase("ancestors")
	err = inherit.ComputeAncestors(ctx)
	span.End(errOrNil(err))
	if err != nil {
		return nil, err
	}

	span = log.Phase("merge")
	inherit.Merge(ctx)
	span.End(nil)

	span = log.Phase("depgraph")
	err = depgraph.Build(ctx, batch)
	span.End(errOrNil(err))
	if err != nil {
		return nil, err
	}

	span = log.Phase("topo")
	commands, err := topo.Sort(ctx)
	span.End(errOrNil(err))
	if err != nil {
		return nil, err
	}

	prelude := modulePreludes(batch)
	log.Info("compile finished", logrus.Fields{"commands": len(prelude) + len(commands)})
	return append(prelude, commands...), nil
}

// errOrNil adapts a *diag.Error to the plain error interface
// phaseSpan.End expects, preserving a true nil (a non-nil *diag.Error
// boxed in an error interface value is never == nil).
func errOrNil(err *diag.Error) error {
	if err == nil {
		return nil
	}
	return err
}

// modulePreludes returns one CreateModule command for every module
// named in batch and for every dotted prefix of such a module
// ("a::b::c" emits CreateModule commands for "a", "a::b", and
// "a::b::c"), in ascending lexicographic order of the prefix itself so
// that a parent module's CreateModule always precedes its children's.
func modulePreludes(batch Batch) []schema.Command {
	seen := map[string]bool{}
	var modules []string

	for module := range batch {
		for _, prefix := range prefixesOf(module) {
			if !seen[prefix] {
				seen[prefix] = true
				modules = append(modules, prefix)
			}
		}
	}

	sort.Strings(modules)

	out := make([]schema.Command, 0, len(modules))
	for _, m := range modules {
		node := schema.NewCreateModule(m)
		out = append(out, schema.NewCommand(schema.Name{Module: m, Name: ""}, node))
	}
	return out
}

// prefixesOf returns every dotted prefix of module, including module
// itself: prefixesOf("a::b::c") is ["a", "a::b", "a::b::c"].
func prefixesOf(module string) []string {
	parts := strings.Split(module, "::")
	prefixes := make([]string, 0, len(parts))
	for i := range parts {
		prefixes = append(prefixes, strings.Join(parts[:i+1], "::"))
	}
	return prefixes
}
