// Package container wires generator backends ("dependencies") to schema
// keywords.
//
// A Container holds two tables. The registry maps a dependency name to a
// backend value, which may be a Map of named sub-generators, a Func, or a
// plain value. The support table maps a keyword name to the Resolver run when
// a schema node carries that keyword. Extend installs a default Proxy
// resolver for every new dependency, so `{"x-internet": "email"}` reaches
// internet.email without further wiring; Define overrides or adds keywords
// that do not follow the dependency lookup.
//
// Registration is expected to finish before generation starts. The tables are
// guarded for memory safety, but extending or defining while a Binding is
// generating gives no ordering guarantee; callers serialise setup first.
package container
