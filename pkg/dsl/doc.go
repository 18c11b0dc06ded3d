/*
Package dsl provides a Go DSL for programmatically constructing model trees.

It allows developers to define diagrams using a fluent builder pattern instead
of writing YAML or JSON files. This is particularly useful for dynamic model
generation and unit testing.

Example usage:

	b := dsl.New("ROOT", "graph")

	b.Node("n1").Type("node:rect").At(0, 0).Size(80, 40).Label("Start")
	b.Node("n2").Type("node:circle").Class("highlight")
	b.Edge("e1", "n1", "n2")

	root, err := b.Build()
	// ... pass root to engine.SetModel(ctx, root)
*/
package dsl
