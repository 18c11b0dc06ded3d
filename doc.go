/*
Package diagram is the model synchronization core of a diagramming engine.

It owns the authoritative model tree, accepts structural change requests
(whole-tree replacement or incremental matches) and emits the actions a
rendering layer needs to stay in sync: setModel, updateModel, requestBounds and
setPopupModel.

# Concept

A renderer either accepts trees with known sizes, or has to measure them first.
In the second case (WithClientLayout) every submission becomes a bounds round
trip: the engine emits requestBounds, the renderer answers with computedBounds
carrying the request token, and only then is the measured tree pushed as an
update. Responses carrying an outdated token are discarded.

All model operations run in one serialized dispatcher turn, so the Engine can be
shared by HTTP handlers, message bridges and file watchers.

# Usage

	eng, err := diagram.New(
		diagram.WithLayoutEngine(layout.NewGrid().Engine()),
		diagram.WithLogger(logger),
	)
	if err != nil {
		log.Fatal(err)
	}

	// Forward everything the engine emits to the renderer.
	eng.RegisterRenderer(ports.HandlerFunc(func(ctx context.Context, a domain.Action) error {
		return send(a)
	}))

	root, _ := dsl.New("ROOT", "graph").Node("n1").Done().Build()
	_ = eng.SetModel(ctx, root)
	_ = eng.AddElements(ctx, domain.ElementInsertion{Element: domain.NewElement("n2", "node")})
*/
package diagram
