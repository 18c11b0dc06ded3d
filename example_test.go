package diagram_test

import (
	"context"
	"fmt"

	"github.com/aretw0/diagram"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/dsl"
	"github.com/aretw0/diagram/pkg/ports"
)

func ExampleEngine() {
	ctx := context.Background()

	root, err := dsl.New("ROOT", "graph").
		Node("start").Type("node:rect").Label("Start").Done().
		Node("end").Type("node:rect").Label("End").Done().
		Edge("flow", "start", "end").Done().
		Build()
	if err != nil {
		fmt.Println(err)
		return
	}

	eng, err := diagram.New()
	if err != nil {
		fmt.Println(err)
		return
	}
	eng.RegisterRenderer(ports.HandlerFunc(func(_ context.Context, a domain.Action) error {
		fmt.Println("renderer got", a.Kind())
		return nil
	}))

	_ = eng.SetModel(ctx, root)
	_ = eng.RemoveElements(ctx, domain.ElementRemoval{ElementID: "flow"})

	// Output:
	// renderer got setModel
	// renderer got updateModel
}
