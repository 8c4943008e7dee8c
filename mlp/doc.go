// Package mlp builds small dense feed-forward networks on top of gorgonia's
// expression graphs, automatic differentiation and solvers.
//
// # Basic Usage
//
//	model, err := mlp.New(
//	    mlp.Arch{In: 2, Out: 1, Hidden: []int{5}},
//	    mlp.WithBatchSize(4),
//	    mlp.WithOutputActivation(mlp.Sigmoid),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer model.Close()
//
//	solver := gorgonia.NewAdamSolver(gorgonia.WithLearnRate(0.05))
//	for epoch := 0; epoch < 1000; epoch++ {
//	    loss, err := model.FitBatch(x, y, solver)
//	    ...
//	}
//
// All tensor math, gradient computation and parameter updates are
// gorgonia's; this package only assembles graphs, names parameters
// ("fc<i>.weight", "fc<i>.bias") and exposes the state-dict surface the
// checkpoint package serializes.
package mlp
