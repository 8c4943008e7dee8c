package mlp

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	T "gorgonia.org/tensor"
)

// StateDict returns a deep copy of every parameter, keyed by canonical name
// ("fc0.weight", "fc0.bias", ...). Mutating the returned tensors does not
// affect the model.
func (m *MLP) StateDict() map[string]*T.Dense {
	state := make(map[string]*T.Dense, 2*len(m.layers))
	for i, ly := range m.layers {
		state[WeightName(i)] = ly.w.Value().(*T.Dense).Clone().(*T.Dense)
		state[BiasName(i)] = ly.b.Value().(*T.Dense).Clone().(*T.Dense)
	}
	return state
}

// SetState replaces every parameter with the tensors in state.
//
// The state dict must match the model exactly: every canonical parameter
// name present, no extra entries, and every tensor with the precise shape
// and dtype the architecture dictates. There is no reshaping and no partial
// loading. Validation happens before any assignment, so on error the model's
// parameters are left untouched.
func (m *MLP) SetState(state map[string]*T.Dense) error {
	type binding struct {
		node *G.Node
		t    *T.Dense
	}
	bindings := make([]binding, 0, 2*len(m.layers))

	expected := make(map[string]bool, 2*len(m.layers))
	for i, ly := range m.layers {
		for _, p := range []struct {
			name string
			node *G.Node
		}{
			{WeightName(i), ly.w},
			{BiasName(i), ly.b},
		} {
			expected[p.name] = true

			t, ok := state[p.name]
			if !ok {
				return fmt.Errorf("%w: %s", ErrMissingParameter, p.name)
			}
			if t.Dtype() != T.Float64 {
				return fmt.Errorf("%w: %s has dtype %v, want float64", ErrDTypeMismatch, p.name, t.Dtype())
			}
			if !t.Shape().Eq(p.node.Shape()) {
				return fmt.Errorf("%w: %s has shape %v, model expects %v",
					ErrShapeMismatch, p.name, t.Shape(), p.node.Shape())
			}
			bindings = append(bindings, binding{node: p.node, t: t})
		}
	}

	for name := range state {
		if !expected[name] {
			return fmt.Errorf("%w: %s", ErrUnexpectedParameter, name)
		}
	}

	// All checks passed; now it is safe to mutate.
	for _, b := range bindings {
		if err := G.Let(b.node, b.t.Clone().(*T.Dense)); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b.node.Name(), err)
		}
	}
	return nil
}

// CopyTo transfers this model's parameters into dst, which must have the
// same architecture. This is the train-graph to inference-graph handoff:
// train at one batch size, copy the weights into a model built at another.
func (m *MLP) CopyTo(dst *MLP) error {
	if !m.arch.Equal(dst.arch) {
		return fmt.Errorf("%w: %+v vs %+v", ErrArchMismatch, m.arch, dst.arch)
	}
	for i := range m.layers {
		if err := G.Let(dst.layers[i].w, m.layers[i].w.Value().(*T.Dense).Clone().(*T.Dense)); err != nil {
			return fmt.Errorf("failed to copy %s: %w", WeightName(i), err)
		}
		if err := G.Let(dst.layers[i].b, m.layers[i].b.Value().(*T.Dense).Clone().(*T.Dense)); err != nil {
			return fmt.Errorf("failed to copy %s: %w", BiasName(i), err)
		}
	}
	return nil
}
