package mlp

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	T "gorgonia.org/tensor"
)

// ModelType is the model type string recorded in checkpoints.
const ModelType = "MLP"

// layer holds the trainable nodes of one fully connected layer.
type layer struct {
	w *G.Node // (in, out) weight matrix
	b *G.Node // (1, out) bias row, broadcast over the batch
}

// MLP is a dense feed-forward network assembled on a gorgonia expression
// graph. The graph carries the forward pass, the loss and the gradient
// nodes, and is compiled once into a tape machine that is reset and re-run
// for every batch.
//
// The graph is shape-static: the batch size is fixed at construction and
// every batch must match it exactly. To run a trained network at a
// different batch size, build a second model with the same Arch and copy
// the weights over with CopyTo, as the gorgonia tutorials do for their
// train/predict split.
type MLP struct {
	arch      Arch
	batchSize int
	hiddenAct Activation
	outputAct Activation
	loss      Loss

	g      *G.ExprGraph
	input  *G.Node
	target *G.Node
	layers []layer

	outVal  G.Value
	lossVal G.Value

	machine G.VM
}

// New builds an MLP for the given architecture.
//
// Weights are Glorot-initialised, biases start at zero. The returned model
// owns a compiled tape machine; call Close when done with it.
func New(arch Arch, opts ...Option) (*MLP, error) {
	if err := arch.Validate(); err != nil {
		return nil, err
	}

	m := &MLP{
		arch:      arch,
		batchSize: 32,
		hiddenAct: Sigmoid,
		outputAct: Identity,
		loss:      MSE,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size %d", ErrInvalidArch, m.batchSize)
	}
	if m.loss == CrossEntropy && m.outputAct != Softmax {
		return nil, fmt.Errorf("cross-entropy loss requires a softmax output, got %q", m.outputAct)
	}

	m.g = G.NewGraph()
	m.input = G.NewMatrix(m.g, G.Float64, G.WithShape(m.batchSize, arch.In), G.WithName("input"))
	m.target = G.NewMatrix(m.g, G.Float64, G.WithShape(m.batchSize, arch.Out), G.WithName("target"))

	dims := arch.dims()
	m.layers = make([]layer, 0, len(dims)-1)
	for i := 0; i < len(dims)-1; i++ {
		w := G.NewMatrix(m.g, G.Float64,
			G.WithShape(dims[i], dims[i+1]),
			G.WithName(WeightName(i)),
			G.WithInit(G.GlorotN(1.0)))
		b := G.NewMatrix(m.g, G.Float64,
			G.WithShape(1, dims[i+1]),
			G.WithName(BiasName(i)),
			G.WithInit(G.Zeroes()))
		m.layers = append(m.layers, layer{w: w, b: b})
	}

	output, err := m.buildForward()
	if err != nil {
		return nil, err
	}
	G.Read(output, &m.outVal)

	lossNode, err := m.buildLoss(output)
	if err != nil {
		return nil, err
	}
	G.Read(lossNode, &m.lossVal)

	if _, err := G.Grad(lossNode, m.Params()...); err != nil {
		return nil, fmt.Errorf("failed to build gradient: %w", err)
	}

	m.machine = G.NewTapeMachine(m.g, G.BindDualValues(m.Params()...))
	return m, nil
}

// buildForward wires input through every layer: x·W + b then activation.
func (m *MLP) buildForward() (*G.Node, error) {
	x := m.input
	for i, ly := range m.layers {
		xw, err := G.Mul(x, ly.w)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		pre, err := G.BroadcastAdd(xw, ly.b, nil, []byte{0})
		if err != nil {
			return nil, fmt.Errorf("layer %d bias: %w", i, err)
		}

		act := m.hiddenAct
		if i == len(m.layers)-1 {
			act = m.outputAct
		}
		x, err = applyActivation(pre, act)
		if err != nil {
			return nil, fmt.Errorf("layer %d activation: %w", i, err)
		}
	}
	return x, nil
}

// buildLoss attaches the training criterion to the output node.
func (m *MLP) buildLoss(output *G.Node) (*G.Node, error) {
	switch m.loss {
	case MSE:
		diff, err := G.Sub(output, m.target)
		if err != nil {
			return nil, err
		}
		sq, err := G.Square(diff)
		if err != nil {
			return nil, err
		}
		return G.Mean(sq)
	case CrossEntropy:
		logp, err := G.Log(output)
		if err != nil {
			return nil, err
		}
		nll, err := G.HadamardProd(G.Must(G.Neg(logp)), m.target)
		if err != nil {
			return nil, err
		}
		return G.Mean(nll)
	default:
		return nil, fmt.Errorf("unknown loss %q", m.loss)
	}
}

func applyActivation(x *G.Node, act Activation) (*G.Node, error) {
	switch act {
	case Identity, "":
		return x, nil
	case Sigmoid:
		return G.Sigmoid(x)
	case Tanh:
		return G.Tanh(x)
	case ReLU:
		return G.Rectify(x)
	case Softmax:
		return G.SoftMax(x)
	default:
		return nil, fmt.Errorf("unknown activation %q", act)
	}
}

// Arch returns the model's architecture record.
func (m *MLP) Arch() Arch {
	return m.arch
}

// BatchSize returns the fixed batch size the graph was built for.
func (m *MLP) BatchSize() int {
	return m.batchSize
}

// Params returns the trainable nodes in layer order, weights before biases.
// Solvers step exactly these nodes.
func (m *MLP) Params() G.Nodes {
	params := make(G.Nodes, 0, 2*len(m.layers))
	for _, ly := range m.layers {
		params = append(params, ly.w, ly.b)
	}
	return params
}

// FitBatch runs one forward/backward pass over a batch and lets the solver
// update the parameters. It returns the batch loss.
func (m *MLP) FitBatch(x, y T.Tensor, solver G.Solver) (float64, error) {
	if err := m.run(x, y); err != nil {
		return 0, err
	}
	if err := solver.Step(G.NodesToValueGrads(m.Params())); err != nil {
		return 0, fmt.Errorf("solver step: %w", err)
	}
	return m.lossVal.Data().(float64), nil
}

// Eval runs a forward pass over a batch without updating parameters.
// It returns the batch loss and a copy of the network output.
func (m *MLP) Eval(x, y T.Tensor) (float64, *T.Dense, error) {
	if err := m.run(x, y); err != nil {
		return 0, nil, err
	}

	backing := append([]float64(nil), m.outVal.Data().([]float64)...)
	out := T.New(T.WithShape(m.outVal.Shape()...), T.WithBacking(backing))
	return m.lossVal.Data().(float64), out, nil
}

// Predict runs a forward pass with a zero target, for callers that only
// want the output. The loss value computed against the zero target is
// discarded.
func (m *MLP) Predict(x T.Tensor) (*T.Dense, error) {
	zeros := T.New(T.WithShape(m.batchSize, m.arch.Out), T.Of(T.Float64))
	_, out, err := m.Eval(x, zeros)
	return out, err
}

// run resets the machine, binds a batch and executes the graph.
func (m *MLP) run(x, y T.Tensor) error {
	wantX := T.Shape{m.batchSize, m.arch.In}
	if !x.Shape().Eq(wantX) {
		return fmt.Errorf("%w: input shape %v, graph expects %v", ErrBatchMismatch, x.Shape(), wantX)
	}
	wantY := T.Shape{m.batchSize, m.arch.Out}
	if !y.Shape().Eq(wantY) {
		return fmt.Errorf("%w: target shape %v, graph expects %v", ErrBatchMismatch, y.Shape(), wantY)
	}

	m.machine.Reset()
	if err := G.Let(m.input, x); err != nil {
		return fmt.Errorf("failed to bind input: %w", err)
	}
	if err := G.Let(m.target, y); err != nil {
		return fmt.Errorf("failed to bind target: %w", err)
	}
	if err := m.machine.RunAll(); err != nil {
		return fmt.Errorf("forward/backward pass: %w", err)
	}
	return nil
}

// Close releases the compiled tape machine.
func (m *MLP) Close() error {
	if m.machine == nil {
		return nil
	}
	err := m.machine.Close()
	m.machine = nil
	return err
}
