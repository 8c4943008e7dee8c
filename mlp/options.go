package mlp

// Activation selects an element-wise nonlinearity.
type Activation string

// Supported activations.
const (
	Identity Activation = "identity"
	Sigmoid  Activation = "sigmoid"
	Tanh     Activation = "tanh"
	ReLU     Activation = "relu"
	Softmax  Activation = "softmax" // output layer only
)

// Loss selects the training criterion.
type Loss string

// Supported losses.
const (
	// MSE is mean squared error, for regression and the XOR-style examples.
	MSE Loss = "mse"
	// CrossEntropy is the negative log-likelihood against one-hot targets.
	// It expects the output activation to be Softmax.
	CrossEntropy Loss = "cross_entropy"
)

// Option configures an MLP at construction time.
//
// Options cover everything a checkpoint does not record: batch size,
// activations and the training criterion. The architecture itself is never
// an option so that a model rebuilt from a checkpoint's recorded dimensions
// is always shape-compatible with the stored parameters.
type Option func(*MLP)

// WithBatchSize sets the fixed batch size the graph is built for.
// The default is 32. Gorgonia graphs are shape-static, so all batches fed to
// FitBatch and Eval must have exactly this many rows.
func WithBatchSize(n int) Option {
	return func(m *MLP) { m.batchSize = n }
}

// WithHiddenActivation sets the activation applied after each hidden layer.
// The default is Sigmoid.
func WithHiddenActivation(act Activation) Option {
	return func(m *MLP) { m.hiddenAct = act }
}

// WithOutputActivation sets the activation applied after the output layer.
// The default is Identity.
func WithOutputActivation(act Activation) Option {
	return func(m *MLP) { m.outputAct = act }
}

// WithLoss sets the training criterion. The default is MSE.
func WithLoss(l Loss) Option {
	return func(m *MLP) { m.loss = l }
}
