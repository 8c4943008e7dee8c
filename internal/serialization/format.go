package serialization

import (
	"time"

	"gorgonia.org/tensor"
)

// Format constants.
const (
	MagicBytes      = "DNSE"
	FormatVersion   = 1  // v1: JSON header + raw little-endian tensor data
	HeaderAlignment = 64 // Align tensor data to 64 bytes
)

// Data type string constants for serialization.
const (
	DTypeFloat64 = "float64"
	DTypeFloat32 = "float32"
)

// Flags for the .dense format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
	FlagHasTraining uint32 = 1 << 1 // bit 1: training state included
)

// Arch records the architecture a checkpoint was produced from: input
// dimensionality, output dimensionality and the ordered hidden-layer widths.
// A model rebuilt from these numbers must produce exactly the tensor shapes
// stored in the file.
type Arch struct {
	Input  int   `json:"input"`
	Output int   `json:"output"`
	Hidden []int `json:"hidden"`
}

// Header represents the JSON header in a .dense file.
type Header struct {
	FormatVersion int               `json:"format_version"` // Version of the .dense format
	DenseVersion  string            `json:"dense_version"`  // Version of dense that created this file
	ModelType     string            `json:"model_type"`     // Type of model (e.g., "MLP")
	CreatedAt     time.Time         `json:"created_at"`     // When the file was created
	Arch          Arch              `json:"arch"`           // Architecture record
	Tensors       []TensorMeta      `json:"tensors"`        // Tensor metadata
	Metadata      map[string]string `json:"metadata"`       // Custom metadata
	Training      *TrainingMeta     `json:"training,omitempty"`
}

// TrainingMeta records the training state a checkpoint was taken at.
type TrainingMeta struct {
	Epoch        int            `json:"epoch"`
	Step         int64          `json:"step"`
	Loss         float64        `json:"loss"`
	SolverType   string         `json:"solver_type"`
	SolverConfig map[string]any `json:"solver_config,omitempty"`
}

// TensorMeta describes a tensor in the .dense file.
type TensorMeta struct {
	Name   string `json:"name"`   // Parameter name (e.g., "fc0.weight")
	DType  string `json:"dtype"`  // Data type ("float64" or "float32")
	Shape  []int  `json:"shape"`  // Tensor shape
	Offset int64  `json:"offset"` // Offset in the data section
	Size   int64  `json:"size"`   // Size in bytes
}

// dtypeToString converts tensor.Dtype to its serialized representation.
func dtypeToString(dt tensor.Dtype) (string, bool) {
	switch dt {
	case tensor.Float64:
		return DTypeFloat64, true
	case tensor.Float32:
		return DTypeFloat32, true
	default:
		return "", false
	}
}

// stringToDtype converts a serialized dtype back to tensor.Dtype.
func stringToDtype(s string) (tensor.Dtype, bool) {
	switch s {
	case DTypeFloat64:
		return tensor.Float64, true
	case DTypeFloat32:
		return tensor.Float32, true
	default:
		return tensor.Dtype{}, false
	}
}

// dtypeSize returns the byte size of one element of the serialized dtype.
func dtypeSize(s string) int {
	switch s {
	case DTypeFloat64:
		return 8
	case DTypeFloat32:
		return 4
	default:
		return 0
	}
}
