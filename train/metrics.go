package train

import (
	T "gorgonia.org/tensor"
)

// Accuracy computes the fraction of rows where the predicted class (argmax
// of the output row) matches the target class (argmax of the one-hot
// target row). Both tensors must have shape [batch, classes].
func Accuracy(pred, target *T.Dense) float64 {
	rows := pred.Shape()[0]
	cols := pred.Shape()[1]
	if rows == 0 {
		return 0
	}

	predData := pred.Data().([]float64)
	targetData := target.Data().([]float64)

	correct := 0
	for r := 0; r < rows; r++ {
		if argmaxRow(predData, r, cols) == argmaxRow(targetData, r, cols) {
			correct++
		}
	}
	return float64(correct) / float64(rows)
}

func argmaxRow(data []float64, row, cols int) int {
	best := 0
	bestVal := data[row*cols]
	for c := 1; c < cols; c++ {
		if v := data[row*cols+c]; v > bestVal {
			bestVal = v
			best = c
		}
	}
	return best
}
