// Package dataset provides the in-memory datasets and mini-batch loader
// used by the tutorials: the XOR truth table, synthetic regression and
// classification tasks, the official MNIST IDX files and a hashed
// bag-of-tokens text featurizer.
//
// Everything is row-major and fully materialised: a dataset is two dense
// tensors, inputs [n, in] and targets [n, out], and the Loader copies
// rows into fixed-size batch tensors because the downstream graphs are
// shape-static.
package dataset
