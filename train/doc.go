// Package train provides the training harness used by the tutorials: a
// Trainer that drives epochs of sequential batch updates through a model,
// logs per-epoch statistics, optionally evaluates a validation split and
// periodically writes checkpoints with the training state recorded in the
// header.
package train
