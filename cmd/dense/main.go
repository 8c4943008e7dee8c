// Command dense trains, evaluates and inspects small feed-forward networks
// from YAML experiment configs.
package main

import "github.com/dense-ml/dense/internal/cli"

func main() {
	cli.Execute()
}
