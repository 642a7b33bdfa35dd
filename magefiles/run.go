//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Packs the generated block scene into testbed.rtxs.
func (Run) Testbed() error {
	fmt.Println("Run testbed...")
	if _, err := executeCmd("go", withArgs("run", ".", "-blocks", "7", "-out", "testbed.rtxs"), withStream()); err != nil {
		return err
	}
	return nil
}

// Packs the scene described by the given config and rebuilds it whenever
// the config changes.
func (Run) Watch(config string) error {
	fmt.Printf("Watching %s...\n", config)
	if _, err := executeCmd("go", withArgs("run", ".", "-config", config, "-watch"), withStream()); err != nil {
		return err
	}
	return nil
}
