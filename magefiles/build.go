//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the rtx binary into bin/.
func (Build) Binary() error {
	mg.Deps(Build.Tidy)
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/rtx", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy and go vet.
func (Build) Tidy() error {
	return goTidy()
}
