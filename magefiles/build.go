//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Runs go mod download and then builds the citymesh binary into bin/.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("mod", "download"), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/citymesh", "."), withStream()); err != nil {
		return err
	}
	return nil
}
