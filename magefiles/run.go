//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the binary and imports the document named by $CITYMESH_DOCUMENT.
func (Run) Import() error {
	mg.Deps(Build.Binary)

	doc := os.Getenv("CITYMESH_DOCUMENT")
	if doc == "" {
		return fmt.Errorf("set CITYMESH_DOCUMENT to the CityJSON file to import")
	}
	fmt.Println("Run import...")
	if _, err := executeCmd("bin/citymesh", withArgs(doc), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the binary and watches the directory named by $CITYMESH_WATCH_DIR.
func (Run) Watch() error {
	mg.Deps(Build.Binary)

	bin, err := filepath.Abs("bin/citymesh")
	if err != nil {
		return err
	}
	args := []string{"-watch"}
	if cfg := os.Getenv("CITYMESH_CONFIG"); cfg != "" {
		args = append(args, "-config", cfg)
	}
	if _, err := executeCmd(bin, withArgs(args...), withDir(os.Getenv("CITYMESH_WATCH_DIR")), withStream()); err != nil {
		return err
	}
	return nil
}
