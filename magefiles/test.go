package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// debugTag turns boundary misuse into a panic.
const debugTag = "toodle_debug"

// Test groups test targets (all, unit, debug).
type Test mg.Namespace

// All runs every test with cgo enabled.
func (Test) All() error {
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"}, binGo, "test", "-v", "./...")
}

// Unit runs the packages that build without cgo: everything except the
// boundary and the shared-library entry points.
func (Test) Unit() error {
	pkgs, err := sh.Output(binGo, "list", "./...")
	if err != nil {
		return err
	}
	var unitPkgs []string
	for pkg := range strings.SplitSeq(pkgs, "\n") {
		if pkg != "" && !strings.Contains(pkg, "/internal/boundary") && !strings.HasSuffix(pkg, "/cmd/libtoodle") {
			unitPkgs = append(unitPkgs, pkg)
		}
	}
	if len(unitPkgs) == 0 {
		fmt.Println("No unit test packages found.")
		return nil
	}
	args := append([]string{"test", "-v"}, unitPkgs...)
	return sh.RunV(binGo, args...)
}

// Debug runs the boundary tests built with the debug tag, where misuse
// panics instead of returning a status. Tests that check the reported status
// are excluded from that build.
func (Test) Debug() error {
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "1"},
		binGo, "test", "-v", "-tags", debugTag, "./internal/boundary/...")
}
