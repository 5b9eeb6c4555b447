package main

import "github.com/magefile/mage/sh"

const binLint = "golangci-lint"

// Lint runs golangci-lint, once per build tag set so the debug-only files
// are checked too.
func Lint() error {
	if err := sh.RunV(binLint, "run", "./..."); err != nil {
		return err
	}
	return sh.RunV(binLint, "run", "--build-tags", debugTag, "./internal/boundary/...")
}
