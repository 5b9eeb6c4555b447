// Package main provides build targets for the toodle project using Mage.
//
// Usage:
//
//	mage build          Compile the toodle CLI to bin/
//	mage lib            Build libtoodle as a C shared library with its header
//	mage test:all       Run every test
//	mage test:unit      Run tests without cgo-only packages
//	mage test:debug     Run the boundary tests with misuse panics enabled
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install toodle to GOPATH/bin
//	mage stats          Print Go LOC and documentation word counts
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "toodle"
	binaryDir  = "bin"
	cmdDir     = "./cmd/toodle"

	libName   = "libtoodle"
	libDir    = "build"
	libCmdDir = "./cmd/libtoodle"
	header    = "include/toodle.h"
)

// version is stamped into the CLI; override with TOODLE_VERSION.
func version() string {
	if v := os.Getenv("TOODLE_VERSION"); v != "" {
		return v
	}
	return "0.1.0-dev"
}

// Build compiles the toodle binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	ldflags := "-X main.Version=" + version()
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags,
		"-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Lib builds the C shared library into build/ next to a copy of toodle.h.
func Lib() error {
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(libDir, libName+sharedExt())
	env := map[string]string{"CGO_ENABLED": "1"}
	if err := sh.RunWithV(env, binGo, "build", "-buildmode=c-shared", "-o", out, libCmdDir); err != nil {
		return fmt.Errorf("build %s: %w", out, err)
	}
	// c-shared also emits a generated header; the hand-written one is the contract.
	generated := filepath.Join(libDir, libName+".h")
	if err := os.Remove(generated); err != nil && !os.IsNotExist(err) {
		return err
	}
	return sh.Copy(filepath.Join(libDir, filepath.Base(header)), header)
}

func sharedExt() string {
	switch runtime.GOOS {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

// Clean removes build artifacts.
func Clean() error {
	for _, dir := range []string{binaryDir, libDir} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
