//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "bin/tessera"
	mainPkg = "./cmd/server"
	docsDir = "./cmd/server/docs"
)

// wireDirs holds the injector packages.
var wireDirs = []string{"./internal/app"}

// swagDirs are scanned for route annotations and the types they reference.
var swagDirs = []string{
	"./cmd/server",
	"./internal/adapter/inbound/http/recruitment",
	"./internal/port/inbound",
	"./internal/model",
	"./internal/utils/errors",
}

// raceDirs hold the code paths that take locks or run jobs concurrently.
var raceDirs = []string{
	"./internal/domain/...",
	"./internal/infra/scheduler/...",
	"./internal/infra/events/...",
	"./internal/adapter/outbound/...",
}

// Default target when running mage without arguments.
var Default = Build

// Gen groups code generation targets.
type Gen mg.Namespace

// Test groups test targets.
type Test mg.Namespace

// Build compiles a static server binary.
func Build() error {
	mg.Deps(Gen.All)
	fmt.Println("Building", binary)
	env := map[string]string{"CGO_ENABLED": "0"}
	return sh.RunWith(env, "go", "build", "-trimpath", "-ldflags", "-s -w", "-o", binary, mainPkg)
}

// All regenerates the injector and the OpenAPI docs.
func (Gen) All() {
	mg.SerialDeps(Gen.Wire, Gen.Swagger)
}

// Wire regenerates wire_gen.go for each injector package.
func (Gen) Wire() error {
	for _, dir := range wireDirs {
		fmt.Println("wire", dir)
		if err := sh.Run("wire", "gen", dir); err != nil {
			return fmt.Errorf("wire %s: %w", dir, err)
		}
	}
	return nil
}

// Swagger regenerates the OpenAPI docs served at /swagger.
func (Gen) Swagger() error {
	fmt.Println("swag init", docsDir)
	return sh.Run("swag", "init",
		"--generalInfo", "docs.go",
		"--dir", strings.Join(swagDirs, ","),
		"--output", docsDir,
		"--outputTypes", "go",
		"--parseInternal",
	)
}

// Unit runs every package's tests.
func (Test) Unit() error {
	return sh.RunV("go", "test", "./...")
}

// Cover writes coverage.out and prints the per-function summary.
func (Test) Cover() error {
	if err := sh.RunV("go", "test", "-covermode=atomic", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Race runs the concurrency-sensitive packages under the race detector.
func (Test) Race() error {
	return sh.RunV("go", append([]string{"test", "-race", "-count=1"}, raceDirs...)...)
}

// Lint runs go vet and golangci-lint.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Tidy runs go mod tidy.
func Tidy() error {
	return sh.Run("go", "mod", "tidy")
}

// CI runs what the pipeline gates on.
func CI() {
	mg.SerialDeps(Tidy, Gen.All, Lint, Test.Race, Test.Cover)
}

// Dev builds and runs the server with a local .env.
func Dev() error {
	mg.Deps(Build)
	cmd := exec.Command(binary)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), "TESSERA_ENV=development")
	return cmd.Run()
}

// Clean removes build and coverage artifacts. Generated sources are kept
// because the tree must build without the generators installed.
func Clean() error {
	for _, path := range []string{filepath.Dir(binary), "coverage.out"} {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs the code generators and linter.
func Install() error {
	tools := []string{
		"github.com/google/wire/cmd/wire@v0.7.0",
		"github.com/swaggo/swag/cmd/swag@v1.16.6",
		"github.com/golangci/golangci-lint/cmd/golangci-lint@latest",
	}
	for _, tool := range tools {
		fmt.Println("go install", tool)
		if err := sh.Run("go", "install", tool); err != nil {
			return fmt.Errorf("install %s: %w", tool, err)
		}
	}
	return nil
}
