//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "gradualbook"
	mainPath   = "./cmd/gradualbook"
)

// Default target to run when none is specified
var Default = Build

// Build builds the gradualbook binary
func Build() error {
	fmt.Println("Building", binaryName+"...")
	return sh.RunV("go", "build", "-o", binaryName, mainPath)
}

// Install installs the binary into GOPATH/bin
func Install() error {
	mg.Deps(Test)
	fmt.Println("Installing", binaryName+"...")
	return sh.RunV("go", "install", mainPath)
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestRace runs all tests with the race detector
func TestRace() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning...")
	if err := sh.Rm(binaryName); err != nil {
		return err
	}
	return os.RemoveAll("dist")
}
