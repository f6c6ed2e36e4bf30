// Package main is the steplog binary.
package main

import "github.com/liuxd6825/steplog/cmd"

func main() {
	cmd.Execute()
}
