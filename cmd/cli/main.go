package main

import (
	"github.com/codeblind/codeblind-go/internal/cli"
)

func main() {
	cli.Execute()
}
