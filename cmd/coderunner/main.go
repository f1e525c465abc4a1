package main

import "github.com/hamzaessahbaoui/coderunner-toolkit/internal/cli"

func main() {
	cli.Execute()
}
