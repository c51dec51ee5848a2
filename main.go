package main

import "github.com/codefolio/portfolio-stats-api/cmd"

func main() {
	cmd.Execute()
}
