package main

import "github.com/terraconstructs/cohort/cmd/cohortctl/cmd"

func main() {
	cmd.Execute()
}
