package main

import "github.com/Mohsinsiddi/inkctl/cmd"

func main() {
	cmd.Execute()
}
