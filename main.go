package main

import "github.com/frahmantamala/hours-portal/cmd"

func main() {
	cmd.Execute()
}
