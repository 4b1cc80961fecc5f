package main

import "github.com/dzjyyds666/qent/cmd"

func main() {
	cmd.Execute()
}
