package main

import "phishdetect/cmd"

func main() {
	cmd.Execute()
}
