package main

import "github.com/theirongolddev/payg/cmd"

func main() {
	cmd.Execute()
}
