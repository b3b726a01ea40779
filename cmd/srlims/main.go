package main

import "github.com/juliandevatbs/SRLIMS/cmd/srlims/cmd"

func main() {
	cmd.Execute()
}
