/*
	Copyright 2023 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/f1results/cmd"

func main() {
	cmd.Execute()
}
