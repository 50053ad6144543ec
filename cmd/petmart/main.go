package main

import "github.com/petmart/petmart/internal/cmd"

func main() {
	cmd.Execute()
}
