package main

import "freshmart/internal/cmd"

func main() {
	cmd.Execute()
}
