package main

import "github.com/CADit-app/maker-chips/internal/cmd"

func main() {
	cmd.Parse()
}
