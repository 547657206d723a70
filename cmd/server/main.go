package main

import "Inkwell/internal/bootstrap"

func main() {
	bootstrap.Run()
}
