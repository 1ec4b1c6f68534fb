package main

import "github.com/techjojo/catalogue/cmd"

func main() {
	cmd.Execute()
}
