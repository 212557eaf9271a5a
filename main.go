package main

import "github.com/bilalammar/library-management-system/internal/cli"

func main() {
	cli.Execute()
}
