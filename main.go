package main

import "github.com/vishnuprakaz/sales-assist/cmd"

func main() {
	cmd.Execute()
}
