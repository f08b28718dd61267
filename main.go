package main

import "github.com/Zmley/warehouse-admin-sub001/cmd"

func main() {
	cmd.Execute()
}
