/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/tristendillon/pcc/cmd"

func main() {
	cmd.Execute()
}
