/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/swipekit/magstripe/cmd/magstripe/cmd"
)

func main() {
	cmd.Execute()
}
