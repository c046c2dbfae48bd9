/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/Shegzy-Dev/Music-Player-Backend/cmd"

func main() {
	cmd.Execute()
}
