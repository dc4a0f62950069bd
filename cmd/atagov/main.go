package main

import (
	"fmt"
	"os"
)

func main() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newProposalCmd)
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(powerCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
