// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command daleelctl is the operator CLI for the Daleel answers service.
//
// Usage:
//
//	daleelctl ask "ما حكم الصلاة في السفر؟"
//	daleelctl ask --interactive
//	daleelctl ask --server http://localhost:8080 "تعريف الزكاة"
//	daleelctl vocab
//	daleelctl validate --data-dir ./corpus
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Shared flag values across subcommands.
var (
	catalogDir string
	dataDir    string
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "daleelctl",
		Short: "Operator CLI for the Daleel answers service",
		Long: `daleelctl resolves Arabic questions against the answer corpus, builds
the recovery vocabulary, and validates catalog and corpus directories
before deployment.`,
	}
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog-dir", "", "Catalog override directory (empty = embedded catalogs)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Answer corpus directory (empty = embedded corpus)")

	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Resolve a question locally or against a running server",
		Run:   runAskCommand,
	}
	askCmd.Flags().StringVar(&askServerURL, "server", "", "Resolve via a running server instead of locally")
	askCmd.Flags().BoolVarP(&askInteractive, "interactive", "i", false, "Read questions from stdin in a loop")
	askCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print raw JSON results")

	vocabCmd := &cobra.Command{
		Use:   "vocab",
		Short: "Print the typo-recovery vocabulary built from the catalogs",
		Run:   runVocabCommand,
	}
	vocabCmd.Flags().StringVarP(&vocabOutPath, "out", "o", "", "Write the vocabulary to a file instead of stdout")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate catalogs and corpus without starting a server",
		Run:   runValidateCommand,
	}

	rootCmd.AddCommand(askCmd, vocabCmd, validateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
