package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "prettynotes",
		Short:         "Turn documents into styled DOCX study outlines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(convertCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
