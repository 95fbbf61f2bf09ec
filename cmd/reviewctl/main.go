// reviewctl is a terminal client for the reviewer API.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/code-reviewer/internal/client"
	domain "github.com/bryanwahyu/code-reviewer/internal/domain/review"
)

var serverURL string

func main() {
	root := &cobra.Command{
		Use:           "reviewctl",
		Short:         "Submit code for AI review and browse past analyses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "reviewer API base URL")

	root.AddCommand(newAnalyzeCmd(), newHistoryCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze a snippet from a file, or stdin when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readCode(args)
			if err != nil {
				return err
			}

			c := client.New(serverURL)
			a, err := c.Analyze(cmd.Context(), code, language)
			if err != nil {
				return err
			}

			printAnalysis(a)
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "language of the snippet (e.g. go, python)")
	_ = cmd.MarkFlagRequired("language")

	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(serverURL)
			list, err := c.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("No analyses yet.")
				return nil
			}
			return printHistory(list)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum records to fetch (0 = all)")

	return cmd
}

func readCode(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no code given: pass a file or pipe it on stdin")
	}
	return string(data), nil
}

func printAnalysis(a *domain.Analysis) {
	heading := color.New(color.FgCyan, color.Bold)
	none := color.New(color.FgHiBlack)

	heading.Printf("Explanation (#%d)\n", a.ID)
	fmt.Println(a.Explanation)

	heading.Println("\nSuggestions")
	if len(a.Suggestions) == 0 {
		none.Println("none found")
	}
	for _, s := range a.Suggestions {
		color.Yellow("  - %s", s)
	}

	heading.Println("\nPotential bugs")
	if len(a.Bugs) == 0 {
		none.Println("none found")
	}
	for _, b := range a.Bugs {
		color.Red("  - %s", b)
	}
}

func printHistory(list []*domain.Analysis) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"ID", "Language", "Created", "Explanation"})

	for _, a := range list {
		row := []string{
			strconv.FormatInt(int64(a.ID), 10),
			a.Language,
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			truncate(a.Explanation, 72),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}

	return table.Render()
}

// truncate shortens to max runes; slicing bytes could split a multibyte rune.
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
