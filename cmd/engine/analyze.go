package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"resumematch-engine/internal/ats"
	"resumematch-engine/internal/docparse"
	"resumematch-engine/internal/match"
)

func newAnalyzeCmd() *cobra.Command {
	var resumePath, jobPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a resume against a job description",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resume, err := readDocument(resumePath)
			if err != nil {
				return fmt.Errorf("resume: %w", err)
			}
			job, err := readDocument(jobPath)
			if err != nil {
				return fmt.Errorf("job description: %w", err)
			}

			res := match.Analyze(resume, job)
			if asJSON {
				return writeIndented(cmd.OutOrStdout(), res)
			}
			printMatch(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&resumePath, "resume", "", "resume file (.txt, .pdf or .docx)")
	cmd.Flags().StringVar(&jobPath, "job", "", "job description file (.txt, .pdf or .docx)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}

func newATSCmd() *cobra.Command {
	var path string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ats",
		Short: "Show how an applicant tracking system might read a resume",
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := readDocument(path)
			if err != nil {
				return err
			}
			res := ats.Simulate(text)
			if asJSON {
				return writeIndented(cmd.OutOrStdout(), res)
			}
			printATS(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "resume file (.txt, .pdf or .docx)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readDocument extracts text from path; files without a known extension are
// read as plain text.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, err := docparse.Extract(path, data)
	if err != nil && errors.Is(err, docparse.ErrUnsupportedFormat) {
		return string(data), nil
	}
	return text, err
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMatch(w io.Writer, res match.Result) {
	fmt.Fprintf(w, "Match score: %d%%\n", res.Score)
	fmt.Fprintf(w, "Matched (%d): %s\n", len(res.Matched), strings.Join(res.Matched, ", "))
	fmt.Fprintf(w, "Missing (%d): %s\n", len(res.Missing), strings.Join(res.Missing, ", "))
	for _, f := range res.Findings {
		mark := "+"
		if f.Kind == match.Negative {
			mark = "-"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, f.Text)
	}
	if len(res.Suggestions) > 0 {
		fmt.Fprintln(w, "Suggestions:")
		for _, s := range res.Suggestions {
			fmt.Fprintf(w, "  * %s\n", s)
		}
	}
}

func printATS(w io.Writer, res ats.Result) {
	fmt.Fprintf(w, "Overall: %d  structure: %d  readability: %d\n",
		res.OverallScore, res.StructureScore, res.ReadabilityScore)
	for _, s := range res.Sections {
		fmt.Fprintf(w, "  [%s] confidence %d%%\n", s.Title, s.Confidence)
		for _, is := range s.Issues {
			fmt.Fprintf(w, "    - %s\n", is)
		}
	}
	for _, is := range res.FormatIssues {
		fmt.Fprintf(w, "Format: %s\n", is)
	}
	for _, r := range res.Recommendations {
		fmt.Fprintf(w, "  * %s\n", r)
	}
}
