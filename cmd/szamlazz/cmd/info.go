package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/szamlazz-go/internal/attachment"
)

var checkSignatures bool

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about saved PDF documents",
	Long: `Inspect PDF documents returned by the agent without sending anything.

Shows:
  - File size
  - Page count
  - Whether the document passes PDF validation
  - Digital signatures of e-invoices (with --signatures, needs pdfsig)

Directories are searched for .pdf files.

Examples:
  szamlazz info invoice.pdf
  szamlazz info out/ -f table
  szamlazz info E-2024-7.pdf --signatures`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&checkSignatures, "signatures", false, "List digital signatures (requires poppler's pdfsig)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	var checker *attachment.SignatureChecker
	if checkSignatures {
		checker = attachment.NewSignatureChecker()
		if !checker.Available() {
			return attachment.ErrCheckerUnavailable
		}
	}

	infos := make([]FileInfoOutput, 0, len(files))
	for _, file := range files {
		printVerbose("Inspecting: %s\n", file)
		infos = append(infos, inspectFile(cmd.Context(), file, checker))
	}

	return outputFileInfo(cmd.OutOrStdout(), infos)
}

func inspectFile(ctx context.Context, file string, checker *attachment.SignatureChecker) FileInfoOutput {
	out := FileInfoOutput{File: file}
	data, err := os.ReadFile(file)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	info, err := attachment.Inspect(data)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Size = info.Size
	out.Pages = info.Pages
	out.Valid = info.Valid
	out.Problem = info.Problem

	if checker != nil {
		sigs, err := checker.Check(ctx, data)
		if err != nil {
			out.Error = err.Error()
			return out
		}
		out.Signatures = sigs
	}
	return out
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("file not found: %s", arg)
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if !info.IsDir() {
				files = append(files, match)
				continue
			}
			err = filepath.Walk(match, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isPDFFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return files, nil
}

func isPDFFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
