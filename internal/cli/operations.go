package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hamzaessahbaoui/coderunner-toolkit/pkg/tools/coderunner"
)

func readCmd(flags *globalFlags) *cobra.Command {
	return simpleCmd(flags, coderunner.OperationRead, "Fetch a file's content")
}

func executeCmd(flags *globalFlags) *cobra.Command {
	return simpleCmd(flags, coderunner.OperationExecute, "Run a file on the backend")
}

func deleteCmd(flags *globalFlags) *cobra.Command {
	return simpleCmd(flags, coderunner.OperationDelete, "Remove a file")
}

func simpleCmd(flags *globalFlags, op coderunner.Operation, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(op) + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, flags, coderunner.OperationRequest{
				Operation: op,
				Filename:  args[0],
			})
		},
	}
}

func createCmd(flags *globalFlags) *cobra.Command {
	var code, codeFile string

	c := &cobra.Command{
		Use:   "create FILE",
		Short: "Create a file with the given code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if codeFile != "" {
				data, err := readCodeFile(cmd, codeFile)
				if err != nil {
					return err
				}
				code = data
			}
			return runOperation(cmd, flags, coderunner.OperationRequest{
				Operation: coderunner.OperationCreate,
				Filename:  args[0],
				Code:      code,
			})
		},
	}
	c.Flags().StringVar(&code, "code", "", "code content")
	c.Flags().StringVar(&codeFile, "code-file", "", "read code content from a local file, - for stdin")
	c.MarkFlagsMutuallyExclusive("code", "code-file")
	return c
}

func updateCmd(flags *globalFlags) *cobra.Command {
	var message string

	c := &cobra.Command{
		Use:   "update FILE",
		Short: "Edit a file with a find/replace instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, flags, coderunner.OperationRequest{
				Operation:          coderunner.OperationUpdate,
				Filename:           args[0],
				FindReplaceMessage: message,
			})
		},
	}
	c.Flags().StringVarP(&message, "message", "m", "", "find/replace instruction, e.g. s/Hello/Hi/g")
	return c
}

func readCodeFile(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read code from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read code file: %w", err)
	}
	return string(data), nil
}

func printResult(w io.Writer, res coderunner.OperationResult) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
