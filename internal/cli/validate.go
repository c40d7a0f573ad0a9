package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pedalboard/internal/setlist"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                      `json:"valid"`
	Banks       int                       `json:"banks"`
	Pedalboards int                       `json:"pedalboards"`
	Errors      []setlist.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <setlist-dir>",
		Short: "Validate a CUE setlist",
		Long: `Load the CUE setlist in a directory and check it.

Checks that the files compile against the setlist schema, that every
bank and pedalboard has a name, and that names are unique (banks across
the setlist, pedalboards within their bank).

Exit codes:
  0 - Setlist is valid
  1 - Validation errors
  2 - Command error (directory missing, no CUE files, CUE does not compile)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Loading setlist from %s", dir)
	specs, err := setlist.LoadDir(dir)

	var verrs setlist.ValidationErrors
	var loadErr *setlist.LoadError
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		return outputValidationErrors(formatter, verrs)
	case errors.As(err, &loadErr):
		_ = formatter.Error(loadErr.Code, loadErr.Error(), nil)
		return NewExitError(ExitCommandError, loadErr.Error())
	default:
		_ = formatter.Error(setlist.ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load setlist", err)
	}

	result := ValidationResult{
		Valid:       true,
		Banks:       len(specs),
		Pedalboards: setlist.PedalboardCount(specs),
	}
	opts.logger().Debug("setlist validated", "dir", dir, "banks", result.Banks, "pedalboards", result.Pedalboards)

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Setlist valid: %d bank(s), %d pedalboard(s)\n", result.Banks, result.Pedalboards)
	for _, spec := range specs {
		formatter.VerboseLog("  %s (%d)", spec.Name, len(spec.Pedalboards))
	}
	return nil
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, errs setlist.ValidationErrors) error {
	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Errors: errs}
		if err := formatter.Failure(result, errs[0].Code, errs[0].Message); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
