package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"peminatan/internal/application/orchestrators"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a student roster from a CSV, XLSX or XLS file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	input := orchestrators.ImportStudentsInput{
		Filename: filepath.Base(args[0]),
		Data:     data,
	}
	deps := orchestrators.ImportStudentsDeps{Enrollment: a.stores.EnrollmentStore}
	report, err := orchestrators.ExecuteImportStudents(cmd.Context(), input, deps)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "imported: %d, failed: %d, skipped: %d\n", report.Success, report.Errors, report.Skipped)
	for _, re := range report.RowErrors {
		fmt.Fprintf(out, "  row %d: %s\n", re.Row, re.Message)
	}
	return nil
}
