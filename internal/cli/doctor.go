package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/adbg/internal/config"
	"github.com/vburojevic/adbg/internal/domain"
	"github.com/vburojevic/adbg/internal/output"
)

// DoctorCmd checks the environment a debug session depends on.
type DoctorCmd struct{}

// Run executes the doctor command
func (c *DoctorCmd) Run(globals *Globals) error {
	report := &domain.DoctorReport{
		Type:          "doctor",
		SchemaVersion: domain.SchemaVersion,
	}

	report.Checks = append(report.Checks, checkNDKRoot())
	report.Checks = append(report.Checks, checkADB(globals.Adb))

	report.AllPassed = true
	for _, check := range report.Checks {
		if check.Status == "error" {
			report.ErrorCount++
			report.AllPassed = false
		}
	}

	if globals.Format == "ndjson" {
		if err := output.NewNDJSONWriter(globals.Stdout).WriteDoctor(report); err != nil {
			return err
		}
	} else {
		table := tablewriter.NewWriter(globals.Stdout)
		table.Header("CHECK", "STATUS", "MESSAGE")
		for _, check := range report.Checks {
			table.Append([]string{check.Name, check.Status, check.Message})
		}
		if err := table.Render(); err != nil {
			return err
		}
		if !report.AllPassed {
			fmt.Fprintln(globals.Stderr, "Some checks failed; fix them before attaching.")
		}
	}

	if !report.AllPassed {
		return errors.New("doctor found problems")
	}
	return nil
}

func checkNDKRoot() domain.DoctorCheck {
	check := domain.DoctorCheck{Name: "ndk_root"}
	root, err := config.NDKRoot()
	if err != nil {
		check.Status = "error"
		check.Message = err.Error()
		if strings.Contains(err.Error(), "not set") {
			check.Hint = "export " + config.NDKRootEnv
		} else {
			check.Hint = "move the NDK to a path without spaces"
		}
		return check
	}
	check.Status = "ok"
	check.Message = root
	return check
}

func checkADB(override string) domain.DoctorCheck {
	check := domain.DoctorCheck{Name: "adb"}
	path, err := config.ResolveADB(override)
	if err != nil {
		check.Status = "error"
		check.Message = err.Error()
		check.Hint = "install platform-tools or pass --adb"
		return check
	}
	if _, statErr := os.Stat(path); statErr != nil {
		check.Status = "error"
		check.Message = fmt.Sprintf("%s: %v", path, statErr)
		return check
	}
	check.Status = "ok"
	check.Message = path
	return check
}
