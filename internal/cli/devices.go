package cli

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/adbg/internal/adb"
	"github.com/vburojevic/adbg/internal/config"
	"github.com/vburojevic/adbg/internal/output"
)

// DevicesCmd lists the devices the control executable can see.
type DevicesCmd struct{}

// Run executes the devices command
func (c *DevicesCmd) Run(globals *Globals) error {
	adbPath, err := config.ResolveADB(globals.Adb)
	if err != nil {
		return outputErrorCommon(globals, "ENV_ADB", err.Error())
	}

	runner := &adb.Runner{Path: adbPath}
	devices, err := runner.Devices(context.Background())
	if err != nil {
		return outputErrorCommon(globals, "NO_DEVICE", err.Error())
	}

	if globals.Format == "ndjson" {
		w := output.NewNDJSONWriter(globals.Stdout)
		for i := range devices {
			if err := w.WriteDevice(&devices[i]); err != nil {
				return err
			}
		}
		return nil
	}

	if len(devices) == 0 {
		fmt.Fprintln(globals.Stdout, "No devices found.")
		return nil
	}
	table := tablewriter.NewWriter(globals.Stdout)
	table.Header("SERIAL", "STATE")
	for _, d := range devices {
		table.Append([]string{d.Serial, d.State})
	}
	return table.Render()
}
