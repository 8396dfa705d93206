package cli

import (
	"encoding/json"
	"strings"
)

// SchemaCmd outputs JSON Schema for adbg output types
type SchemaCmd struct {
	Type []string `short:"t" help:"Output types to include (step,ready,error,device,doctor). Default: all"`
}

// Run executes the schema command
func (c *SchemaCmd) Run(globals *Globals) error {
	schemas := map[string]interface{}{
		"step":   stepSchema(),
		"ready":  readySchema(),
		"error":  errorSchema(),
		"device": deviceSchema(),
		"doctor": doctorSchema(),
	}

	typesToOutput := c.Type
	if len(typesToOutput) == 0 {
		typesToOutput = []string{"step", "ready", "error", "device", "doctor"}
	}

	out := map[string]interface{}{
		"$schema":     "http://json-schema.org/draft-07/schema#",
		"title":       "adbg Output Schemas",
		"description": "JSON Schema definitions for all adbg NDJSON output types",
		"definitions": map[string]interface{}{},
	}

	defs := out["definitions"].(map[string]interface{})
	for _, t := range typesToOutput {
		t = strings.ToLower(strings.TrimSpace(t))
		if schema, ok := schemas[t]; ok {
			defs[t] = schema
		}
	}

	encoder := json.NewEncoder(globals.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func stepSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Attach Step",
		"description": "A state-machine transition during session establishment",
		"properties": map[string]interface{}{
			"type": map[string]interface{}{
				"type":  "string",
				"const": "step",
			},
			"state": map[string]interface{}{
				"type": "string",
				"enum": []string{
					"ManifestValidated", "AbiResolved", "DebuggabilityVerified",
					"StubAvailableOnDevice", "TargetProcessFound", "StaleStubCleared",
					"StubLaunched", "TunnelEstablished", "ArtifactsRetrieved", "SessionReady",
				},
				"description": "State reached by this transition",
			},
			"detail": map[string]interface{}{
				"type":        "string",
				"description": "State-specific detail (package, ABI, pid...)",
			},
			"elapsed_ms": map[string]interface{}{
				"type":        "integer",
				"description": "Milliseconds spent reaching this state",
			},
			"timestamp": map[string]interface{}{
				"type":   "string",
				"format": "date-time",
			},
		},
		"required": []string{"type", "state", "elapsed_ms"},
	}
}

func readySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Session Ready",
		"description": "Emitted once when the debug session is established",
		"properties": map[string]interface{}{
			"type": map[string]interface{}{
				"type":  "string",
				"const": "ready",
			},
			"package": map[string]interface{}{
				"type":        "string",
				"description": "Application identifier",
			},
			"abi": map[string]interface{}{
				"type":        "string",
				"description": "Negotiated ABI",
			},
			"pid": map[string]interface{}{
				"type":        "integer",
				"description": "Target process id on the device",
			},
			"port": map[string]interface{}{
				"type":        "integer",
				"description": "Local TCP port forwarded to the debug stub",
			},
			"data_dir": map[string]interface{}{
				"type":        "string",
				"description": "Application data directory on the device",
			},
			"out_dir": map[string]interface{}{
				"type":        "string",
				"description": "Local directory holding retrieved binaries",
			},
			"config_path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the generated debugger configuration",
			},
		},
		"required": []string{"type", "package", "abi", "pid", "port"},
	}
}

func errorSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Error",
		"description": "A fatal diagnostic",
		"properties": map[string]interface{}{
			"type": map[string]interface{}{
				"type":  "string",
				"const": "error",
			},
			"code": map[string]interface{}{
				"type":        "string",
				"description": "Stable error code",
			},
			"message": map[string]interface{}{
				"type":        "string",
				"description": "Human-readable description",
			},
			"hint": map[string]interface{}{
				"type":        "string",
				"description": "Remediation hint, when actionable",
			},
		},
		"required": []string{"type", "code", "message"},
	}
}

func deviceSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Device",
		"description": "A device or emulator visible to adb",
		"properties": map[string]interface{}{
			"type": map[string]interface{}{
				"type":  "string",
				"const": "device",
			},
			"serial": map[string]interface{}{
				"type":        "string",
				"description": "Device serial",
			},
			"state": map[string]interface{}{
				"type":        "string",
				"description": "Device state (device, offline, unauthorized)",
			},
		},
		"required": []string{"type", "serial", "state"},
	}
}

func doctorSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"title":       "Doctor Report",
		"description": "Environment check results",
		"properties": map[string]interface{}{
			"type": map[string]interface{}{
				"type":  "string",
				"const": "doctor",
			},
			"checks": map[string]interface{}{
				"type":        "array",
				"description": "Individual check results",
			},
			"all_passed": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether every check passed",
			},
			"error_count": map[string]interface{}{
				"type":        "integer",
				"description": "Number of failed checks",
			},
		},
		"required": []string{"type", "checks", "all_passed", "error_count"},
	}
}
