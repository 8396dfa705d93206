// Package manifest reads the fields adbg needs out of an application's
// AndroidManifest.xml. Missing files or elements yield absent values rather
// than errors; the caller decides which absences are fatal.
package manifest

import (
	"encoding/xml"
	"io"
	"os"
	"strings"
)

const (
	mainActionSuffix       = ".MAIN"
	launcherCategorySuffix = ".LAUNCHER"
)

// Descriptor is the parsed manifest, read-only after Parse.
type Descriptor struct {
	Package    string   // application identifier; empty when absent
	HasPackage bool     // whether the package attribute was present
	Debuggable bool     // android:debuggable="true" on <application>
	Launchable []string // launchable activity names, in document order
}

// Parse reads the manifest at path. A missing or malformed file yields an
// empty Descriptor, not an error.
func Parse(path string) *Descriptor {
	f, err := os.Open(path)
	if err != nil {
		return &Descriptor{}
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) *Descriptor {
	d := &Descriptor{}
	dec := xml.NewDecoder(r)

	// A single <intent-filter> must carry both the MAIN action and the
	// LAUNCHER category; the flags reset at every filter boundary so halves
	// spread across sibling filters never combine.
	var activityName string
	var inActivity, inFilter bool
	var filterMain, filterLauncher, launchable bool

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "manifest":
				if v, ok := attr(t, "package"); ok {
					d.Package = v
					d.HasPackage = true
				}
			case "application":
				if v, ok := attr(t, "debuggable"); ok && v == "true" {
					d.Debuggable = true
				}
			case "activity":
				inActivity = true
				launchable = false
				activityName, _ = attr(t, "name")
			case "intent-filter":
				if inActivity {
					inFilter = true
					filterMain = false
					filterLauncher = false
				}
			case "action":
				if inActivity && inFilter {
					if v, ok := attr(t, "name"); ok && strings.HasSuffix(v, mainActionSuffix) {
						filterMain = true
					}
				}
			case "category":
				if inActivity && inFilter {
					if v, ok := attr(t, "name"); ok && strings.HasSuffix(v, launcherCategorySuffix) {
						filterLauncher = true
					}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "intent-filter":
				if inFilter && filterMain && filterLauncher {
					launchable = true
				}
				inFilter = false
			case "activity":
				if inActivity && launchable && activityName != "" {
					d.Launchable = append(d.Launchable, normalizeName(activityName))
				}
				inActivity = false
			}
		}
	}
	return d
}

// attr finds an attribute by local name, ignoring any namespace prefix.
// Manifest attributes are usually android:-qualified and the prefix varies,
// so matching is done on the local name alone.
func attr(el xml.StartElement, local string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func normalizeName(name string) string {
	if !strings.HasPrefix(name, "/") {
		return "/" + name
	}
	return name
}

// Package returns the application identifier declared at path.
func Package(path string) (string, bool) {
	d := Parse(path)
	return d.Package, d.HasPackage
}

// Debuggable reports whether the manifest flags the application debuggable.
// Absent attributes read as false.
func Debuggable(path string) bool {
	return Parse(path).Debuggable
}

// Launchable returns the launchable activity names declared at path, each
// normalized to begin with a path separator.
func Launchable(path string) []string {
	return Parse(path).Launchable
}
