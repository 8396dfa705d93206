package device

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/vburojevic/adbg/internal/adb"
)

// MinAPILevel is the oldest Android release the debug stub supports.
const MinAPILevel = 8

const (
	propAPILevel    = "ro.build.version.sdk"
	propPrimaryABI  = "ro.product.cpu.abi"
	propFallbackABI = "ro.product.cpu.abi2"
)

// Negotiator answers compatibility questions about the selected device.
type Negotiator struct {
	Runner *adb.Runner
}

// CheckReachable verifies a device answers under the current selector.
func (n *Negotiator) CheckReachable(ctx context.Context) error {
	res, err := n.Runner.Run(ctx, []string{"shell", "echo", "ok"}, true)
	if err != nil {
		return err
	}
	if res.Code != 0 {
		return fmt.Errorf("no device or emulator reachable as %s", n.Runner.Selector.Description())
	}
	return nil
}

// APILevel reads the device's Android API level.
func (n *Negotiator) APILevel(ctx context.Context) (int, error) {
	res, err := n.Runner.Shell(ctx, "getprop", propAPILevel)
	if err != nil {
		return 0, err
	}
	level, convErr := strconv.Atoi(strings.TrimSpace(res.Output))
	if res.Code != 0 || convErr != nil {
		return 0, fmt.Errorf("device did not report its API level (%s)", propAPILevel)
	}
	return level, nil
}

// ABIs returns the instruction sets the device supports, primary first.
// Both ABI properties are read because either may itself hold a
// comma-separated list.
func (n *Negotiator) ABIs(ctx context.Context) ([]string, error) {
	var abis []string
	for _, prop := range []string{propPrimaryABI, propFallbackABI} {
		res, err := n.Runner.Shell(ctx, "getprop", prop)
		if err != nil {
			return nil, err
		}
		for _, abi := range strings.Split(res.Output, ",") {
			if abi = strings.TrimSpace(abi); abi != "" {
				abis = append(abis, abi)
			}
		}
	}
	if len(abis) == 0 {
		return nil, fmt.Errorf("device did not report any supported ABI")
	}
	return abis, nil
}

// NegotiateABI picks the first device ABI that the application also targets.
func NegotiateABI(deviceABIs, appABIs []string) (string, error) {
	for _, abi := range deviceABIs {
		if lo.Contains(appABIs, abi) {
			return abi, nil
		}
	}
	return "", fmt.Errorf("device ABIs %v are incompatible with application ABIs %v",
		deviceABIs, appABIs)
}
