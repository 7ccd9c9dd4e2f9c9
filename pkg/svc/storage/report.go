package storage

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// lvmReport is the `--reportformat json` envelope shared by pvs and lvs.
type lvmReport struct {
	Report []struct {
		PV []physicalVolume `json:"pv"`
		LV []logicalVolume  `json:"lv"`
	} `json:"report"`
}

type physicalVolume struct {
	Name        string `json:"pv_name"`
	VolumeGroup string `json:"vg_name"`
}

type logicalVolume struct {
	Name        string `json:"lv_name"`
	VolumeGroup string `json:"vg_name"`
}

type loopReport struct {
	Devices []struct {
		Name     string `json:"name"`
		BackFile string `json:"back-file"`
	} `json:"loopdevices"`
}

// FindPhysicalVolume returns the device backing vg in a `pvs --reportformat json` document.
func FindPhysicalVolume(data []byte, vg string) (string, bool, error) {
	if isBlank(data) {
		return "", false, nil
	}

	var report lvmReport

	err := json.Unmarshal(data, &report)
	if err != nil {
		return "", false, fmt.Errorf("failed to parse pvs report: %w", err)
	}

	for _, section := range report.Report {
		for _, pv := range section.PV {
			if pv.VolumeGroup == vg {
				return pv.Name, true, nil
			}
		}
	}

	return "", false, nil
}

// ParseLogicalVolumes returns the logical volumes of vg in a `lvs --reportformat json`
// document, ordered by their numeric suffix (lv0, lv1, ..., lv10).
func ParseLogicalVolumes(data []byte, vg string) ([]string, error) {
	if isBlank(data) {
		return nil, nil
	}

	var report lvmReport

	err := json.Unmarshal(data, &report)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lvs report: %w", err)
	}

	var names []string

	for _, section := range report.Report {
		for _, lv := range section.LV {
			if lv.VolumeGroup == vg {
				names = append(names, lv.Name)
			}
		}
	}

	slices.SortStableFunc(names, compareVolumeNames)

	return names, nil
}

// loopAttached reports whether device appears in a `losetup -l -J` document.
// losetup prints nothing at all when no device is attached.
func loopAttached(data []byte, device string) (bool, error) {
	if isBlank(data) {
		return false, nil
	}

	var report loopReport

	err := json.Unmarshal(data, &report)
	if err != nil {
		return false, fmt.Errorf("failed to parse losetup output: %w", err)
	}

	for _, dev := range report.Devices {
		if dev.Name == device {
			return true, nil
		}
	}

	return false, nil
}

func compareVolumeNames(a, b string) int {
	na, okA := volumeIndex(a)
	nb, okB := volumeIndex(b)

	if okA && okB && na != nb {
		return na - nb
	}

	return strings.Compare(a, b)
}

func volumeIndex(name string) (int, bool) {
	digits := strings.TrimLeftFunc(name, func(r rune) bool { return r < '0' || r > '9' })

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}

	return n, true
}

// loopMinor returns N for /dev/loopN.
func loopMinor(device string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(device, "/dev/loop"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnexpectedLoopDevice, device)
	}

	return n, nil
}

func isBlank(data []byte) bool {
	return len(strings.TrimSpace(string(data))) == 0
}
