package domain

import (
	"bufio"
	"io"
	"strings"
)

// Field names in /proc/<pid>/status.
const (
	FieldResident = "VmRSS"
	FieldVirtual  = "VmSize"
)

// StatusRecord maps a status field name (colon stripped) to its first value token.
type StatusRecord map[string]string

// ParseStatus reads lines shaped like "VmRSS:   1530084 kB". Lines that do not
// carry a "Name:" key followed by a value are skipped. Later duplicates win.
func ParseStatus(r io.Reader) (StatusRecord, error) {
	rec := make(StatusRecord)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		key, ok := strings.CutSuffix(fields[0], ":")
		if !ok || key == "" {
			continue
		}
		rec[key] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Lookup returns the value for name and whether it is present and non-empty.
func (r StatusRecord) Lookup(name string) (string, bool) {
	v, ok := r[name]
	return v, ok && v != ""
}
