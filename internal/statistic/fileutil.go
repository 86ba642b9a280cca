package statistic

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// writeFileAtomic replaces path with data via tmp file + rename so a
// crash mid-write never leaves a truncated snapshot behind.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	tmpFile := path + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, path)
}

func intAfterLastColon(line string) (int, bool) {
	idx := strings.LastIndex(line, ":")
	if idx < 0 {
		return 0, false
	}
	n, err := cast.ToIntE(strings.TrimSpace(line[idx+1:]))
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseChannelRow(line string) (int64, int, bool) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	id, err := cast.ToInt64E(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	count, err := cast.ToIntE(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return id, count, true
}

func sortInt64s(v []int64) {
	sort.Slice(v, func(i, j int) bool { return v[i] < v[j] })
}
