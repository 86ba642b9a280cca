package statistic

import (
	"fmt"
	"os"
	"path/filepath"
	"scd/internal/models"
	"scd/internal/providers"
	"scd/internal/services"
	"scd/internal/structures"
	"strings"
	"sync"
	"time"
)

// Fixed labels of the summary file. Loaders match them by substring and
// parse the integer after the last colon, so the file stays editable by
// hand without breaking recovery.
const (
	summaryFileName = "stats.log"
	channelFileName = "group_stats.csv"
	channelHeader   = "id,count"

	labelDate    = "date (UTC)"
	labelGroup   = "group sends"
	labelPrivate = "private sends"
)

// CounterStore persists one day's counters under <dir>/<YYYY-MM-DD>.
// It holds no counter state of its own: every write is a full snapshot
// of the caller's authoritative in-memory counters, so last-writer-wins
// overwrites are safe. Writes to the same day directory are serialized.
type CounterStore struct {
	mu     sync.Mutex
	dir    string
	logger providers.Logger
}

func NewCounterStore(conf *structures.Config, logger providers.Logger) services.CounterStoreInterface {
	return &CounterStore{
		dir:    conf.Statistic.Dir,
		logger: logger,
	}
}

func (cs *CounterStore) dayDir(date string) (string, error) {
	dir := filepath.Join(cs.dir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create day directory %s: %w", dir, err)
	}
	return dir, nil
}

func (cs *CounterStore) PersistSummary(date string, group, private int) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	dir, err := cs.dayDir(date)
	if err != nil {
		return err
	}

	content := fmt.Sprintf("%s: %s\n%s: %d\n%s: %d\n",
		labelDate, date, labelGroup, group, labelPrivate, private)
	return writeFileAtomic(filepath.Join(dir, summaryFileName), []byte(content), 0o644)
}

func (cs *CounterStore) PersistChannelTable(date string, byChannel map[int64]int) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	dir, err := cs.dayDir(date)
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(byChannel))
	for id := range byChannel {
		ids = append(ids, id)
	}
	sortInt64s(ids)

	var b strings.Builder
	b.WriteString(channelHeader + "\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "%d,%d\n", id, byChannel[id])
	}
	return writeFileAtomic(filepath.Join(dir, channelFileName), []byte(b.String()), 0o644)
}

// LoadSummary recovers the day's group/private totals. A missing file
// yields zeros; unparseable lines are skipped with a warning. Recovery
// is best effort by contract.
func (cs *CounterStore) LoadSummary(date string) (int, int, error) {
	data, err := os.ReadFile(filepath.Join(cs.dir, date, summaryFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	group, private := 0, 0
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.Contains(line, labelGroup):
			if n, ok := intAfterLastColon(line); ok {
				group = n
			} else {
				cs.logger.Warnf(providers.TypeStats, "unparseable summary line for %s: %q", date, line)
			}
		case strings.Contains(line, labelPrivate):
			if n, ok := intAfterLastColon(line); ok {
				private = n
			} else {
				cs.logger.Warnf(providers.TypeStats, "unparseable summary line for %s: %q", date, line)
			}
		}
	}
	return group, private, nil
}

// LoadChannelTable recovers the day's per-channel counts. Missing file
// yields an empty map; malformed rows are skipped with a warning.
func (cs *CounterStore) LoadChannelTable(date string) (map[int64]int, error) {
	data, err := os.ReadFile(filepath.Join(cs.dir, date, channelFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return map[int64]int{}, nil
		}
		return nil, err
	}

	byChannel := make(map[int64]int)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if i == 0 || line == "" {
			continue
		}
		id, count, ok := parseChannelRow(line)
		if !ok {
			cs.logger.Warnf(providers.TypeStats, "unparseable channel row for %s: %q", date, line)
			continue
		}
		byChannel[id] = count
	}
	return byChannel, nil
}

func (cs *CounterStore) AppendDetail(date string, category models.Category, ts time.Time, target int64, rendered string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	dir, err := cs.dayDir(date)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, string(category)+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	line := fmt.Sprintf("%s | %d | %s\n", ts.UTC().Format("15:04:05"), target, rendered)
	_, err = file.WriteString(line)
	return err
}

// ReadSummaryText returns the raw summary file for the stats query
// surface. The caller distinguishes fs.ErrNotExist from real failures.
func (cs *CounterStore) ReadSummaryText(date string) (string, error) {
	data, err := os.ReadFile(filepath.Join(cs.dir, date, summaryFileName))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
