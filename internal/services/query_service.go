package services

import (
	"errors"
	"io/fs"
	"scd/internal/models"
	"scd/internal/providers"
	"sort"
)

// ErrNoData marks a day without any persisted records.
var ErrNoData = errors.New("no records for requested day")

type QueryServiceInterface interface {
	// DailyReport returns the verbatim summary text persisted for a day.
	DailyReport(date string) (string, error)
	// GroupTable returns the per-channel counts of a day, sorted by
	// count descending.
	GroupTable(date string) ([]models.ChannelCount, error)
	// GroupCount returns a single channel's count for a day.
	GroupCount(date string, id int64) (int, error)
}

type QueryService struct {
	store  CounterStoreInterface
	logger providers.Logger
}

func NewQueryService(store CounterStoreInterface, logger providers.Logger) QueryServiceInterface {
	return &QueryService{store: store, logger: logger}
}

func (q *QueryService) DailyReport(date string) (string, error) {
	text, err := q.store.ReadSummaryText(date)
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNoData
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func (q *QueryService) GroupTable(date string) ([]models.ChannelCount, error) {
	byChannel, err := q.store.LoadChannelTable(date)
	if err != nil {
		return nil, err
	}
	if len(byChannel) == 0 {
		return nil, ErrNoData
	}

	rows := make([]models.ChannelCount, 0, len(byChannel))
	for id, count := range byChannel {
		rows = append(rows, models.ChannelCount{ID: id, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].ID < rows[j].ID
	})
	return rows, nil
}

func (q *QueryService) GroupCount(date string, id int64) (int, error) {
	rows, err := q.GroupTable(date)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		if row.ID == id {
			return row.Count, nil
		}
	}
	return 0, ErrNoData
}
