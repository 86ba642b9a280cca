package statistic

import (
	"os"
	"path/filepath"
	"scd/internal/models"
	"scd/internal/providers"
	"scd/internal/statistic/interfaces"
	"scd/internal/structures"
	"strings"
	"time"
)

// Archiver compresses the files of day directories older than the
// retention window in place. Archived days keep their directory; each
// file is replaced by a <name>.zst sibling. The query surface is not
// required to read archived days back.
type Archiver struct {
	dir        string
	retention  time.Duration
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	now        func() time.Time
}

func NewArchiver(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) interfaces.ArchiverInterface {
	return &Archiver{
		dir:        conf.Statistic.Dir,
		retention:  time.Duration(conf.Statistic.RetentionDays) * 24 * time.Hour,
		compressor: compressor,
		logger:     logger,
		now:        time.Now,
	}
}

func (a *Archiver) Sweep() error {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := a.now().UTC().Add(-a.retention)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		day, err := time.Parse(models.DateLayout, entry.Name())
		if err != nil {
			continue
		}
		if day.Before(cutoff) {
			a.archiveDay(filepath.Join(a.dir, entry.Name()))
		}
	}
	return nil
}

func (a *Archiver) archiveDay(dir string) {
	files, err := os.ReadDir(dir)
	if err != nil {
		a.logger.Warnf(providers.TypeStats, "archive: cannot read %s: %s", dir, err)
		return
	}

	archived := 0
	for _, f := range files {
		if f.IsDir() || strings.HasSuffix(f.Name(), ".zst") {
			continue
		}
		path := filepath.Join(dir, f.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			a.logger.Warnf(providers.TypeStats, "archive: cannot read %s: %s", path, err)
			continue
		}
		packed, err := a.compressor.Compress(data)
		if err != nil {
			a.logger.Warnf(providers.TypeStats, "archive: compress %s: %s", path, err)
			continue
		}
		if err := writeFileAtomic(path+".zst", packed, 0o644); err != nil {
			a.logger.Warnf(providers.TypeStats, "archive: write %s.zst: %s", path, err)
			continue
		}
		if err := os.Remove(path); err != nil {
			a.logger.Warnf(providers.TypeStats, "archive: remove %s: %s", path, err)
			continue
		}
		archived++
	}
	if archived > 0 {
		a.logger.Infof(providers.TypeStats, "archived %d files in %s", archived, dir)
	}
}
