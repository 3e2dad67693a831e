package resulttable

import (
	"encoding/csv"
	stderrs "errors"
	"os"
	"path/filepath"
	"slices"

	perr "combatscore/internal/platform/errors"
)

// Write sorts rows and atomically replaces the table at path
// Parent directories are created; an interrupted write leaves the previous table intact
func Write(path, checksum string, rows []Row) (err error) {
	sorted := slices.Clone(rows)
	Sort(sorted)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "create results dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.part")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "create temp for %s", path)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{HeaderKey, checksum}); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "write header %s", path)
	}
	rec := make([]string, 2)
	for _, r := range sorted {
		rec[0], rec[1] = r.UnitID, FormatScore(r.Score)
		if err := w.Write(rec); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeIO, "write row %s", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "flush %s", path)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "chmod %s", tmp.Name())
	}
	if err := stderrs.Join(tmp.Sync(), tmp.Close()); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "sync %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeIO, "replace %s", path)
	}
	return nil
}
