package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/lib/pq"

	"github.com/iWorld-y/travel_profiler/app/profiler/pkg/logger"
)

const uniqueViolation = "23505"

// CSVSource 一个 CSV 文件及其目标表
type CSVSource struct {
	File      string
	Table     string
	Delimiter rune
	// DropFirstColumn 丢弃第一列 (导出时带出的行号)
	DropFirstColumn bool
}

// DatasetFiles 按依赖顺序加载的数据集文件
var DatasetFiles = []CSVSource{
	{File: "region.csv", Table: "region", Delimiter: ','},
	{File: "travel_mode.csv", Table: "travel_mode", Delimiter: '|'},
	{File: "travel_motives.csv", Table: "travel_motives", Delimiter: ','},
	{File: "trips.csv", Table: "trips", Delimiter: ',', DropFirstColumn: true},
}

var periodPattern = regexp.MustCompile(`^(\d{4})JJ00$`)

// Table 解析后的 CSV 数据，nil 单元格表示 NULL
type Table struct {
	Columns []string
	Rows    [][]any
}

// ReadCSV 读取并清洗 CSV: "." 视为 NULL，"2018JJ00" 形式的周期转为年份
func ReadCSV(r io.Reader, src CSVSource) (*Table, error) {
	cr := csv.NewReader(r)
	if src.Delimiter != 0 {
		cr.Comma = src.Delimiter
	}
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	skip := 0
	if src.DropFirstColumn && len(header) > 0 {
		skip = 1
	}

	t := &Table{Columns: append([]string(nil), header[skip:]...)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		row := make([]any, len(t.Columns))
		for i := range t.Columns {
			if j := i + skip; j < len(rec) {
				row[i] = cleanCell(rec[j])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func cleanCell(v string) any {
	if v == "." {
		return nil
	}
	if m := periodPattern.FindStringSubmatch(v); m != nil {
		return m[1]
	}
	return v
}

// Project 只保留目标表中存在的列
func (t *Table) Project(keep map[string]bool) *Table {
	var idx []int
	out := &Table{}
	for i, c := range t.Columns {
		if keep[c] {
			idx = append(idx, i)
			out.Columns = append(out.Columns, c)
		}
	}
	out.Rows = make([][]any, len(t.Rows))
	for r, row := range t.Rows {
		projected := make([]any, len(idx))
		for k, i := range idx {
			projected[k] = row[i]
		}
		out.Rows[r] = projected
	}
	return out
}

// LoadDataset 依次加载 folder 下的数据集文件，单个文件失败不影响其余文件
func (s *Storage) LoadDataset(ctx context.Context, folder string) error {
	var errs []error
	for _, src := range DatasetFiles {
		path := filepath.Join(folder, src.File)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			logger.Log.Warnf("File %s not found, skipping...", path)
			continue
		}

		logger.Log.Infof("Loading %s into table %s...", src.File, src.Table)
		n, err := s.loadFile(ctx, path, src)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				logger.Log.Infof("Table %s already contains data, skipping...", src.Table)
				continue
			}
			logger.Log.Errorf("Error loading %s: %v", src.File, err)
			errs = append(errs, fmt.Errorf("%s: %w", src.File, err))
			continue
		}
		logger.Log.Infof("Successfully loaded %d rows into %s", n, src.Table)
	}
	logger.Log.Info("CSV loading completed")
	return errors.Join(errs...)
}

func (s *Storage) loadFile(ctx context.Context, path string, src CSVSource) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	t, err := ReadCSV(f, src)
	if err != nil {
		return 0, err
	}
	cols, err := s.tableColumns(ctx, src.Table)
	if err != nil {
		return 0, err
	}
	t = t.Project(cols)
	if len(t.Columns) == 0 {
		return 0, fmt.Errorf("no CSV column matches table %s", src.Table)
	}
	return len(t.Rows), s.copyRows(ctx, src.Table, t)
}

// copyRows 通过 COPY 批量写入
func (s *Storage) copyRows(ctx context.Context, table string, t *Table) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, t.Columns...))
	if err != nil {
		return err
	}
	for _, row := range t.Rows {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			stmt.Close()
			return err
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return err
	}
	if err = stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}
