// backend/src/parsers/gmoclick/parser.go
package gmoclick

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/username/tradeinsight/backend/src/models"
)

// Column indices of the GMO Click trade-history export. The file carries
// dozens of columns; only these participate in the analysis, the rest are
// broker-specific bookkeeping that stays untouched.
const (
	colExecutedAt = 0  // 約定日時
	colTradeKind  = 1  // 取引区分
	colSymbol     = 4  // 銘柄名
	colSide       = 11 // 売買区分
	colQuantity   = 17 // 約定数量
	colPrice      = 18 // 約定単価
	colOpenPrice  = 22 // 建単価
	colProfitJPY  = 48 // 実現損益（円貨）

	minColumns = colProfitJPY + 1
)

// Executions stamped before 07:00 settle on the previous trading day.
const tradingDayStartHour = 7

// The export writes 約定日時 as "2006/01/02 15:04:05"; seconds-less and
// dash-separated variants show up in older downloads.
var timestampLayouts = []string{
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// GMOClickParser implements the parsers.Parser interface for GMO Click
// Securities trade-history CSV files (Shift_JIS encoded).
type GMOClickParser struct{}

// NewParser creates a new instance of the GMOClickParser.
func NewParser() *GMOClickParser {
	return &GMOClickParser{}
}

// Parse decodes a GMO Click export and converts its rows into normalized
// executions. Unparsable timestamps and structurally short rows abort the
// whole run; blank numeric fields coerce to zero because the export leaves
// columns empty depending on the row kind.
func (p *GMOClickParser) Parse(file io.Reader) ([]models.Execution, error) {
	decoded := transform.NewReader(file, japanese.ShiftJIS.NewDecoder())

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("gmoclick parser: failed to read CSV header: %w", err)
	}
	if len(header) < minColumns {
		return nil, fmt.Errorf("gmoclick parser: header has %d columns, expected at least %d", len(header), minColumns)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("gmoclick parser: failed to read CSV records: %w", err)
	}

	var executions []models.Execution
	for i, record := range records {
		if isBlankRecord(record) {
			continue
		}
		if len(record) < minColumns {
			return nil, fmt.Errorf("gmoclick parser: row %d has %d columns, expected at least %d", i+2, len(record), minColumns)
		}

		executedAt, err := parseTimestamp(record[colExecutedAt])
		if err != nil {
			return nil, fmt.Errorf("gmoclick parser: row %d has invalid 約定日時 %q: %w", i+2, record[colExecutedAt], err)
		}

		adjusted := adjustedDate(executedAt)
		executions = append(executions, models.Execution{
			Symbol:     strings.TrimSpace(record[colSymbol]),
			Kind:       classifyTradeKind(record[colTradeKind]),
			ExecutedAt: executedAt,
			Side:       classifySide(record[colSide]),
			Quantity:   coerceNumber(record[colQuantity]),
			Price:      coerceNumber(record[colPrice]),
			OpenPrice:  coerceNumber(record[colOpenPrice]),
			Profit:     coerceNumber(record[colProfitJPY]),
			TradeDate:  adjusted.Format("2006-01-02"),
			TradeMonth: adjusted.Format("2006-01"),
		})
	}
	return executions, nil
}

// classifyTradeKind maps the 取引区分 tag to an execution kind. The export has
// no other classification source: 新規 marks a new position, 決済 and
// ロスカット mark closes (including forced stop-outs), スワップ marks swap
// accruals.
func classifyTradeKind(tag string) models.ExecutionKind {
	switch {
	case strings.Contains(tag, "新規"):
		return models.KindOpen
	case strings.Contains(tag, "決済"), strings.Contains(tag, "ロスカット"):
		return models.KindClose
	case strings.Contains(tag, "スワップ"):
		return models.KindSwap
	default:
		return models.KindOther
	}
}

func classifySide(s string) models.Side {
	if strings.Contains(s, "売") {
		return models.SideSell
	}
	return models.SideBuy
}

func parseTimestamp(s string) (time.Time, error) {
	cleaned := strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}

// adjustedDate applies the broker's trading-day boundary: executions before
// 07:00 belong to the previous calendar day.
func adjustedDate(t time.Time) time.Time {
	if t.Hour() < tradingDayStartHour {
		return t.AddDate(0, 0, -1)
	}
	return t
}

// coerceNumber parses a numeric field, tolerating thousands separators and
// surrounding quotes. Anything unparsable becomes zero; the export leaves
// irrelevant columns blank for many row kinds, so this is never fatal.
func coerceNumber(s string) float64 {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Trim(cleaned, "\"")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
