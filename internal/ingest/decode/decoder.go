package decode

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yungbote/lims-backend/internal/platform/logger"
)

// Row warnings past this count are summarized instead of logged one by one.
const maxLoggedRowErrors = 25

type Decoder struct {
	log *logger.Logger
}

func NewDecoder(log *logger.Logger) *Decoder {
	if log == nil {
		log = logger.Nop()
	}
	return &Decoder{log: log.With("component", "ImportDecoder")}
}

// DecodeSheet reads the first worksheet of the workbook at path. Row 1 is the header.
func (d *Decoder) DecodeSheet(ctx context.Context, kind Kind, path string) (Result, error) {
	res := Result{Kind: kind}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return res, &ValidationError{Message: "could not open spreadsheet", Err: err}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return res, &ValidationError{Message: "spreadsheet has no worksheets"}
	}
	// Raw values keep date cells as serial numbers instead of display text.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return res, &ValidationError{Message: "could not read worksheet " + strconv.Quote(sheets[0]), Err: err}
	}
	return d.decodeRows(ctx, kind, rows)
}

func (d *Decoder) decodeRows(ctx context.Context, kind Kind, rows [][]string) (Result, error) {
	res := Result{Kind: kind}
	if len(rows) == 0 {
		return res, res.emptyErr()
	}

	specs := fieldSpecs[kind]
	columns := make(map[int]Field, len(rows[0]))
	seen := make(map[Field]bool, len(rows[0]))
	for col, header := range rows[0] {
		f, ok := LookupField(kind, header)
		if !ok {
			if strings.TrimSpace(header) != "" {
				d.log.Debug("ignoring unknown column", "kind", kind, "header", header)
			}
			continue
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		columns[col] = f
	}

	for i, cells := range rows[1:] {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		if blankRow(cells) {
			continue
		}
		res.Total++
		values := make(map[Field]any, len(columns))
		for col, cell := range cells {
			f, ok := columns[col]
			if !ok {
				continue
			}
			if specs[f].typ == dateField {
				if serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
					values[f] = serial
					continue
				}
			}
			values[f] = cell
		}
		d.logRowError(kind, appendRow(&res, values, i+2), len(res.Errors))
	}
	d.summarize(res)
	return res, res.emptyErr()
}

// DecodeJSON decodes a JSON array of objects keyed by the same header aliases.
func (d *Decoder) DecodeJSON(kind Kind, body []byte) (Result, error) {
	res := Result{Kind: kind}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var items []json.RawMessage
	if err := dec.Decode(&items); err != nil {
		return res, &ValidationError{Message: "request body must be a JSON array of objects", Err: err}
	}

	for i, raw := range items {
		res.Total++
		obj, ok := decodeObject(raw)
		if !ok {
			rowErr := RowError{Row: i + 1, Message: "expected a JSON object"}
			res.Errors = append(res.Errors, rowErr)
			d.logRowError(kind, &rowErr, len(res.Errors))
			continue
		}
		d.logRowError(kind, appendRow(&res, objectValues(kind, obj), i+1), len(res.Errors))
	}
	d.summarize(res)
	return res, res.emptyErr()
}

func decodeObject(raw json.RawMessage) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// objectValues maps JSON keys onto fields. The canonical key beats an alias for the same field.
func objectValues(kind Kind, obj map[string]any) map[Field]any {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[Field]any, len(obj))
	for _, k := range keys {
		f, ok := LookupField(kind, k)
		if !ok {
			continue
		}
		if _, exists := values[f]; exists && k != string(f) {
			continue
		}
		values[f] = obj[k]
	}
	return values
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (d *Decoder) logRowError(kind Kind, rowErr *RowError, n int) {
	if rowErr == nil || n > maxLoggedRowErrors {
		return
	}
	d.log.Warn("import row dropped", "kind", kind, "row", rowErr.Row, "error", rowErr.Message)
}

func (d *Decoder) summarize(res Result) {
	if len(res.Errors) == 0 {
		return
	}
	d.log.Warn("import rows dropped during decode",
		"kind", res.Kind,
		"dropped", len(res.Errors),
		"valid", res.Len(),
		"total", res.Total,
		"first", res.FirstError(),
	)
}
