package decode

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/yungbote/lims-backend/internal/platform/logger"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "import.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestDecodeSheetDropsMalformedRow(t *testing.T) {
	t.Parallel()
	path := writeWorkbook(t, [][]any{
		{"Название", "Formula", "Quantity", "Units", "Lot number", "Expiry Date"},
		{"Acetone", "C3H6O", 5, "L", "B1", 45292},
		{"Ethanol", "C2H6O", "lots", "L", "B2", "05.03.2024"},
		{"Toluene", nil, 2.5, "L", "B3", "2024-03-05"},
	})

	res, err := NewDecoder(logger.Nop()).DecodeSheet(context.Background(), KindReagents, path)
	if err != nil {
		t.Fatalf("DecodeSheet: %v", err)
	}
	if res.Total != 3 {
		t.Fatalf("total: got=%d want=3", res.Total)
	}
	if len(res.Reagents) != 2 {
		t.Fatalf("reagents: got=%d want=2", len(res.Reagents))
	}
	if len(res.Errors) != 1 || res.Errors[0].Row != 3 {
		t.Fatalf("errors: got=%v want one error on row 3", res.Errors)
	}
	if !strings.HasPrefix(res.FirstError(), "Row 3: ") {
		t.Fatalf("unexpected rendering: %q", res.FirstError())
	}

	acetone := res.Reagents[0]
	if acetone.Name != "Acetone" || acetone.Quantity == nil || *acetone.Quantity != 5 {
		t.Fatalf("unexpected acetone record: %+v", acetone)
	}
	if acetone.ExpiryDate == nil || *acetone.ExpiryDate != "2024-01-01T00:00:00" {
		t.Fatalf("serial date not normalized: %v", acetone.ExpiryDate)
	}
	toluene := res.Reagents[1]
	if toluene.Formula != nil {
		t.Fatalf("blank formula should be nil, got %q", *toluene.Formula)
	}
	if toluene.ExpiryDate == nil || *toluene.ExpiryDate != "2024-03-05T00:00:00" {
		t.Fatalf("text date not normalized: %v", toluene.ExpiryDate)
	}
}

func TestDecodeSheetAllRowsInvalid(t *testing.T) {
	t.Parallel()
	path := writeWorkbook(t, [][]any{
		{"Reagent Name", "Batch Number", "Quantity", "Units"},
		{"Acetone", "B1", nil, "L"},
		{"Ethanol", "B2", "n/a", "L"},
	})

	res, err := NewDecoder(logger.Nop()).DecodeSheet(context.Background(), KindBatches, path)
	var empty *EmptyBatchError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyBatchError, got %v", err)
	}
	if empty.First != res.FirstError() || !strings.HasPrefix(empty.First, "Row 2: ") {
		t.Fatalf("unexpected first error: %q", empty.First)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("errors: got=%d want=2", len(res.Errors))
	}
}

func TestDecodeSheetUnknownHeaders(t *testing.T) {
	t.Parallel()
	path := writeWorkbook(t, [][]any{{"foo", "bar"}})

	_, err := NewDecoder(logger.Nop()).DecodeSheet(context.Background(), KindEquipment, path)
	var empty *EmptyBatchError
	if !errors.As(err, &empty) {
		t.Fatalf("expected EmptyBatchError, got %v", err)
	}
	if got := err.Error(); got != "no valid rows: check column headers" {
		t.Fatalf("message: got=%q", got)
	}
}

func TestDecodeSheetRejectsNonWorkbook(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "missing.xlsx")

	_, err := NewDecoder(logger.Nop()).DecodeSheet(context.Background(), KindReagents, path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDecodeSheetSkipsBlankRows(t *testing.T) {
	t.Parallel()
	path := writeWorkbook(t, [][]any{
		{"name", "type", "serial_number", "quantity"},
		{"Centrifuge", "instrument", "SN-1", 1},
		{nil, nil, nil, nil},
		{"Beaker", "glassware", nil, 12},
	})

	res, err := NewDecoder(logger.Nop()).DecodeSheet(context.Background(), KindEquipment, path)
	if err != nil {
		t.Fatalf("DecodeSheet: %v", err)
	}
	if res.Total != 2 || len(res.Equipment) != 2 || len(res.Errors) != 0 {
		t.Fatalf("unexpected result: total=%d equipment=%d errors=%v", res.Total, len(res.Equipment), res.Errors)
	}
	if res.Equipment[1].SerialNumber != nil {
		t.Fatalf("expected nil serial for beaker")
	}
	if q := res.Equipment[1].Quantity; q == nil || *q != 12 {
		t.Fatalf("quantity: got=%v want=12", q)
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()
	body := []byte(`[
		{"name":"Acetone","quantity":5,"units":"L","batch_number":"B1"},
		{"Name":"acetone","Quantity":"3","Unit":"L","Lot number":"B1","expiry_date":"2024-01-02"},
		42,
		{"formula":"H2O"}
	]`)

	res, err := NewDecoder(logger.Nop()).DecodeJSON(KindReagents, body)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if res.Total != 4 || len(res.Reagents) != 3 {
		t.Fatalf("unexpected counts: total=%d reagents=%d", res.Total, len(res.Reagents))
	}
	if len(res.Errors) != 1 || res.Errors[0].Row != 3 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if got := res.Reagents[2].Name; got != "" {
		t.Fatalf("nameless row should decode with a blank name, got %q", got)
	}
	second := res.Reagents[1]
	if second.Quantity == nil || *second.Quantity != 3 {
		t.Fatalf("numeric string quantity not parsed: %v", second.Quantity)
	}
	if second.BatchNumber == nil || *second.BatchNumber != "B1" {
		t.Fatalf("alias batch number not mapped: %v", second.BatchNumber)
	}
	if second.ExpiryDate == nil || *second.ExpiryDate != "2024-01-02T00:00:00" {
		t.Fatalf("expiry date: %v", second.ExpiryDate)
	}
}

func TestDecodeBlankIdentityIsNotARowError(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		kind  Kind
		body  string
		valid int
	}{
		{name: "reagent blank name", kind: KindReagents, body: `[{"name":"Acetone"},{"name":"   "}]`, valid: 2},
		{name: "reagent empty name only", kind: KindReagents, body: `[{"name":""}]`, valid: 1},
		{name: "batch blank number", kind: KindBatches, body: `[{"reagent_name":"Acetone","batch_number":" ","quantity":1,"units":"L"}]`, valid: 1},
		{name: "batch blank identity without quantity", kind: KindBatches, body: `[{"reagent_name":"","batch_number":""}]`, valid: 1},
		{name: "equipment blank name and type", kind: KindEquipment, body: `[{"name":" ","type":""}]`, valid: 1},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, err := NewDecoder(logger.Nop()).DecodeJSON(tc.kind, []byte(tc.body))
			if err != nil {
				t.Fatalf("DecodeJSON: %v", err)
			}
			if len(res.Errors) != 0 {
				t.Fatalf("unexpected row errors: %v", res.Errors)
			}
			if got := res.Len(); got != tc.valid {
				t.Fatalf("records: got=%d want=%d", got, tc.valid)
			}
		})
	}
}

func TestDecodeBatchWithoutQuantityIsRowError(t *testing.T) {
	t.Parallel()
	_, err := NewDecoder(logger.Nop()).DecodeJSON(KindBatches, []byte(`[{"reagent_name":"Acetone","batch_number":"B1","units":"L"}]`))
	var empty *EmptyBatchError
	if !errors.As(err, &empty) || !strings.Contains(empty.First, `missing required field "quantity"`) {
		t.Fatalf("expected missing quantity rejection, got %v", err)
	}
}

func TestDecodeJSONCanonicalKeyWins(t *testing.T) {
	t.Parallel()
	res, err := NewDecoder(logger.Nop()).DecodeJSON(KindEquipment, []byte(`[{"type":"labware","equipment_type":"safety","name":"Rack"}]`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got := res.Equipment[0].Type; got != "labware" {
		t.Fatalf("type: got=%q want=labware", got)
	}
}

func TestDecodeJSONRejectsNonArray(t *testing.T) {
	t.Parallel()
	_, err := NewDecoder(logger.Nop()).DecodeJSON(KindBatches, []byte(`{"reagent_name":"x"}`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestDecodeJSONEquipmentQuantityMustBeWhole(t *testing.T) {
	t.Parallel()
	_, err := NewDecoder(logger.Nop()).DecodeJSON(KindEquipment, []byte(`[{"name":"Pipette","type":"labware","quantity":1.5}]`))
	var empty *EmptyBatchError
	if !errors.As(err, &empty) || !strings.Contains(empty.First, "whole number") {
		t.Fatalf("expected whole-number rejection, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()
	if k, err := ParseKind(" Batches "); err != nil || k != KindBatches {
		t.Fatalf("ParseKind: got=%q err=%v", k, err)
	}
	if _, err := ParseKind("rooms"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
