package decode

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yungbote/lims-backend/internal/normalization"
)

// rowReader types the raw values of one row. The first problem wins.
type rowReader struct {
	values map[Field]any
	err    string
}

func (r *rowReader) fail(format string, args ...any) {
	if r.err == "" {
		r.err = fmt.Sprintf(format, args...)
	}
}

func (r *rowReader) text(f Field) *string {
	var out *string
	switch v := r.values[f].(type) {
	case nil:
	case string:
		if s := strings.TrimSpace(v); s != "" {
			out = &s
		}
	case json.Number:
		s := v.String()
		out = &s
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		out = &s
	case bool:
		s := strconv.FormatBool(v)
		out = &s
	default:
		r.fail("field %q: expected text", string(f))
	}
	return out
}

// textValue reads a text field as a plain string. Blank stays blank so the
// engine can skip rows without an identity.
func (r *rowReader) textValue(f Field) string {
	if s := r.text(f); s != nil {
		return *s
	}
	return ""
}

func (r *rowReader) number(f Field) *float64 {
	var (
		out    float64
		parsed bool
	)
	switch v := r.values[f].(type) {
	case nil:
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			break
		}
		if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			r.fail("field %q: invalid number %q", string(f), s)
			return nil
		}
		out, parsed = n, true
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			r.fail("field %q: invalid number %q", string(f), v.String())
			return nil
		}
		out, parsed = n, true
	case float64:
		out, parsed = v, true
	default:
		r.fail("field %q: expected a number", string(f))
		return nil
	}
	if !parsed {
		return nil
	}
	return &out
}

func (r *rowReader) integer(f Field) *int {
	n := r.number(f)
	if n == nil {
		return nil
	}
	if *n != math.Trunc(*n) || math.Abs(*n) > math.MaxInt32 {
		r.fail("field %q: expected a whole number, got %v", string(f), *n)
		return nil
	}
	i := int(*n)
	return &i
}

func (r *rowReader) date(f Field) *string {
	v := r.values[f]
	switch v.(type) {
	case nil, string, json.Number, float64:
	default:
		r.fail("field %q: expected a date", string(f))
		return nil
	}
	return normalization.FlexibleDatePtr(v)
}

func (r *rowReader) reagent() ReagentRecord {
	return ReagentRecord{
		Name:             r.textValue(FieldName),
		Formula:          r.text(FieldFormula),
		CASNumber:        r.text(FieldCASNumber),
		MolecularWeight:  r.number(FieldMolecularWeight),
		Manufacturer:     r.text(FieldManufacturer),
		Description:      r.text(FieldDescription),
		CatalogNumber:    r.text(FieldCatalogNumber),
		Storage:          r.text(FieldStorage),
		Appearance:       r.text(FieldAppearance),
		Owner:            r.text(FieldOwner),
		AddedAt:          r.date(FieldAddedAt),
		BatchNumber:      r.text(FieldBatchNumber),
		QuantityPcs:      r.text(FieldQuantityPcs),
		Quantity:         r.number(FieldQuantity),
		Units:            r.text(FieldUnits),
		ExpiryDate:       r.date(FieldExpiryDate),
		Location:         r.text(FieldLocation),
		HazardPictograms: r.text(FieldHazardPictograms),
	}
}

func (r *rowReader) batch() BatchRecord {
	rec := BatchRecord{
		ReagentName:    r.textValue(FieldReagentName),
		BatchNumber:    r.textValue(FieldBatchNumber),
		Supplier:       r.text(FieldSupplier),
		Units:          r.textValue(FieldUnits),
		ExpirationDate: r.date(FieldExpirationDate),
		Location:       r.text(FieldLocation),
		Notes:          r.text(FieldNotes),
	}
	switch q := r.number(FieldQuantity); {
	case q != nil:
		rec.Quantity = *q
	case strings.TrimSpace(rec.ReagentName) != "" && strings.TrimSpace(rec.BatchNumber) != "":
		r.fail("missing required field %q", string(FieldQuantity))
	}
	return rec
}

func (r *rowReader) equipment() EquipmentRecord {
	return EquipmentRecord{
		Name:         r.textValue(FieldName),
		Type:         r.textValue(FieldType),
		SerialNumber: r.text(FieldSerialNumber),
		Manufacturer: r.text(FieldManufacturer),
		Quantity:     r.integer(FieldQuantity),
		Unit:         r.text(FieldUnit),
		Location:     r.text(FieldLocation),
		Description:  r.text(FieldDescription),
	}
}

// appendRow types values into the record for res.Kind, or records a RowError.
func appendRow(res *Result, values map[Field]any, row int) *RowError {
	r := &rowReader{values: values}
	switch res.Kind {
	case KindReagents:
		rec := r.reagent()
		if r.err == "" {
			res.Reagents = append(res.Reagents, rec)
		}
	case KindBatches:
		rec := r.batch()
		if r.err == "" {
			res.Batches = append(res.Batches, rec)
		}
	case KindEquipment:
		rec := r.equipment()
		if r.err == "" {
			res.Equipment = append(res.Equipment, rec)
		}
	default:
		r.fail("unknown import kind %q", string(res.Kind))
	}
	if r.err == "" {
		return nil
	}
	rowErr := RowError{Row: row, Message: r.err}
	res.Errors = append(res.Errors, rowErr)
	return &rowErr
}
