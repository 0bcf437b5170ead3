package domain

import "testing"

func TestReagentFillColumnsAreExposed(t *testing.T) {
	if len(ReagentFillColumns) == 0 {
		t.Fatalf("no fill columns exported")
	}
	exposed := make(map[string]bool, len(ReagentColumns))
	for _, col := range ReagentColumns {
		exposed[col] = true
	}
	for _, col := range ReagentFillColumns {
		if !exposed[col] {
			t.Fatalf("fill column %q missing from ReagentColumns", col)
		}
		if col == "name" || col == "name_key" || col == "id" {
			t.Fatalf("identity column %q must not be merged", col)
		}
	}
}
