package decode

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindReagents  Kind = "reagents"
	KindBatches   Kind = "batches"
	KindEquipment Kind = "equipment"
)

func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindReagents, KindBatches, KindEquipment:
		return k, nil
	default:
		return "", fmt.Errorf("unknown import kind %q", raw)
	}
}

func (k Kind) String() string { return string(k) }
