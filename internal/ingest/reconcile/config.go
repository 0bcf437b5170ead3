package reconcile

import "github.com/yungbote/lims-backend/internal/platform/envutil"

const (
	DefaultReagentChunkSize   = 3000
	DefaultBatchChunkSize     = 5000
	DefaultEquipmentChunkSize = 3000
)

// Config sizes the per-chunk transactions of each import kind.
type Config struct {
	ReagentChunkSize   int
	BatchChunkSize     int
	EquipmentChunkSize int
}

func DefaultConfig() Config {
	return Config{
		ReagentChunkSize:   DefaultReagentChunkSize,
		BatchChunkSize:     DefaultBatchChunkSize,
		EquipmentChunkSize: DefaultEquipmentChunkSize,
	}
}

func ConfigFromEnv() Config {
	return Config{
		ReagentChunkSize:   envutil.Int("IMPORT_REAGENT_CHUNK", DefaultReagentChunkSize),
		BatchChunkSize:     envutil.Int("IMPORT_BATCH_CHUNK", DefaultBatchChunkSize),
		EquipmentChunkSize: envutil.Int("IMPORT_EQUIPMENT_CHUNK", DefaultEquipmentChunkSize),
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.ReagentChunkSize <= 0 {
		c.ReagentChunkSize = DefaultReagentChunkSize
	}
	if c.BatchChunkSize <= 0 {
		c.BatchChunkSize = DefaultBatchChunkSize
	}
	if c.EquipmentChunkSize <= 0 {
		c.EquipmentChunkSize = DefaultEquipmentChunkSize
	}
	return c
}
