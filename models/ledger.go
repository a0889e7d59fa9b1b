package models

import (
	"sync"

	"github.com/ArnaudCalmettes/landslide/imp"
	"github.com/ArnaudCalmettes/landslide/pipeline"
	"github.com/jinzhu/gorm"
)

// Ledger stores what a pipeline writes under a given run.
type Ledger struct {
	mu  sync.Mutex
	db  *gorm.DB
	run *Run
}

// NewLedger returns a pipeline.Recorder attached to run.
func NewLedger(db *gorm.DB, run *Run) *Ledger {
	return &Ledger{db: db, run: run}
}

// Reference records the statistics every image was normalized against.
func (l *Ledger) Reference(st imp.Stats) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.run.TargetMean = st.Mean
	l.run.TargetStd = st.StdDev
	return l.db.Model(l.run).Updates(map[string]interface{}{
		"target_mean": st.Mean,
		"target_std":  st.StdDev,
	}).Error
}

// Record stores a written file and bumps the run's processed count.
func (l *Ledger) Record(e pipeline.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.db.Transaction(func(tx *gorm.DB) error {
		o := Output{
			RunID:        l.run.ID,
			Input:        e.Input,
			Path:         e.Output,
			Mean:         e.Stats.Mean,
			StdDev:       e.Stats.StdDev,
			BareFraction: e.BareFraction,
		}
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		l.run.Processed++
		return tx.Model(l.run).Update("processed", l.run.Processed).Error
	})
}
