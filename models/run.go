package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"
)

// Run statuses
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// A Run is one invocation of a pipeline.
type Run struct {
	gorm.Model
	Kind       string
	Params     string
	TargetMean float64
	TargetStd  float64
	Status     string
	Error      string
	Processed  int
	FinishedAt *time.Time
	Outputs    []Output
}

func (r Run) String() string {
	return fmt.Sprintf("Run{id=%v, kind=%v, status=%v, processed=%v}", r.ID, r.Kind, r.Status, r.Processed)
}

// BeforeSave is executed just before a Run is saved into the DB
func (r *Run) BeforeSave() error {
	if r.Kind == "" {
		return errors.New("missing run kind")
	}
	return nil
}

// An Output is a file written during a run.
type Output struct {
	gorm.Model
	RunID        uint `gorm:"index"`
	Input        string
	Path         string
	Mean         float64
	StdDev       float64
	BareFraction float64
}

// Migrate creates or updates the ledger tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Run{}, &Output{}).Error
}

// StartRun records the beginning of a run, with its parameters.
func StartRun(db *gorm.DB, kind string, params interface{}) (*Run, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	r := &Run{Kind: kind, Params: string(raw), Status: StatusRunning}
	if err := db.Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// Finish marks a run as done, or failed when err isn't nil.
func (r *Run) Finish(db *gorm.DB, err error) error {
	now := time.Now()
	r.FinishedAt = &now
	r.Status = StatusDone
	if err != nil {
		r.Status = StatusFailed
		r.Error = err.Error()
	}
	return db.Model(r).Updates(map[string]interface{}{
		"status":      r.Status,
		"error":       r.Error,
		"finished_at": r.FinishedAt,
	}).Error
}

// ListRuns returns the most recent runs first. limit <= 0 means no limit.
func ListRuns(db *gorm.DB, limit int) (runs []Run, err error) {
	q := db.Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err = q.Find(&runs).Error
	return
}

// FindRun finds a run from its ID, along with its outputs.
func FindRun(db *gorm.DB, id uint) (*Run, error) {
	r := Run{}
	err := db.Preload("Outputs").Where("id = ?", id).First(&r).Error
	return &r, err
}
