package models

// StorageVersion is the current on-disk snapshot format.
const StorageVersion = 1

// Storage is the persisted state of the injector.
type Storage struct {
	Version       int                 `json:"version"`
	WatchList     []Address           `json:"watch_list"`
	Targets       map[Address]*Target `json:"targets"`
	Paused        bool                `json:"paused"`
	Keeper        Address             `json:"keeper,omitempty"`
	MinWaitPeriod int64               `json:"min_wait_period,omitempty"`
}
