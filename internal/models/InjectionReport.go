package models

// InjectionReport describes what one execution batch did with its candidates.
// Failed is set when a receiver rejected its deposit; every candidate after it
// is listed in Aborted and was not attempted.
type InjectionReport struct {
	Injected []Address `json:"injected"`
	Skipped  []Address `json:"skipped"`
	Failed   Address   `json:"failed,omitempty"`
	Aborted  []Address `json:"aborted,omitempty"`
}

func NewInjectionReport() *InjectionReport {
	return &InjectionReport{
		Injected: make([]Address, 0),
		Skipped:  make([]Address, 0),
	}
}
