package utils

type Metric struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
	OverlapCheck  chan float64
	EventRejected chan struct{}
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64),
		DatabaseWrite: make(chan float64),
		OverlapCheck:  make(chan float64),
		EventRejected: make(chan struct{}),
	}
}
