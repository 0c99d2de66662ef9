package entity

// MonitorSample is one stored reading of a monitor during a run.
type MonitorSample struct {
	Run        uint
	Program    string  // Sampled program (e.g., "os", "monitor", "postgres")
	Monitor    string  // Monitor name (e.g., "virtual_memory")
	Submonitor *string // Field of a structured reading; nil for scalar monitors
	Time       float64 // Seconds since the start of the run
	Value      float64
}

// Column returns the label of the column this sample belongs to.
// Scalar monitors are labelled by the monitor name.
func (s MonitorSample) Column() string {
	if s.Submonitor == nil {
		return s.Monitor
	}
	return *s.Submonitor
}
