package sdk

// LogEntry is one chunk of Job output attributed to a named process (step).
type LogEntry struct {
	// Proc is the name of the process that produced the output.
	Proc string `json:"proc"`
	// Pos is the position of the chunk within the process's output.
	Pos int `json:"pos"`
	// Out is the output itself.
	Out string `json:"out"`
}
