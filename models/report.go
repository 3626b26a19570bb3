package models

// QAReport holds the computed run summary over the final listing set.
type QAReport struct {
	TotalProcessed int
	TotalOutput    int
	Geocoded       int
	ByStatus       map[Status]int
	ByCategory     map[string]int
	ByCity         map[string]int
	FirstReady     *Listing
}

// PublishFailure records why a single listing could not be published.
type PublishFailure struct {
	Record string `json:"record"`
	Error  string `json:"error"`
}

// PublishResult tallies the outcome of a publish pass.
type PublishResult struct {
	Published int              `json:"published"`
	Failed    int              `json:"failed"`
	Skipped   int              `json:"skipped"`
	Failures  []PublishFailure `json:"failedRecords"`
}

// OutputSummary describes what the output writer produced.
type OutputSummary struct {
	Counts     map[Status]int
	AllPath    string
	ReadyPath  string
	ReviewPath string
	Ready      int
	Review     int
}
