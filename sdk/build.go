package sdk

// Build is a single triggered execution of a repository's pipeline.
type Build struct {
	ID          int64  `json:"id"`
	Number      int64  `json:"number"`
	Status      string `json:"status"`
	Event       string `json:"event"`
	Message     string `json:"message"`
	Author      string `json:"author"`
	AuthorEmail string `json:"author_email"`
	LinkURL     string `json:"link_url"`
	Branch      string `json:"branch"`
	Commit      string `json:"commit"`
	CreatedAt   int64  `json:"created_at"`
	// Jobs is only populated when a single Build is retrieved. Build lists
	// carry summaries without Jobs.
	Jobs []Job `json:"jobs,omitempty"`
}

// FirstJob returns the Build's first Job. Only the first Job of a Build is
// ever inspected by this client; multi-job builds are a known limitation.
func (b Build) FirstJob() (Job, error) {
	if len(b.Jobs) == 0 {
		return Job{}, &ErrNoJobs{Build: b.Number}
	}
	return b.Jobs[0], nil
}
