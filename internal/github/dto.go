package github

import "time"

type userDTO struct {
	Login string `json:"login"`
}

type repositoryDTO struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Owner   userDTO `json:"owner"`
	HTMLURL string  `json:"html_url"`
}

type issueDTO struct {
	ID          int64     `json:"id"`
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	State       string    `json:"state"`
	HTMLURL     string    `json:"html_url"`
	User        userDTO   `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
	PullRequest *struct{} `json:"pull_request,omitempty"`
}

type pullRequestDTO struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	HTMLURL   string    `json:"html_url"`
	User      userDTO   `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

type commitRefDTO struct {
	SHA string `json:"sha"`
}

type tagDTO struct {
	Name       string       `json:"name"`
	Commit     commitRefDTO `json:"commit"`
	ZipballURL string       `json:"zipball_url"`
	TarballURL string       `json:"tarball_url"`
}

type branchDTO struct {
	Name      string       `json:"name"`
	Commit    commitRefDTO `json:"commit"`
	Protected bool         `json:"protected"`
}

type commitDTO struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

type errorDTO struct {
	Message string `json:"message"`
}
