package github

import "github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/gitrepo"

func toRepository(dto repositoryDTO) *gitrepo.Repository {
	return &gitrepo.Repository{
		ID:    dto.ID,
		Name:  dto.Name,
		Owner: dto.Owner.Login,
		URL:   dto.HTMLURL,
	}
}

// toIssues drops pull requests, which the issues endpoint also lists.
func toIssues(dtos []issueDTO) []gitrepo.Issue {
	out := make([]gitrepo.Issue, 0, len(dtos))
	for _, d := range dtos {
		if d.PullRequest != nil {
			continue
		}
		out = append(out, gitrepo.Issue{
			GithubID:  d.ID,
			Number:    d.Number,
			Title:     d.Title,
			State:     d.State,
			URL:       d.HTMLURL,
			Author:    d.User.Login,
			CreatedAt: d.CreatedAt,
		})
	}
	return out
}

func toPullRequests(dtos []pullRequestDTO) []gitrepo.PullRequest {
	out := make([]gitrepo.PullRequest, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, gitrepo.PullRequest{
			GithubID:  d.ID,
			Number:    d.Number,
			Title:     d.Title,
			State:     d.State,
			URL:       d.HTMLURL,
			Author:    d.User.Login,
			CreatedAt: d.CreatedAt,
		})
	}
	return out
}

func toTags(dtos []tagDTO) []gitrepo.Tag {
	out := make([]gitrepo.Tag, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, gitrepo.Tag{
			Name:      d.Name,
			CommitSHA: d.Commit.SHA,
			ZipURL:    d.ZipballURL,
			TarURL:    d.TarballURL,
		})
	}
	return out
}

func toBranches(dtos []branchDTO) []gitrepo.Branch {
	out := make([]gitrepo.Branch, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, gitrepo.Branch{
			Name:      d.Name,
			CommitSHA: d.Commit.SHA,
			Protected: d.Protected,
		})
	}
	return out
}

func toCommits(dtos []commitDTO) []gitrepo.Commit {
	out := make([]gitrepo.Commit, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, gitrepo.Commit{
			SHA:         d.SHA,
			Message:     d.Commit.Message,
			Author:      d.Commit.Author.Name,
			AuthorEmail: d.Commit.Author.Email,
			URL:         d.HTMLURL,
			CommittedAt: d.Commit.Author.Date,
		})
	}
	return out
}
