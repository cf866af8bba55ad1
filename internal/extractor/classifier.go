package extractor

import "strings"

// jobBoardHosts are matched by substring against the hostname as given.
// The comparison is case-sensitive; see DESIGN.md.
var jobBoardHosts = []string{
	"linkedin.com",
	"indeed.com",
	"glassdoor.com",
	"monster.com",
	"ziprecruiter.com",
	"careerbuilder.com",
	"dice.com",
	"simplyhired.com",
	"angel.co",
	"wellfound.com",
	"lever.co",
	"greenhouse.io",
	"workday.com",
	"myworkdayjobs.com",
	"smartrecruiters.com",
	"jobs.ashbyhq.com",
	"stackoverflow.com",
}

var jobKeywords = []string{
	"job",
	"career",
	"position",
	"opening",
	"opportunity",
	"employment",
	"hiring",
	"recruitment",
	"vacancy",
}

// IsJobBoardHost reports whether hostname contains a known job-board domain
func IsJobBoardHost(hostname string) bool {
	for _, host := range jobBoardHosts {
		if strings.Contains(hostname, host) {
			return true
		}
	}
	return false
}

// Classify decides whether a page is a job posting. Known job boards win
// outright; otherwise any job keyword in the url, title or body text does.
// False positives are expected.
func Classify(url, hostname, title, bodyText string) bool {
	if IsJobBoardHost(hostname) {
		return true
	}

	haystacks := []string{
		strings.ToLower(url),
		strings.ToLower(title),
		strings.ToLower(bodyText),
	}
	for _, keyword := range jobKeywords {
		for _, h := range haystacks {
			if strings.Contains(h, keyword) {
				return true
			}
		}
	}
	return false
}
