package services

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/Seebrasse345/linkedin-auto-apply/browser"
	"github.com/Seebrasse345/linkedin-auto-apply/config"
	"github.com/Seebrasse345/linkedin-auto-apply/models"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

const (
	easyApplyCollectionURL   = "https://www.linkedin.com/jobs/collections/easy-apply/?discover=recommended&discoveryOrigin=JOBS_HOME_JYMBII"
	recommendedCollectionURL = "https://www.linkedin.com/jobs/collections/recommended/?discover=recommended&discoveryOrigin=JOBS_HOME_JYMBII"
	jobSearchBaseURL         = "https://www.linkedin.com/jobs/search/"
)

var distanceKmMap = map[int]string{
	8:  "5",
	15: "10",
	40: "25",
	80: "50",
}

var datePostedMap = map[string]string{
	"Past 24 hours": "r86400",
	"Past Week":     "r604800",
	"Past Month":    "r2592000",
}

var remoteMap = map[string]string{
	"on_site": "1",
	"remote":  "2",
	"hybrid":  "3",
}

var experienceMap = map[string]string{
	"internship":       "1",
	"entry_level":      "2",
	"associate":        "3",
	"mid_senior_level": "4",
	"director":         "5",
	"executive":        "6",
}

var jobTypeMap = map[string]string{
	"full_time":  "F",
	"part_time":  "P",
	"contract":   "C",
	"temporary":  "T",
	"volunteer":  "V",
	"internship": "I",
}

// ConstructSearchURL builds the job search URL for one profile. Collection
// shortcuts take precedence over the filter-based search URL.
func ConstructSearchURL(name string, profile config.SearchProfile) (string, error) {
	if profile.Filters.AutoEasyApply {
		utils.Log.Infof("Profile %q uses the Easy Apply collection", name)
		return easyApplyCollectionURL, nil
	}
	if profile.Filters.AutoRecommended {
		utils.Log.Infof("Profile %q uses the recommended jobs collection", name)
		return recommendedCollectionURL, nil
	}

	if profile.Location == "" || profile.GeoID == "" {
		return "", fmt.Errorf("profile %q is missing location or geoId", name)
	}

	params := url.Values{}
	if strings.TrimSpace(profile.Query) != "" {
		params.Set("keywords", profile.Query)
	}
	params.Set("location", profile.Location)
	params.Set("geoId", profile.GeoID)

	// Easy Apply is the only entry path this tool can drive, so the
	// filter is unconditional.
	params.Set("f_AL", "true")

	f := profile.Filters
	if f.LowNumberApplicants {
		params.Set("f_EA", "true")
	}

	if f.DistanceKm != 0 {
		if v, ok := distanceKmMap[f.DistanceKm]; ok {
			params.Set("distance", v)
		} else {
			utils.Log.Warnf("Unsupported distance_km value %d, omitting distance filter", f.DistanceKm)
		}
	}

	if f.DatePosted != "" && f.DatePosted != "Any Time" {
		if f.DatePosted == "custom_hours" {
			if f.DatePostedCustomHours >= 1 && f.DatePostedCustomHours <= 23 {
				params.Set("f_TPR", fmt.Sprintf("r%d", f.DatePostedCustomHours*3600))
			} else {
				utils.Log.Warnf("Invalid date_posted_custom_hours_value %d, omitting date filter", f.DatePostedCustomHours)
			}
		} else if v, ok := datePostedMap[f.DatePosted]; ok {
			params.Set("f_TPR", v)
		} else {
			utils.Log.Warnf("Unsupported date_posted value %q, omitting date filter", f.DatePosted)
		}
	}

	if v := mapMulti(f.Remote, remoteMap); v != "" {
		params.Set("f_WT", v)
	}
	if v := mapMulti(f.Experience, experienceMap); v != "" {
		params.Set("f_E", v)
	}
	if v := mapMulti(f.JobType, jobTypeMap); v != "" {
		params.Set("f_JT", v)
	}

	params.Set("origin", "JOB_SEARCH_PAGE_JOB_FILTER")
	params.Set("refresh", "true")

	full := jobSearchBaseURL + "?" + params.Encode()
	utils.Log.Infof("Constructed search URL for profile %q: %s", name, full)
	return full, nil
}

// mapMulti translates config values through a mapping and joins them
// sorted, so equivalent configs always produce the same URL.
func mapMulti(values []string, mapping map[string]string) string {
	var mapped []string
	for _, v := range values {
		if m, ok := mapping[v]; ok {
			mapped = append(mapped, m)
		} else if v != "" {
			utils.Log.Warnf("Unsupported filter value %q, skipping", v)
		}
	}
	if len(mapped) == 0 {
		return ""
	}
	sort.Strings(mapped)
	return strings.Join(mapped, ",")
}

const (
	jobCardSelector     = "div.job-card-container[data-job-id], li[data-occludable-job-id]"
	jobTitleSelector    = "a.job-card-container__link, a.job-card-list__title"
	jobCompanySelector  = ".artdeco-entity-lockup__subtitle, .job-card-container__primary-description"
	jobLocationSelector = ".job-card-container__metadata-item, .artdeco-entity-lockup__caption"
	jobDescSelector     = "div.jobs-description-content__text, article.jobs-description__container"
	detailTitleSelector = "h1.t-24, .job-details-jobs-unified-top-card__job-title"
	jobListScrollScript = "() => { const el = document.querySelector('.jobs-search-results-list, .scaffold-layout__list'); if (el) { el.scrollTop = el.scrollHeight; } }"

	jobCardClickTimeoutMs = 3000
)

// JobSearchService collects job cards off a search results page and
// hydrates each into a JobContext by clicking through to the detail pane.
type JobSearchService struct {
	drv browser.Driver
}

func NewJobSearchService(drv browser.Driver) *JobSearchService {
	return &JobSearchService{drv: drv}
}

// CollectJobCards scrolls the results list once to force lazy cards to
// render, then reads up to limit cards. Cards without a job id are
// skipped.
func (s *JobSearchService) CollectJobCards(limit int) []*models.JobContext {
	_ = s.drv.Evaluate(jobListScrollScript)
	s.drv.WaitForTimeout(1500)

	cards := s.drv.Locate(jobCardSelector)
	n := cards.Count()
	utils.Log.Infof("Found %d job cards on results page", n)

	var jobs []*models.JobContext
	seen := make(map[string]bool)
	for i := 0; i < n && len(jobs) < limit; i++ {
		card := cards.Nth(i)
		id := card.GetAttribute("data-job-id")
		if id == "" {
			id = card.GetAttribute("data-occludable-job-id")
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		job := &models.JobContext{
			ID:       id,
			Title:    strings.TrimSpace(firstText(card, jobTitleSelector)),
			Company:  strings.TrimSpace(firstText(card, jobCompanySelector)),
			Location: strings.TrimSpace(firstText(card, jobLocationSelector)),
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// OpenJobDetail clicks a collected card and fills in the description from
// the detail pane. Failure to open is non-fatal; the job keeps whatever
// card-level data it has.
func (s *JobSearchService) OpenJobDetail(job *models.JobContext) {
	cards := s.drv.Locate(jobCardSelector)
	for i := 0; i < cards.Count(); i++ {
		card := cards.Nth(i)
		id := card.GetAttribute("data-job-id")
		if id == "" {
			id = card.GetAttribute("data-occludable-job-id")
		}
		if id != job.ID {
			continue
		}
		if err := card.Click(jobCardClickTimeoutMs); err != nil {
			utils.Log.Warnf("Could not open detail pane for job %s: %v", job.ID, err)
			return
		}
		s.drv.WaitForTimeout(1500)

		if title := strings.TrimSpace(firstText(elementRoot{s.drv}, detailTitleSelector)); title != "" {
			job.Title = title
		}
		job.Description = strings.TrimSpace(firstText(elementRoot{s.drv}, jobDescSelector))
		return
	}
	utils.Log.Warnf("Job card %s no longer present in results list", job.ID)
}

// locatable is the shared lookup surface of Driver and Element.
type locatable interface {
	Locate(selector string) browser.ElementSet
}

// elementRoot adapts the page driver to the locatable surface.
type elementRoot struct {
	drv browser.Driver
}

func (r elementRoot) Locate(selector string) browser.ElementSet {
	return r.drv.Locate(selector)
}

func firstText(root locatable, selector string) string {
	set := root.Locate(selector)
	if set.Count() == 0 {
		return ""
	}
	return set.First().InnerText()
}
