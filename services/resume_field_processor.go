package services

import (
	"github.com/Seebrasse345/linkedin-auto-apply/browser"
	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

// ResumeFieldProcessor handles the resume picker. Deliberate no-op: the
// pre-selected resume on the account is never changed, and the step is
// always reported successful.
type ResumeFieldProcessor struct{}

func NewResumeFieldProcessor() *ResumeFieldProcessor {
	return &ResumeFieldProcessor{}
}

func (p *ResumeFieldProcessor) Process(drv browser.Driver) bool {
	cards := drv.Locate(ResumeCardSelector)
	if cards.Count() > 0 {
		utils.Log.Infof("Resume selector present with %d cards, keeping existing selection", cards.Count())
	}
	return true
}
