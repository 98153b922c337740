package permit

import (
	"strings"

	"permitwork/internal/domain/upload"
)

// SubmitRequest is the permit form as posted by the page or an API client.
// Multipart posts carry the photos in operatedLbsPhotos and
// earthingPointsPhotos file fields.
type SubmitRequest struct {
	CSC                   string `form:"csc" json:"csc" label:"Customer Service Center" validate:"required"`
	TechnicalOfficer      string `form:"technicalOfficer" json:"technicalOfficer" label:"Technical Officer" validate:"required"`
	WorkScope             string `form:"workScope" json:"workScope" label:"Work Scope" validate:"required"`
	OperatedLbs           string `form:"operatedLbs" json:"operatedLbs" label:"Operating LBSs"`
	EarthingPoints        string `form:"earthingPoints" json:"earthingPoints" label:"Earthing Points"`
	AdditionalSafetySteps string `form:"additionalSafetySteps" json:"additionalSafetySteps" label:"Additional Safety Steps"`
	WPTransfer            bool   `form:"wpTransfer" json:"wpTransfer"`
	AdditionalEarthing    int    `form:"additionalEarthing" json:"additionalEarthing" label:"Number of Additional Earthing" validate:"min=0,max=120"`
	CSSName               string `form:"cssName" json:"cssName" label:"Name of the Initiator" validate:"required"`
	SafetyConfirmation    bool   `form:"safetyConfirmation" json:"safetyConfirmation"`
}

// Normalize trims every text field in place.
func (r *SubmitRequest) Normalize() {
	r.CSC = strings.TrimSpace(r.CSC)
	r.TechnicalOfficer = strings.TrimSpace(r.TechnicalOfficer)
	r.WorkScope = strings.TrimSpace(r.WorkScope)
	r.OperatedLbs = strings.TrimSpace(r.OperatedLbs)
	r.EarthingPoints = strings.TrimSpace(r.EarthingPoints)
	r.AdditionalSafetySteps = strings.TrimSpace(r.AdditionalSafetySteps)
	r.CSSName = strings.TrimSpace(r.CSSName)
}

func (r *SubmitRequest) toPermit(operatedURLs, earthingURLs []string) *Permit {
	return &Permit{
		CSC:                   r.CSC,
		TechnicalOfficer:      r.TechnicalOfficer,
		WorkScope:             r.WorkScope,
		OperatedLbs:           nullIfBlank(r.OperatedLbs),
		EarthingPoints:        nullIfBlank(r.EarthingPoints),
		AdditionalSafetySteps: nullIfBlank(r.AdditionalSafetySteps),
		WPTransfer:            r.WPTransfer,
		AdditionalEarthing:    r.AdditionalEarthing,
		CSSName:               r.CSSName,
		SafetyConfirmation:    r.SafetyConfirmation,
		OperatedLbsPhotos:     operatedURLs,
		EarthingPointsPhotos:  earthingURLs,
	}
}

// Attachments are the photos that came with a submission, in upload order.
type Attachments struct {
	OperatedLbs    []upload.File
	EarthingPoints []upload.File
}

// Result is what a successful submission produced.
type Result struct {
	Permit               *Permit         `json:"permit"`
	OperatedLbsPhotos    []*upload.Photo `json:"operatedLbsPhotos"`
	EarthingPointsPhotos []*upload.Photo `json:"earthingPointsPhotos"`
	Warnings             []string        `json:"warnings,omitempty"`
}

// Detail is a stored permit together with its photo metadata rows.
type Detail struct {
	Permit *Permit         `json:"permit"`
	Photos []*upload.Photo `json:"photos"`
}

// ListResponse is one page of permits, newest first.
type ListResponse struct {
	Permits []*Permit `json:"permits"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
}

func nullIfBlank(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func photoURLs(photos []*upload.Photo) []string {
	urls := make([]string, 0, len(photos))
	for _, p := range photos {
		urls = append(urls, p.URL)
	}
	return urls
}
