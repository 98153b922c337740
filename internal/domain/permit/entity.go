package permit

import (
	"time"

	"permitwork/internal/pkg/utils"
)

// Photo categories, also used as storage subfolders.
const (
	CategoryOperatedLbs    = "operated_lbs"
	CategoryEarthingPoints = "earthing_points"
)

// Permit is one submitted Permit to Work. Column names keep the camelCase
// of the hosted table the form has always written to.
type Permit struct {
	ID                    int64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CSC                   string        `gorm:"column:csc;not null" json:"csc"`
	TechnicalOfficer      string        `gorm:"column:technicalOfficer;not null" json:"technicalOfficer"`
	WorkScope             string        `gorm:"column:workScope;not null" json:"workScope"`
	OperatedLbs           *string       `gorm:"column:operatedLbs" json:"operatedLbs"`
	EarthingPoints        *string       `gorm:"column:earthingPoints" json:"earthingPoints"`
	AdditionalSafetySteps *string       `gorm:"column:additionalSafetySteps" json:"additionalSafetySteps"`
	WPTransfer            bool          `gorm:"column:wpTransfer;not null;default:false" json:"wpTransfer"`
	AdditionalEarthing    int           `gorm:"column:additionalEarthing;not null;default:0" json:"additionalEarthing"`
	CSSName               string        `gorm:"column:cssName;not null" json:"cssName"`
	SafetyConfirmation    bool          `gorm:"column:safetyConfirmation;not null;default:false" json:"safetyConfirmation"`
	OperatedLbsPhotos     utils.URLList `gorm:"column:operatedLbsPhotos" json:"operatedLbsPhotos"`
	EarthingPointsPhotos  utils.URLList `gorm:"column:earthingPointsPhotos" json:"earthingPointsPhotos"`
	CreatedAt             time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Permit) TableName() string { return "wp_tbl" }
