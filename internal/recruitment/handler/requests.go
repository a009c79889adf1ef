package handler

import (
	"smarttalent/internal/recruitment/models"
	"smarttalent/internal/recruitment/service"
	id "smarttalent/pkg/domain"
	dErrors "smarttalent/pkg/domain-errors"
)

// ProfileBody is the job profile part of a new recruitment.
type ProfileBody struct {
	PositionName    string   `json:"positionName"`
	Area            string   `json:"area"`
	WorkLocation    string   `json:"workLocation"`
	WorkModality    string   `json:"workModality"`
	ContractType    string   `json:"contractType"`
	SalaryRangeFrom float64  `json:"salaryRangeFrom"`
	SalaryRangeTo   float64  `json:"salaryRangeTo"`
	JobFunctions    []string `json:"jobFunctions"`
}

// CreateRecruitmentBody is the HTTP body for POST /recruitments.
type CreateRecruitmentBody struct {
	RecruitmentType string       `json:"recruitmentType"`
	EntityID        string       `json:"entityId"`
	ProfileData     *ProfileBody `json:"profileData"`

	entityID id.EntityID
}

func (b *CreateRecruitmentBody) Validate() error {
	if !models.ValidRecruitmentType(models.RecruitmentType(b.RecruitmentType)) {
		return dErrors.New(dErrors.CodeValidation, "unknown recruitment type")
	}
	entityID, err := id.ParseEntityID(b.EntityID)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid entity id")
	}
	b.entityID = entityID
	if b.ProfileData == nil || b.ProfileData.PositionName == "" {
		return dErrors.New(dErrors.CodeValidation, "profile data with a position name is required")
	}
	return nil
}

// Parsed converts the body to the service input.
func (b *CreateRecruitmentBody) Parsed() service.CreateRecruitmentInput {
	return service.CreateRecruitmentInput{
		EntityID: b.entityID,
		Type:     models.RecruitmentType(b.RecruitmentType),
		Profile: service.ProfileInput{
			PositionName:    b.ProfileData.PositionName,
			Area:            b.ProfileData.Area,
			WorkLocation:    b.ProfileData.WorkLocation,
			WorkModality:    b.ProfileData.WorkModality,
			ContractType:    b.ProfileData.ContractType,
			SalaryRangeFrom: b.ProfileData.SalaryRangeFrom,
			SalaryRangeTo:   b.ProfileData.SalaryRangeTo,
			JobFunctions:    b.ProfileData.JobFunctions,
		},
	}
}

// UpdateStateBody is the HTTP body for PATCH /recruitments/{recruitmentID}/status.
type UpdateStateBody struct {
	Status string `json:"status"`
}

func (b *UpdateStateBody) Validate() error {
	if !models.ValidRecruitmentState(models.RecruitmentState(b.Status)) {
		return dErrors.New(dErrors.CodeValidation, "unknown recruitment state")
	}
	return nil
}
