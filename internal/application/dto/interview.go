package dto

import (
	"github.com/MarkTaylorTsai/line-bot-president/internal/domain/entity"
)

// InterviewResponse is the DTO for presenting an interview to the client.
type InterviewResponse struct {
	ID          uint   `json:"id"`
	Interviewee string `json:"interviewee"`
	Interviewer string `json:"interviewer"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Reason      string `json:"reason,omitempty"`
}

// ToInterviewResponse converts an entity.Interview to an InterviewResponse DTO.
func ToInterviewResponse(i *entity.Interview) InterviewResponse {
	return InterviewResponse{
		ID:          i.ID,
		Interviewee: i.Interviewee,
		Interviewer: i.Interviewer,
		Date:        i.Date,
		Time:        i.Time,
		Reason:      i.Reason,
	}
}

// ToInterviewResponseList converts a slice of entity.Interview to a slice of DTOs.
func ToInterviewResponseList(interviews []*entity.Interview) []InterviewResponse {
	list := make([]InterviewResponse, len(interviews))
	for i, iv := range interviews {
		list[i] = ToInterviewResponse(iv)
	}
	return list
}

// CreateInterviewRequest is the DTO for creating a new interview.
type CreateInterviewRequest struct {
	OwnerID     string `json:"owner_id"`
	Interviewee string `json:"interviewee"`
	Interviewer string `json:"interviewer"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Reason      string `json:"reason,omitempty"`
}

// UpdateInterviewRequest is the DTO for a partial interview update. Nil
// fields are left unchanged.
type UpdateInterviewRequest struct {
	OwnerID     string  `json:"owner_id"`
	ID          uint    `json:"id"`
	Interviewee *string `json:"interviewee,omitempty"`
	Interviewer *string `json:"interviewer,omitempty"`
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"time,omitempty"`
	Reason      *string `json:"reason,omitempty"`
}
