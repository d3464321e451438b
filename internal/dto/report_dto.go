package dto

type CreateReportRequest struct {
	ChatID      string `json:"chat_id" validate:"required,uuid"`
	Reason      string `json:"reason" validate:"notblank,max=500"`
	Description string `json:"description" validate:"notblank,minwords=5,max=2000"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status"`
}

type UserCountResponse struct {
	Count int64 `json:"count"`
}
