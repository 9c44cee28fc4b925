package dto

type ConcernReq struct {
	Reason  string `json:"reason" example:"promotional"`
	Details string `json:"details" example:"Same ad posted three times today"`
}

type ConcernResp struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ReportCount   int    `json:"reportCount"`
	WillReanalyze bool   `json:"willReanalyze"`
}
